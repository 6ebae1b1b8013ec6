// Package uriutil converts between file paths and file:// URIs as LSP clients
// send them.
package uriutil

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

const fileScheme = "file://"

// PathToURI converts a file system path to a file:// URI. Relative paths are
// made absolute, each segment is percent-encoded, and Windows drive paths get
// the extra leading slash (C:\proj becomes file:///C:/proj). UNC paths keep
// their server as the URI host.
func PathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	if runtime.GOOS == "windows" && strings.HasPrefix(path, `\\`) {
		return fileScheme + escapeSegments(filepath.ToSlash(strings.TrimPrefix(path, `\\`)))
	}

	path = filepath.ToSlash(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fileScheme + escapeSegments(path)
}

func escapeSegments(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// URIToPath converts a file:// URI to a file system path, percent-decoding it.
// Anything that is not a parseable file URI is treated leniently as a path.
func URIToPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return fromSlash(strings.TrimPrefix(uri, fileScheme))
	}

	if parsed.Host != "" {
		if runtime.GOOS == "windows" {
			return `\\` + parsed.Host + strings.ReplaceAll(parsed.Path, "/", `\`)
		}
		return parsed.Host + parsed.Path
	}
	return fromSlash(parsed.Path)
}

// fromSlash strips the slash in front of a drive letter (/C:/x) and converts
// to OS separators
func fromSlash(path string) string {
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path)
}

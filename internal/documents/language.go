package documents

import (
	"path/filepath"
	"strings"

	"bennypowers.dev/gqlint/internal/collections"
)

// lintableLanguages are the LSP language identifiers we extract templates from
var lintableLanguages = collections.NewSet(
	"javascript",
	"javascriptreact",
	"typescript",
	"typescriptreact",
	"html",
)

// lintableExtensions back up clients that send an unknown or empty language ID
var lintableExtensions = collections.NewSet(
	".js", ".jsx", ".mjs", ".cjs",
	".ts", ".tsx", ".mts", ".cts",
	".html", ".htm",
)

// IsLintable reports whether a document with this language ID or URI can hold
// tagged GraphQL templates
func IsLintable(languageID, uri string) bool {
	if lintableLanguages.Has(strings.ToLower(languageID)) {
		return true
	}
	return lintableExtensions.Has(strings.ToLower(filepath.Ext(uri)))
}

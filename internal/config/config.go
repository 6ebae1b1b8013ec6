package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bennypowers.dev/gqlint/internal/log"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// PackageJSONKey is the package.json field holding gqlint settings
const PackageJSONKey = "graphql"

// ConfigFileNames are searched in order in the workspace root
var ConfigFileNames = []string{
	".graphqlrc.yml",
	".graphqlrc.yaml",
	".graphqlrc.json",
	".graphqlrc",
}

// DefaultDocuments are the globs linted when no documents are configured
var DefaultDocuments = []string{
	"**/*.{js,jsx,mjs,cjs,ts,tsx,mts,cts}",
	"**/*.html",
}

// File is the on-disk configuration, before validation
type File struct {
	// Env selects the interpolation environment (default, apollo, lokka, relay, none)
	Env string `yaml:"env,omitempty" json:"env,omitempty"`

	// TagName overrides the environment's default template tag, e.g. "graphql" or "Relay.QL"
	TagName string `yaml:"tagName,omitempty" json:"tagName,omitempty"`

	// Schema lists SDL sources: file paths, doublestar globs or http(s) URLs
	Schema StringList `yaml:"schema,omitempty" json:"schema,omitempty"`

	// Documents lists globs of files to lint
	Documents StringList `yaml:"documents,omitempty" json:"documents,omitempty"`

	LogLevel string `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`
}

// Merge returns f with every non-empty field of over applied on top
func (f File) Merge(over File) File {
	if over.Env != "" {
		f.Env = over.Env
	}
	if over.TagName != "" {
		f.TagName = over.TagName
	}
	if len(over.Schema) > 0 {
		f.Schema = over.Schema
	}
	if len(over.Documents) > 0 {
		f.Documents = over.Documents
	}
	if over.LogLevel != "" {
		f.LogLevel = over.LogLevel
	}
	return f
}

// StringList accepts either a single string or a list of strings
type StringList []string

func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := value.Decode(&ss); err != nil {
			return err
		}
		*l = ss
		return nil
	}
	return fmt.Errorf("line %d: expected a string or a list of strings", value.Line)
}

func (l *StringList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = StringList{s}
		return nil
	}
	var ss []string
	if err := json.Unmarshal(data, &ss); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}
	*l = ss
	return nil
}

// Config is a validated configuration, ready for linting
type Config struct {
	// Root is the directory relative paths are resolved against
	Root      string
	Env       Environment
	Tag       TagName
	Schema    []string
	Documents []string
	LogLevel  log.Level
	// Source is the file the settings were read from, empty when only defaults apply
	Source string
}

// Resolve validates f eagerly. Any bad value is a *ConfigurationError.
func Resolve(root string, f File) (*Config, error) {
	env, err := ParseEnvironment(f.Env)
	if err != nil {
		return nil, err
	}

	tag, err := ResolveTagName(env, f.TagName)
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(f.LogLevel)
	if err != nil {
		return nil, NewConfigurationError("logLevel", f.LogLevel, "expected debug, info, warn or error")
	}

	documents := []string(f.Documents)
	if len(documents) == 0 {
		documents = DefaultDocuments
	}

	return &Config{
		Root:      root,
		Env:       env,
		Tag:       tag,
		Schema:    trimAll(f.Schema),
		Documents: trimAll(documents),
		LogLevel:  level,
	}, nil
}

// Load reads the configuration for root (or the explicit file when given),
// applies overrides on top and validates the result.
func Load(root, explicit string, overrides File) (*Config, error) {
	var (
		file   *File
		source string
		err    error
	)

	if explicit != "" {
		file, err = ReadFile(explicit)
		source = explicit
		if err == nil && root == "" {
			root = filepath.Dir(explicit)
		}
	} else {
		file, source, err = Find(root)
	}
	if err != nil {
		return nil, err
	}
	if file == nil {
		file = &File{}
	}

	cfg, err := Resolve(root, file.Merge(overrides))
	if err != nil {
		return nil, err
	}
	cfg.Source = source
	if source != "" {
		log.Debug("Loaded configuration from %s", source)
	}
	return cfg, nil
}

// Find searches root for a config file, then for the graphql key in package.json.
// Returns a nil File when nothing is configured (not an error).
func Find(root string) (*File, string, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		file, err := ReadFile(path)
		return file, path, err
	}

	path := filepath.Join(root, "package.json")
	file, err := readPackageJSON(path)
	if err != nil || file == nil {
		return nil, "", err
	}
	return file, path, nil
}

// ReadFile parses a YAML or JSON (comments allowed) config file
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: config path comes from the workspace or the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var file File
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		return &file, nil
	}

	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &file, nil
}

// readPackageJSON extracts the graphql settings object from package.json.
// A missing file or key is not an error.
func readPackageJSON(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: reading workspace package.json
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}

	var pkg map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}

	raw, ok := pkg[PackageJSONKey]
	if !ok {
		return nil, nil
	}

	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, NewConfigurationError(PackageJSONKey, string(raw), "package.json graphql settings must be an object")
	}
	return &file, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

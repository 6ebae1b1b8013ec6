package types

import "bennypowers.dev/gqlint/internal/config"

// SettingsKey is the workspace/didChangeConfiguration section holding ServerConfig
const SettingsKey = "gqlint"

// ServerConfig is the configuration a client sends. Empty fields defer to the
// project's .graphqlrc or package.json.
type ServerConfig struct {
	// Env selects the interpolation syntax and rule subset: default, apollo, lokka, relay or none
	Env string `json:"env,omitempty"`

	// TagName overrides the environment's tag, e.g. "graphql" or "Relay.QL"
	TagName string `json:"tagName,omitempty"`

	// Schema lists SDL files, globs or URLs
	Schema []string `json:"schema,omitempty"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `json:"logLevel,omitempty"`
}

// DefaultConfig returns the zero configuration, deferring everything to the project
func DefaultConfig() ServerConfig {
	return ServerConfig{}
}

// Overrides converts client settings into overrides for the project config
func (c ServerConfig) Overrides() config.File {
	return config.File{
		Env:      c.Env,
		TagName:  c.TagName,
		Schema:   config.StringList(c.Schema),
		LogLevel: c.LogLevel,
	}
}

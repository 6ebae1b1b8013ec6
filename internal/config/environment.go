package config

import (
	"strings"

	"bennypowers.dev/gqlint/internal/embed"
)

// Environment is a named profile selecting interpolation syntax, default tag
// and validation rule subset
type Environment string

const (
	EnvDefault Environment = "default"
	EnvApollo  Environment = "apollo"
	EnvLokka   Environment = "lokka"
	EnvRelay   Environment = "relay"
	EnvNone    Environment = "none"
)

type environmentProfile struct {
	modes      embed.Modes
	tagName    string
	sugarNames bool
}

var profiles = map[Environment]environmentProfile{
	EnvDefault: {modes: embed.VariableReference, tagName: "gql"},
	EnvApollo:  {modes: embed.VariableReference, tagName: "gql"},
	EnvLokka:   {modes: embed.TypedFragmentSpread, tagName: "gql", sugarNames: true},
	EnvRelay:   {modes: embed.VariableReference | embed.ImplicitFragmentSpread, tagName: "Relay.QL", sugarNames: true},
	EnvNone:    {modes: 0, tagName: "gql"},
}

// Environments lists every supported environment, default first
func Environments() []Environment {
	return []Environment{EnvDefault, EnvApollo, EnvLokka, EnvRelay, EnvNone}
}

// ParseEnvironment validates an environment name. The empty name means default.
func ParseEnvironment(name string) (Environment, error) {
	env := Environment(strings.TrimSpace(name))
	if env == "" {
		return EnvDefault, nil
	}
	if _, ok := profiles[env]; !ok {
		return "", NewConfigurationError("env", name, "only default, apollo, lokka, relay and none are supported")
	}
	return env, nil
}

// Modes returns the interpolation shapes this environment accepts
func (e Environment) Modes() embed.Modes {
	return profiles[e].modes
}

// DefaultTagName returns the tag name implied by the environment
func (e Environment) DefaultTagName() string {
	if p, ok := profiles[e]; ok {
		return p.tagName
	}
	return profiles[EnvDefault].tagName
}

// PatchesFragmentShorthand reports whether "fragment on Type" sugar is rewritten
// before parsing
func (e Environment) PatchesFragmentShorthand() bool {
	return profiles[e].sugarNames
}

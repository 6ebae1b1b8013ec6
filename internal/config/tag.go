package config

import (
	"regexp"
	"strings"
)

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// TagName is the template tag that marks a GraphQL literal: either a bare
// identifier (gql) or a two-part member access (Relay.QL)
type TagName struct {
	// Object is empty for a bare identifier
	Object string
	// Name is the identifier, or the property of a member access
	Name string
}

// ParseTagName validates and splits a tag name
func ParseTagName(s string) (TagName, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	for _, part := range parts {
		if !identifier.MatchString(part) {
			return TagName{}, NewConfigurationError("tagName", s, "must be an identifier or a dotted pair of identifiers")
		}
	}

	switch len(parts) {
	case 1:
		return TagName{Name: parts[0]}, nil
	case 2:
		return TagName{Object: parts[0], Name: parts[1]}, nil
	default:
		return TagName{}, NewConfigurationError("tagName", s, "at most two dotted parts are supported")
	}
}

// ResolveTagName returns the override if given, otherwise the environment's default
func ResolveTagName(env Environment, override string) (TagName, error) {
	if strings.TrimSpace(override) != "" {
		return ParseTagName(override)
	}
	return ParseTagName(env.DefaultTagName())
}

// IsMember reports whether the tag is a member access such as Relay.QL
func (t TagName) IsMember() bool {
	return t.Object != ""
}

func (t TagName) String() string {
	if t.IsMember() {
		return t.Object + "." + t.Name
	}
	return t.Name
}

package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

// introspectionResult accepts both a full response and a bare __schema object
type introspectionResult struct {
	Data *struct {
		Schema *introspectionSchema `json:"__schema"`
	} `json:"data"`
	Schema *introspectionSchema `json:"__schema"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type introspectionSchema struct {
	QueryType        *typeName                `json:"queryType"`
	MutationType     *typeName                `json:"mutationType"`
	SubscriptionType *typeName                `json:"subscriptionType"`
	Types            []introspectionType      `json:"types"`
	Directives       []introspectionDirective `json:"directives"`
}

type typeName struct {
	Name string `json:"name"`
}

type introspectionType struct {
	Kind           string               `json:"kind"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	SpecifiedByURL string               `json:"specifiedByURL"`
	Fields         []introspectionField `json:"fields"`
	InputFields    []introspectionInput `json:"inputFields"`
	Interfaces     []typeName           `json:"interfaces"`
	PossibleTypes  []typeName           `json:"possibleTypes"`
	EnumValues     []introspectionEnum  `json:"enumValues"`
}

type introspectionField struct {
	Name              string               `json:"name"`
	Description       string               `json:"description"`
	Args              []introspectionInput `json:"args"`
	Type              typeRef              `json:"type"`
	IsDeprecated      bool                 `json:"isDeprecated"`
	DeprecationReason string               `json:"deprecationReason"`
}

type introspectionInput struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Type              typeRef `json:"type"`
	DefaultValue      *string `json:"defaultValue"`
	IsDeprecated      bool    `json:"isDeprecated"`
	DeprecationReason string  `json:"deprecationReason"`
}

type introspectionEnum struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	IsDeprecated      bool   `json:"isDeprecated"`
	DeprecationReason string `json:"deprecationReason"`
}

type introspectionDirective struct {
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Locations    []string             `json:"locations"`
	Args         []introspectionInput `json:"args"`
	IsRepeatable bool                 `json:"isRepeatable"`
}

type typeRef struct {
	Kind   string   `json:"kind"`
	Name   string   `json:"name"`
	OfType *typeRef `json:"ofType"`
}

var errNoSchema = errors.New("no __schema in introspection result")

// builtins holds the type and directive names every schema already gets from
// the prelude; introspection results repeat them.
var builtins = func() map[string]bool {
	names := map[string]bool{}
	doc, err := parser.ParseSchema(validator.Prelude)
	if err != nil {
		panic(fmt.Sprintf("failed to parse prelude: %v", err))
	}
	for _, def := range doc.Definitions {
		names[def.Name] = true
	}
	for _, dir := range doc.Directives {
		names["@"+dir.Name] = true
	}
	return names
}()

// isIntrospection reports whether data looks like JSON rather than SDL
func isIntrospection(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))
}

// introspectionToSDL renders an introspection query result as SDL
func introspectionToSDL(data []byte) (string, error) {
	var result introspectionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return "", err
	}
	if len(result.Errors) > 0 {
		return "", errors.New(result.Errors[0].Message)
	}

	s := result.Schema
	if s == nil && result.Data != nil {
		s = result.Data.Schema
	}
	if s == nil {
		return "", errNoSchema
	}

	var b strings.Builder
	writeSchemaDefinition(&b, s)
	for _, t := range s.Types {
		if builtins[t.Name] || strings.HasPrefix(t.Name, "__") {
			continue
		}
		if err := writeType(&b, t); err != nil {
			return "", err
		}
	}
	for _, d := range s.Directives {
		if builtins["@"+d.Name] {
			continue
		}
		writeDescription(&b, "", d.Description)
		b.WriteString("directive @" + d.Name)
		writeArgs(&b, d.Args)
		if d.IsRepeatable {
			b.WriteString(" repeatable")
		}
		b.WriteString(" on " + strings.Join(d.Locations, " | ") + "\n\n")
	}
	return b.String(), nil
}

func writeSchemaDefinition(b *strings.Builder, s *introspectionSchema) {
	if s.QueryType == nil {
		return
	}
	b.WriteString("schema {\n  query: " + s.QueryType.Name + "\n")
	if s.MutationType != nil {
		b.WriteString("  mutation: " + s.MutationType.Name + "\n")
	}
	if s.SubscriptionType != nil {
		b.WriteString("  subscription: " + s.SubscriptionType.Name + "\n")
	}
	b.WriteString("}\n\n")
}

func writeType(b *strings.Builder, t introspectionType) error {
	writeDescription(b, "", t.Description)
	switch t.Kind {
	case "SCALAR":
		b.WriteString("scalar " + t.Name)
		if t.SpecifiedByURL != "" {
			b.WriteString(" @specifiedBy(url: " + quote(t.SpecifiedByURL) + ")")
		}
		b.WriteString("\n\n")
	case "OBJECT", "INTERFACE":
		keyword := "type "
		if t.Kind == "INTERFACE" {
			keyword = "interface "
		}
		b.WriteString(keyword + t.Name)
		if len(t.Interfaces) > 0 {
			b.WriteString(" implements " + joinNames(t.Interfaces, " & "))
		}
		b.WriteString(" {\n")
		for _, f := range t.Fields {
			writeDescription(b, "  ", f.Description)
			b.WriteString("  " + f.Name)
			writeArgs(b, f.Args)
			b.WriteString(": " + f.Type.String())
			writeDeprecated(b, f.IsDeprecated, f.DeprecationReason)
			b.WriteString("\n")
		}
		b.WriteString("}\n\n")
	case "UNION":
		b.WriteString("union " + t.Name + " = " + joinNames(t.PossibleTypes, " | ") + "\n\n")
	case "ENUM":
		b.WriteString("enum " + t.Name + " {\n")
		for _, v := range t.EnumValues {
			writeDescription(b, "  ", v.Description)
			b.WriteString("  " + v.Name)
			writeDeprecated(b, v.IsDeprecated, v.DeprecationReason)
			b.WriteString("\n")
		}
		b.WriteString("}\n\n")
	case "INPUT_OBJECT":
		b.WriteString("input " + t.Name + " {\n")
		for _, f := range t.InputFields {
			writeDescription(b, "  ", f.Description)
			b.WriteString("  ")
			writeInput(b, f)
			b.WriteString("\n")
		}
		b.WriteString("}\n\n")
	default:
		return fmt.Errorf("type %s has unknown kind %q", t.Name, t.Kind)
	}
	return nil
}

func writeArgs(b *strings.Builder, args []introspectionInput) {
	if len(args) == 0 {
		return
	}
	b.WriteString("(")
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		writeInput(b, a)
	}
	b.WriteString(")")
}

func writeInput(b *strings.Builder, in introspectionInput) {
	b.WriteString(in.Name + ": " + in.Type.String())
	if in.DefaultValue != nil {
		b.WriteString(" = " + *in.DefaultValue)
	}
	writeDeprecated(b, in.IsDeprecated, in.DeprecationReason)
}

func writeDeprecated(b *strings.Builder, deprecated bool, reason string) {
	if !deprecated {
		return
	}
	b.WriteString(" @deprecated")
	if reason != "" {
		b.WriteString("(reason: " + quote(reason) + ")")
	}
}

func writeDescription(b *strings.Builder, indent, description string) {
	if description == "" {
		return
	}
	b.WriteString(indent + quote(description) + "\n")
}

func joinNames(names []typeName, sep string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n.Name
	}
	return strings.Join(parts, sep)
}

// quote renders s as a GraphQL string literal. JSON string escapes are a
// subset of GraphQL's.
func quote(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

func (t typeRef) String() string {
	switch {
	case t.Kind == "NON_NULL" && t.OfType != nil:
		return t.OfType.String() + "!"
	case t.Kind == "LIST" && t.OfType != nil:
		return "[" + t.OfType.String() + "]"
	default:
		return t.Name
	}
}

package lint_test

import (
	"testing"

	"bennypowers.dev/gqlint/internal/config"
	"bennypowers.dev/gqlint/internal/embed"
	"bennypowers.dev/gqlint/internal/lint"
	"bennypowers.dev/gqlint/internal/parser/js"
	"bennypowers.dev/gqlint/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

const testSchema = `
type Query {
  hero: User
  user(id: ID!): User
}

type User {
  id: ID!
  name: String
  friends: [User!]!
}
`

func newLinter(t *testing.T, env string, withSchema bool) *lint.Linter {
	t.Helper()
	cfg, err := config.Resolve(t.TempDir(), config.File{Env: env})
	require.NoError(t, err)

	var schema *ast.Schema
	if withSchema {
		schema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: testSchema})
	}
	return lint.New(cfg, schema)
}

func TestLintSource(t *testing.T) {
	tests := []struct {
		name       string
		env        string
		withSchema bool
		source     string
		want       []lint.Diagnostic
	}{
		{
			name:       "valid query",
			withSchema: true,
			source:     "const q = gql`{ hero { name } }`;",
		},
		{
			name:       "unknown field",
			withSchema: true,
			source:     "const q = gql`{ hero { nmae } }`;",
			want: []lint.Diagnostic{{
				Position: embed.Position{Line: 1, Column: 23},
				Kind:     lint.KindValidation,
				Rule:     "FieldsOnCorrectType",
			}},
		},
		{
			name:       "unknown field on a later line",
			withSchema: true,
			source:     "const q = gql`\n  query {\n    hero { nmae }\n  }\n`;",
			want: []lint.Diagnostic{{
				Position: embed.Position{Line: 3, Column: 11},
				Kind:     lint.KindValidation,
				Rule:     "FieldsOnCorrectType",
			}},
		},
		{
			name:       "astral character before the error",
			withSchema: true,
			source:     "const q = gql`{ user(id: \"😀\") { nmae } }`;",
			want: []lint.Diagnostic{{
				Position: embed.Position{Line: 1, Column: 33},
				Kind:     lint.KindValidation,
				Rule:     "FieldsOnCorrectType",
			}},
		},
		{
			name:       "astral character on a later line",
			withSchema: true,
			source:     "const q = gql`\n  query {\n    user(id: \"😀\") { nmae }\n  }\n`;",
			want: []lint.Diagnostic{{
				Position: embed.Position{Line: 3, Column: 21},
				Kind:     lint.KindValidation,
				Rule:     "FieldsOnCorrectType",
			}},
		},
		{
			name:   "syntax error without schema",
			source: "gql`{ hero { name } } }`",
			want: []lint.Diagnostic{{
				Position: embed.Position{Line: 1, Column: 22},
				Kind:     lint.KindSyntax,
			}},
		},
		{
			name:   "unclassifiable interpolation",
			source: "gql`{ hero ${x} }`",
			want: []lint.Diagnostic{{
				Message:  embed.InvalidInterpolationMessage,
				Position: embed.Position{Line: 1, Column: 13},
				Kind:     lint.KindInvalidInterpolation,
			}},
		},
		{
			name:   "variable interpolation parses without schema",
			source: "gql`query { user(id: ${id}) { name } }`",
		},
		{
			name:       "interpolated variable is undeclared",
			withSchema: true,
			source:     "gql`query { user(id: ${id}) { name } }`",
			want: []lint.Diagnostic{{
				Position: embed.Position{Line: 1, Column: 21},
				Kind:     lint.KindValidation,
				Rule:     "NoUndefinedVariables",
			}},
		},
		{
			name:   "no validation without schema",
			source: "const q = gql`{ hero { nmae } }`;",
		},
		{
			name:       "other tags are ignored",
			withSchema: true,
			source:     "graphql`{ nmae }`; Relay.QL`{ nmae }`; html`<p>${x}</p>`",
		},
		{
			name:   "none accepts no interpolation",
			env:    "none",
			source: "gql`{ hero { ...${F} } }`",
			want: []lint.Diagnostic{{
				Message:  embed.InvalidInterpolationMessage,
				Position: embed.Position{Line: 1, Column: 18},
				Kind:     lint.KindInvalidInterpolation,
			}},
		},
		{
			name:       "lokka typed spread",
			env:        "lokka",
			withSchema: true,
			source:     "gql`{ hero { ...${F} } }`",
		},
		{
			name:       "lokka fragment shorthand",
			env:        "lokka",
			withSchema: true,
			source:     "gql`fragment on User { name }`",
		},
		{
			name:       "lokka named fragment starting with on",
			env:        "lokka",
			withSchema: true,
			source:     "gql`fragment onlineFields on User { name }`",
		},
		{
			name:       "relay implicit spread and shorthand",
			env:        "relay",
			withSchema: true,
			source:     "Relay.QL`fragment on User { friends { ${Author.getFragment('a')} } }`",
		},
		{
			name:       "relay skips undefined variables",
			env:        "relay",
			withSchema: true,
			source:     "Relay.QL`query { user(id: ${id}) { name } }`",
		},
		{
			name:       "relay ignores bare QL",
			env:        "relay",
			withSchema: true,
			source:     "QL`{ nmae }`",
		},
		{
			name:       "one diagnostic per template",
			withSchema: true,
			source:     "gql`{ hero { nmae eman } }`;\ngql`{ hero { name } }`;\ngql`{ villain }`;",
			want: []lint.Diagnostic{
				{Position: embed.Position{Line: 1, Column: 13}, Kind: lint.KindValidation, Rule: "FieldsOnCorrectType"},
				{Position: embed.Position{Line: 3, Column: 6}, Kind: lint.KindValidation, Rule: "FieldsOnCorrectType"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			linter := newLinter(t, tt.env, tt.withSchema)

			diags, err := linter.LintSource("query.js", tt.source)
			require.NoError(t, err)
			require.Len(t, diags, len(tt.want), "diagnostics: %v", diags)

			for i, want := range tt.want {
				got := diags[i]
				assert.Equal(t, "query.js", got.File)
				assert.Equal(t, want.Position, got.Position, "position")
				assert.Equal(t, want.Kind, got.Kind, "kind")
				assert.Equal(t, want.Rule, got.Rule, "rule")
				assert.NotEmpty(t, got.Message)
				assert.NotContains(t, got.Message, "\n")
				if want.Message != "" {
					assert.Equal(t, want.Message, got.Message)
				}
			}
		})
	}
}

func TestLintSourceHTML(t *testing.T) {
	linter := newLinter(t, "", true)

	source := "<html>\n  <script type=\"module\">const q = gql`{ hero { nmae } }`;</script>\n</html>\n"
	diags, err := linter.LintSource("index.html", source)
	require.NoError(t, err)
	require.Len(t, diags, 1)

	// the script body starts at column 24, so the field sits at 24 + 23
	assert.Equal(t, embed.Position{Line: 2, Column: 47}, diags[0].Position)
	assert.Equal(t, "FieldsOnCorrectType", diags[0].Rule)
}

func TestLintTemplateMessage(t *testing.T) {
	linter := newLinter(t, "", true)

	diags, err := linter.LintSource("q.ts", "gql`{ hero { nmae } }`")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, `Cannot query field "nmae" on type "User".`)
}

func TestLintTemplateMalformed(t *testing.T) {
	linter := newLinter(t, "", false)

	_, err := linter.LintTemplate(js.TaggedTemplate{
		Tag:     js.Tag{Kind: js.TagIdentifier, Name: "gql"},
		Literal: embed.Literal{},
	})
	require.ErrorIs(t, err, embed.ErrMalformedLiteral)

	diags, err := linter.LintTemplates("broken.js", []js.TaggedTemplate{
		{Tag: js.Tag{Kind: js.TagIdentifier, Name: "gql"}},
		{Tag: js.Tag{Kind: js.TagIdentifier, Name: "gql"}, Literal: embed.NewLiteral([]string{"{ hero ", " }"}, 1)},
	})
	require.ErrorIs(t, err, embed.ErrMalformedLiteral)
	require.Len(t, diags, 1, "later templates are still linted")
	assert.Equal(t, lint.KindInvalidInterpolation, diags[0].Kind)
}

func TestLinterMatches(t *testing.T) {
	tests := []struct {
		name string
		env  string
		tag  js.Tag
		want bool
	}{
		{"identifier", "", js.Tag{Kind: js.TagIdentifier, Name: "gql"}, true},
		{"other identifier", "", js.Tag{Kind: js.TagIdentifier, Name: "graphql"}, false},
		{"member with matching property", "", js.Tag{Kind: js.TagMember, Object: "x", Name: "gql"}, false},
		{"relay member", "relay", js.Tag{Kind: js.TagMember, Object: "Relay", Name: "QL"}, true},
		{"relay bare property", "relay", js.Tag{Kind: js.TagIdentifier, Name: "QL"}, false},
		{"relay other object", "relay", js.Tag{Kind: js.TagMember, Object: "Other", Name: "QL"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			linter := newLinter(t, tt.env, false)
			assert.Equal(t, tt.want, linter.Matches(tt.tag))
		})
	}
}

func TestLinterRules(t *testing.T) {
	relay := rules.Names(newLinter(t, "relay", false).Rules())
	assert.NotContains(t, relay, "ScalarLeafs")
	assert.NotContains(t, relay, "NoUndefinedVariables")
	assert.Contains(t, relay, "FieldsOnCorrectType")

	apollo := rules.Names(newLinter(t, "apollo", false).Rules())
	assert.Len(t, apollo, len(rules.Catalogue))
}

func TestSort(t *testing.T) {
	diags := []lint.Diagnostic{
		{File: "b.js", Position: embed.Position{Line: 1, Column: 0}},
		{File: "a.js", Position: embed.Position{Line: 2, Column: 0}},
		{File: "a.js", Position: embed.Position{Line: 1, Column: 4}},
		{File: "a.js", Position: embed.Position{Line: 1, Column: 2}},
	}
	lint.Sort(diags)

	var got []string
	for _, d := range diags {
		got = append(got, d.File+":"+d.Position.String())
	}
	assert.Equal(t, []string{"a.js:1:2", "a.js:1:4", "a.js:2:0", "b.js:1:0"}, got)
}

func TestIsHTML(t *testing.T) {
	assert.True(t, lint.IsHTML("index.html"))
	assert.True(t, lint.IsHTML("INDEX.HTM"))
	assert.False(t, lint.IsHTML("app.tsx"))
}

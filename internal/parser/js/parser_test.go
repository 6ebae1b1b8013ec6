package js_test

import (
	"os"
	"testing"

	"bennypowers.dev/gqlint/internal/embed"
	"bennypowers.dev/gqlint/internal/parser/js"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFixture(t *testing.T, fixture string) []js.TaggedTemplate {
	t.Helper()
	source, err := os.ReadFile(fixture)
	require.NoError(t, err)

	parser := js.AcquireParser()
	defer js.ReleaseParser(parser)

	return parser.ParseTemplates(string(source))
}

func TestParseTemplates(t *testing.T) {
	tests := []struct {
		name     string
		fixture  string
		wantTags []string
	}{
		{"apollo query", "testdata/apollo-query.js", []string{"gql"}},
		{"relay container", "testdata/relay-container.js", []string{"Relay.QL"}},
		{"only foreign tags", "testdata/plain-templates.js", []string{"String.raw"}},
		{"tsx component", "testdata/component.tsx", []string{"gql"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			templates := parseFixture(t, tt.fixture)

			var tags []string
			for _, tmpl := range templates {
				tags = append(tags, tmpl.Tag.String())
			}
			assert.Equal(t, tt.wantTags, tags)
		})
	}
}

func TestParseTemplatesSplitsAtSubstitutions(t *testing.T) {
	templates := parseFixture(t, "testdata/apollo-query.js")
	require.Len(t, templates, 1)

	tmpl := templates[0]
	assert.Equal(t, js.Tag{Kind: js.TagIdentifier, Name: "gql", Start: embed.Position{Line: 3, Column: 14}}, tmpl.Tag)

	lit := tmpl.Literal
	require.NoError(t, lit.Validate())
	assert.Equal(t, embed.Position{Line: 3, Column: 17}, lit.Start, "backtick position")

	require.Len(t, lit.Segments, 2)
	require.Len(t, lit.Slots, 1)

	assert.Equal(t, "\n  query {\n    user(id: ", lit.Segments[0].Text)
	assert.Equal(t, embed.Position{Line: 3, Column: 18}, lit.Segments[0].Start)

	assert.Equal(t, embed.Slot{ExpressionLength: 2, Start: embed.Position{Line: 5, Column: 15}}, lit.Slots[0])

	assert.Equal(t, ") { name }\n  }\n", lit.Segments[1].Text)
	assert.Equal(t, embed.Position{Line: 5, Column: 18}, lit.Segments[1].Start)
}

func TestParseTemplatesMemberTag(t *testing.T) {
	templates := parseFixture(t, "testdata/relay-container.js")
	require.Len(t, templates, 1)

	tag := templates[0].Tag
	assert.Equal(t, js.TagMember, tag.Kind)
	assert.Equal(t, "Relay", tag.Object)
	assert.Equal(t, "QL", tag.Name)

	lit := templates[0].Literal
	require.Len(t, lit.Slots, 1)
	assert.Equal(t, len("Author.getFragment('author')"), lit.Slots[0].ExpressionLength)
	assert.Equal(t, embed.Position{Line: 8, Column: 10}, lit.Slots[0].Start)
}

func TestParseTemplatesInline(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		wantTags  []js.Tag
		wantTexts [][]string
	}{
		{
			name:      "empty template",
			source:    "gql``",
			wantTags:  []js.Tag{{Kind: js.TagIdentifier, Name: "gql", Start: embed.Position{Line: 1, Column: 0}}},
			wantTexts: [][]string{{""}},
		},
		{
			name:      "adjacent substitutions",
			source:    "gql`${a}${b}`",
			wantTags:  []js.Tag{{Kind: js.TagIdentifier, Name: "gql", Start: embed.Position{Line: 1, Column: 0}}},
			wantTexts: [][]string{{"", "", ""}},
		},
		{
			name:   "UTF-16 columns",
			source: "const q = /* 😀 */ gql`{ a }`;",
			wantTags: []js.Tag{
				{Kind: js.TagIdentifier, Name: "gql", Start: embed.Position{Line: 1, Column: 19}},
			},
			wantTexts: [][]string{{"{ a }"}},
		},
		{
			name:   "multiple templates in source order",
			source: "a`1`;\nb.c`2`;",
			wantTags: []js.Tag{
				{Kind: js.TagIdentifier, Name: "a", Start: embed.Position{Line: 1, Column: 0}},
				{Kind: js.TagMember, Object: "b", Name: "c", Start: embed.Position{Line: 2, Column: 0}},
			},
			wantTexts: [][]string{{"1"}, {"2"}},
		},
		{
			name:   "member chains are not tags",
			source: "a.b.c`{ x }`",
		},
		{
			name:   "untagged template",
			source: "const s = `{ x }`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := js.AcquireParser()
			defer js.ReleaseParser(parser)

			templates := parser.ParseTemplates(tt.source)
			require.Len(t, templates, len(tt.wantTags))

			for i, tmpl := range templates {
				assert.Equal(t, tt.wantTags[i], tmpl.Tag)
				var texts []string
				for _, seg := range tmpl.Literal.Segments {
					texts = append(texts, seg.Text)
				}
				assert.Equal(t, tt.wantTexts[i], texts)
			}
		})
	}
}

func TestTaggedTemplateOffset(t *testing.T) {
	tmpl := js.TaggedTemplate{
		Tag: js.Tag{Name: "gql", Start: embed.Position{Line: 1, Column: 2}},
		Literal: embed.Literal{
			Start: embed.Position{Line: 1, Column: 5},
			Segments: []embed.Segment{
				{Text: "{ a(x: ", Start: embed.Position{Line: 1, Column: 6}},
				{Text: ") }", Start: embed.Position{Line: 2, Column: 3}},
			},
			Slots: []embed.Slot{{ExpressionLength: 1, Start: embed.Position{Line: 2, Column: 1}}},
		},
	}

	moved := tmpl.Offset(4, 10)

	assert.Equal(t, embed.Position{Line: 5, Column: 12}, moved.Tag.Start)
	assert.Equal(t, embed.Position{Line: 5, Column: 15}, moved.Literal.Start)
	assert.Equal(t, embed.Position{Line: 5, Column: 16}, moved.Literal.Segments[0].Start)
	assert.Equal(t, embed.Position{Line: 6, Column: 3}, moved.Literal.Segments[1].Start)
	assert.Equal(t, embed.Position{Line: 6, Column: 1}, moved.Literal.Slots[0].Start)

	assert.Equal(t, embed.Position{Line: 1, Column: 2}, tmpl.Tag.Start, "original is untouched")
	assert.Equal(t, embed.Position{Line: 2, Column: 3}, tmpl.Literal.Segments[1].Start, "original is untouched")
}

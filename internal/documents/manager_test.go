package documents_test

import (
	"testing"

	"bennypowers.dev/gqlint/internal/documents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func rng(sl, sc, el, ec uint32) *protocol.Range {
	return &protocol.Range{
		Start: protocol.Position{Line: sl, Character: sc},
		End:   protocol.Position{Line: el, Character: ec},
	}
}

func TestManagerLifecycle(t *testing.T) {
	m := documents.NewManager()
	uri := "file:///src/b.ts"

	require.NoError(t, m.DidOpen(uri, "typescript", 1, "gql`{ a }`"))
	require.NoError(t, m.DidOpen("file:///src/a.js", "javascript", 1, ""))

	doc := m.Get(uri)
	require.NotNil(t, doc)
	assert.Equal(t, "typescript", doc.LanguageID())
	assert.Equal(t, 1, doc.Version())
	assert.True(t, doc.Lintable())

	all := m.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "file:///src/a.js", all[0].URI(), "sorted by URI")

	require.NoError(t, m.DidClose(uri))
	assert.Nil(t, m.Get(uri))
	require.Error(t, m.DidClose(uri))
}

func TestManagerDidChange(t *testing.T) {
	tests := []struct {
		name    string
		content string
		changes []protocol.TextDocumentContentChangeEvent
		want    string
		wantErr bool
	}{
		{
			name:    "full replacement",
			content: "old",
			changes: []protocol.TextDocumentContentChangeEvent{{Text: "new"}},
			want:    "new",
		},
		{
			name:    "replace a word",
			content: "gql`{ hero { nmae } }`",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(0, 13, 0, 17), Text: "name"}},
			want:    "gql`{ hero { name } }`",
		},
		{
			name:    "insert across lines",
			content: "gql`\n  { a }\n`",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(1, 5, 1, 5), Text: " b\n  c"}},
			want:    "gql`\n  { a b\n  c }\n`",
		},
		{
			name:    "delete across lines",
			content: "one\ntwo\nthree",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(0, 3, 2, 0), Text: " "}},
			want:    "one three",
		},
		{
			name:    "UTF-16 columns after an emoji",
			content: "// 😀 x\ngql``",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(0, 6, 0, 7), Text: "y"}},
			want:    "// 😀 y\ngql``",
		},
		{
			name:    "append at end of document",
			content: "a\n",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(2, 0, 2, 0), Text: "b"}},
			want:    "a\nb",
		},
		{
			name:    "sequential changes",
			content: "abc",
			changes: []protocol.TextDocumentContentChangeEvent{
				{Range: rng(0, 0, 0, 1), Text: "x"},
				{Range: rng(0, 3, 0, 3), Text: "!"},
			},
			want: "xbc!",
		},
		{
			name:    "line out of bounds",
			content: "a",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(5, 0, 5, 0), Text: "b"}},
			wantErr: true,
		},
		{
			name:    "character out of bounds",
			content: "a",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(0, 4, 0, 4), Text: "b"}},
			wantErr: true,
		},
		{
			name:    "inverted range",
			content: "abc",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(0, 2, 0, 1), Text: ""}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := documents.NewManager()
			uri := "file:///q.js"
			require.NoError(t, m.DidOpen(uri, "javascript", 1, tt.content))

			err := m.DidChange(uri, 2, tt.changes)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.content, m.Get(uri).Content(), "content untouched on error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Get(uri).Content())
			assert.Equal(t, 2, m.Get(uri).Version())
		})
	}
}

func TestManagerDidChangeRejectsStaleVersion(t *testing.T) {
	m := documents.NewManager()
	uri := "file:///q.js"
	require.NoError(t, m.DidOpen(uri, "javascript", 5, "a"))

	err := m.DidChange(uri, 4, []protocol.TextDocumentContentChangeEvent{{Text: "b"}})
	require.Error(t, err)
	assert.Equal(t, "a", m.Get(uri).Content())

	require.Error(t, m.DidChange("file:///missing.js", 1, nil))
}

func TestIsLintable(t *testing.T) {
	tests := []struct {
		languageID string
		uri        string
		want       bool
	}{
		{"javascript", "file:///a.js", true},
		{"typescriptreact", "file:///a.tsx", true},
		{"html", "file:///index.html", true},
		{"", "file:///a.mts", true},
		{"plaintext", "file:///a.JSX", true},
		{"graphql", "file:///schema.graphql", false},
		{"css", "file:///a.css", false},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, documents.IsLintable(tt.languageID, tt.uri))
		})
	}
}

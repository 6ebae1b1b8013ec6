package documents

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	"bennypowers.dev/gqlint/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Manager tracks open documents
type Manager struct {
	documents map[string]*Document
	mu        sync.RWMutex
}

// NewManager creates a new document manager
func NewManager() *Manager {
	return &Manager{
		documents: make(map[string]*Document),
	}
}

// Get retrieves a document by URI
func (m *Manager) Get(uri string) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents[uri]
}

// GetAll returns all open documents, ordered by URI
func (m *Manager) GetAll() []*Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*Document, 0, len(m.documents))
	for _, doc := range m.documents {
		docs = append(docs, doc)
	}
	slices.SortFunc(docs, func(a, b *Document) int { return cmp.Compare(a.uri, b.uri) })
	return docs
}

// DidOpen starts tracking a document, replacing any previous state
func (m *Manager) DidOpen(uri, languageID string, version int, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.documents[uri] = NewDocument(uri, languageID, version, content)
	return nil
}

// DidClose stops tracking a document
func (m *Manager) DidClose(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.documents[uri]; !exists {
		return fmt.Errorf("document not found: %s", uri)
	}

	delete(m.documents, uri)
	return nil
}

// DidChange applies full or incremental content changes in order
func (m *Manager) DidChange(uri string, version int, changes []protocol.TextDocumentContentChangeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, exists := m.documents[uri]
	if !exists {
		return fmt.Errorf("document not found: %s", uri)
	}

	content := doc.Content()
	for _, change := range changes {
		if change.Range == nil {
			content = change.Text
			continue
		}
		next, err := applyIncrementalChange(content, *change.Range, change.Text)
		if err != nil {
			return fmt.Errorf("failed to apply changes: %w", err)
		}
		content = next
	}

	if err := doc.setContent(content, version); err != nil {
		return fmt.Errorf("failed to set document content: %w", err)
	}
	return nil
}

// applyIncrementalChange replaces the text in r. LSP positions count UTF-16
// code units, so both ends are converted to byte offsets first.
func applyIncrementalChange(content string, r protocol.Range, text string) (string, error) {
	start, err := byteOffset(content, r.Start)
	if err != nil {
		return "", fmt.Errorf("start: %w", err)
	}
	end, err := byteOffset(content, r.End)
	if err != nil {
		return "", fmt.Errorf("end: %w", err)
	}
	if end < start {
		return "", fmt.Errorf("range end %d:%d precedes start %d:%d",
			r.End.Line, r.End.Character, r.Start.Line, r.Start.Character)
	}
	return content[:start] + text + content[end:], nil
}

// byteOffset converts an LSP position into a byte offset in content. A position
// one line past the end addresses the end of the document.
func byteOffset(content string, pos protocol.Position) (int, error) {
	lines := strings.SplitAfter(content, "\n")
	line := int(pos.Line)

	switch {
	case line < len(lines):
	case line == len(lines) && pos.Character == 0:
		return len(content), nil
	default:
		return 0, fmt.Errorf("line %d out of bounds (total lines: %d)", line, len(lines))
	}

	offset := 0
	for _, l := range lines[:line] {
		offset += len(l)
	}

	text := strings.TrimSuffix(lines[line], "\n")
	col := int(pos.Character)
	if col > position.StringLengthUTF16(text) {
		return 0, fmt.Errorf("character %d out of bounds for line %d (length: %d)",
			col, line, position.StringLengthUTF16(text))
	}
	return offset + position.UTF16ToByteOffset(text, col), nil
}

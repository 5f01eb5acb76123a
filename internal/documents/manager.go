package documents

import (
	"fmt"
	"sync"

	"bennypowers.dev/lupls/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Manager holds the open documents keyed by URI.
type Manager struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

func NewManager() *Manager {
	return &Manager{documents: make(map[string]*Document)}
}

func (m *Manager) Get(uri string) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents[uri]
}

func (m *Manager) GetAll() []*Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := make([]*Document, 0, len(m.documents))
	for _, d := range m.documents {
		docs = append(docs, d)
	}
	return docs
}

func (m *Manager) DidOpen(uri, languageID string, version int, content string) *Document {
	doc := NewDocument(uri, languageID, version, content)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[uri] = doc
	return doc
}

// DidChange applies full or incremental changes in order and returns the
// resulting document.
func (m *Manager) DidChange(uri string, version int, changes []any) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.documents[uri]
	if !ok {
		return nil, fmt.Errorf("document not open: %s", uri)
	}

	content := doc.Content()
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				content = c.Text
				continue
			}
			content = ApplyEdit(content, *c.Range, c.Text)
		default:
			return nil, fmt.Errorf("unsupported content change %T", change)
		}
	}

	next, err := doc.withContent(content, version)
	if err != nil {
		return nil, err
	}
	m.documents[uri] = next
	return next, nil
}

func (m *Manager) DidClose(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[uri]; !ok {
		return fmt.Errorf("document not open: %s", uri)
	}
	delete(m.documents, uri)
	return nil
}

// ApplyEdit replaces the text covered by r. Positions past the end of the
// document clamp to the end.
func ApplyEdit(content string, r protocol.Range, text string) string {
	ix := position.NewIndex(content)
	start := ix.Offset(position.Position{Line: r.Start.Line, Character: r.Start.Character})
	end := ix.Offset(position.Position{Line: r.End.Line, Character: r.End.Character})
	if end < start {
		start, end = end, start
	}
	return content[:start] + text + content[end:]
}

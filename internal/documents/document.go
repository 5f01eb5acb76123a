// Package documents tracks the text of files the client has open.
package documents

import (
	"fmt"
	"sync"

	"bennypowers.dev/lupls/internal/position"
)

// Document is one open text document.
type Document struct {
	uri        string
	languageID string
	content    string
	version    int

	indexOnce sync.Once
	index     *position.Index
}

func NewDocument(uri, languageID string, version int, content string) *Document {
	return &Document{uri: uri, languageID: languageID, version: version, content: content}
}

func (d *Document) URI() string        { return d.uri }
func (d *Document) LanguageID() string { return d.languageID }
func (d *Document) Version() int       { return d.version }
func (d *Document) Content() string    { return d.content }

// Index returns the line index of the current content.
func (d *Document) Index() *position.Index {
	d.indexOnce.Do(func() { d.index = position.NewIndex(d.content) })
	return d.index
}

// IsTemplateHost reports whether the language can contain tagged templates.
func (d *Document) IsTemplateHost() bool {
	switch d.languageID {
	case "typescript", "javascript", "typescriptreact", "javascriptreact":
		return true
	}
	return false
}

// withContent returns a copy at a newer version. Documents are replaced
// rather than mutated so readers holding the old one see a stable snapshot.
func (d *Document) withContent(content string, version int) (*Document, error) {
	if version < d.version {
		return nil, fmt.Errorf("stale change for %s: have version %d, got %d", d.uri, d.version, version)
	}
	return NewDocument(d.uri, d.languageID, version, content), nil
}

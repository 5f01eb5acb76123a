package analyzer

import (
	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/program"
)

// Property is a settable component member, or one entry of a sub
// collection like slotElements.
type Property struct {
	Name        string
	NameSpan    ts.Span
	Type        string
	Description string
	Public      bool
	File        *program.SourceFile
}

// Event is a member of a component's event interface.
type Event struct {
	Name        string
	NameSpan    ts.Span
	Type        string
	Description string
	File        *program.SourceFile
	// Owner names the interface that declares the event.
	Owner string
}

// Component is a class deriving from lupos Component.
type Component struct {
	Name        string
	NameSpan    ts.Span
	Description string
	File        *program.SourceFile
	Class       *ts.Class

	// Properties excludes those of super classes.
	Properties map[string]*Property
	// Events includes events declared through super classes.
	Events       map[string]*Event
	SlotElements map[string]*Property
}

// Binding is a class deriving from lupos Binding.
type Binding struct {
	// Name is the name used after `:` in templates. Internal bindings are
	// renamed, ClassBinding becomes class.
	Name        string
	NameSpan    ts.Span
	Description string
	File        *program.SourceFile
	Class       *ts.Class
	Internal    bool
}

// Icon is an svg file imported by default import.
type Icon struct {
	Name        string
	Path        string
	Description string
	File        *program.SourceFile
	Import      *ts.Import
}

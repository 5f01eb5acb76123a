package helpers

import (
	"bennypowers.dev/lupls/internal/parser/ts"
	"bennypowers.dev/lupls/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// RangesIntersect checks if two LSP ranges intersect.
// Ranges are half-open intervals [start, end).
//
// Examples:
//   - [0:0, 0:5) and [0:3, 0:7) -> true
//   - [0:0, 0:5) and [0:5, 0:10) -> false
func RangesIntersect(a, b protocol.Range) bool {
	if a.End.Line < b.Start.Line {
		return false
	}
	if a.End.Line == b.Start.Line && a.End.Character <= b.Start.Character {
		return false
	}
	if b.End.Line < a.Start.Line {
		return false
	}
	if b.End.Line == a.Start.Line && b.End.Character <= a.Start.Character {
		return false
	}
	return true
}

// Offset converts an LSP position into a byte offset of ix.
func Offset(ix *position.Index, p protocol.Position) int {
	return ix.Offset(position.Position{Line: p.Line, Character: p.Character})
}

// Position converts a byte offset of ix into an LSP position.
func Position(ix *position.Index, offset int) protocol.Position {
	p := ix.Position(offset)
	return protocol.Position{Line: p.Line, Character: p.Character}
}

// SpanToRange converts a byte span of ix into an LSP range.
func SpanToRange(ix *position.Index, span ts.Span) protocol.Range {
	return protocol.Range{
		Start: Position(ix, span.Start),
		End:   Position(ix, span.End),
	}
}

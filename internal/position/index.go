package position

import "sort"

// Position is a zero-based line and UTF-16 character pair.
type Position struct {
	Line      uint32
	Character uint32
}

// Range is a half-open span of positions.
type Range struct {
	Start Position
	End   Position
}

// Index answers offset and position queries against one document text.
type Index struct {
	text       string
	lineStarts []int
}

func NewIndex(text string) *Index {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{text: text, lineStarts: starts}
}

func (ix *Index) Text() string { return ix.text }

func (ix *Index) LineCount() int { return len(ix.lineStarts) }

// Offset converts a position into a byte offset, clamping past-the-end lines
// and characters.
func (ix *Index) Offset(p Position) int {
	line := int(p.Line)
	if line >= len(ix.lineStarts) {
		return len(ix.text)
	}
	start := ix.lineStarts[line]
	end := len(ix.text)
	if line+1 < len(ix.lineStarts) {
		end = ix.lineStarts[line+1] - 1
	}
	return start + UTF16ToByteOffset(ix.text[start:end], int(p.Character))
}

// Position converts a byte offset into a position.
func (ix *Index) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(ix.text) {
		offset = len(ix.text)
	}
	line := sort.Search(len(ix.lineStarts), func(i int) bool {
		return ix.lineStarts[i] > offset
	}) - 1
	start := ix.lineStarts[line]
	return Position{
		Line:      clampUint32(line),
		Character: clampUint32(ByteOffsetToUTF16(ix.text[start:], offset-start)),
	}
}

// Range converts a [start, end) byte span.
func (ix *Index) Range(start, end int) Range {
	return Range{Start: ix.Position(start), End: ix.Position(end)}
}

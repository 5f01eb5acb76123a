// Package position converts between byte offsets and LSP line/character
// positions, which count UTF-16 code units.
package position

import (
	"math"
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16ToByteOffset returns the byte offset of the UTF-16 column col in s.
// A column landing between the halves of a surrogate pair clamps to the start
// of that rune.
func UTF16ToByteOffset(s string, col int) int {
	units, i := 0, 0
	for i < len(s) && units < col {
		r, size := utf8.DecodeRuneInString(s[i:])
		n := 1
		if r != utf8.RuneError || size != 1 {
			n = utf16.RuneLen(r)
		}
		if units+n > col {
			break
		}
		units += n
		i += size
	}
	return i
}

// ByteOffsetToUTF16 counts UTF-16 units in s[:offset]. An offset inside a
// multi-byte rune counts only the whole runes before it.
func ByteOffsetToUTF16(s string, offset int) int {
	if offset > len(s) {
		offset = len(s)
	}
	units, i := 0, 0
	for i < offset {
		r, size := utf8.DecodeRuneInString(s[i:])
		if i+size > offset {
			break
		}
		if r == utf8.RuneError && size == 1 {
			units++
		} else {
			units += utf16.RuneLen(r)
		}
		i += size
	}
	return units
}

func StringLengthUTF16(s string) int {
	return ByteOffsetToUTF16(s, len(s))
}

func clampUint32(n int) uint32 {
	switch {
	case n < 0:
		return 0
	case n > math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(n)
}

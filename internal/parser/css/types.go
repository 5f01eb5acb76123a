package css

// Span is a half-open byte range in the parsed stylesheet.
type Span struct {
	Start int
	End   int
}

// Declaration is one `property: value` pair.
type Declaration struct {
	Property     string
	PropertySpan Span
	Value        string
	ValueSpan    Span
	Span         Span
}

// ColorCandidate is a value token that may denote a color. Callers decide by
// parsing Text.
type ColorCandidate struct {
	Text string
	Span Span
}

// SyntaxError marks input the grammar rejected or had to invent.
type SyntaxError struct {
	Span    Span
	Missing string
}

// Stylesheet is the result of parsing one style region.
type Stylesheet struct {
	Declarations []*Declaration
	Colors       []*ColorCandidate
	Errors       []*SyntaxError
}

// DeclarationAt returns the declaration containing offset.
func (s *Stylesheet) DeclarationAt(offset int) *Declaration {
	for _, d := range s.Declarations {
		if d.Span.Start <= offset && offset <= d.Span.End {
			return d
		}
	}
	return nil
}

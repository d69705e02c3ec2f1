package ast

import "math"

// Position is a point in a source file. Offset is a byte offset and Token an
// index into the file's token stream.
type Position struct {
	Line   int `json:"line"`
	Offset int `json:"offset"`
	Token  int `json:"token"`
}

// Span is a source range. End is inclusive.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// EmptySpan returns the identity element for Merge: any real span merged into
// it yields that span.
func EmptySpan() Span {
	return Span{
		Start: Position{Line: math.MaxInt, Offset: math.MaxInt, Token: math.MaxInt},
	}
}

// IsEmpty reports whether nothing has been merged into s.
func (s Span) IsEmpty() bool {
	return s.Start.Line == math.MaxInt && s.End == Position{}
}

// Merge returns the componentwise min of the starts and max of the ends.
func (s Span) Merge(o Span) Span {
	return Span{
		Start: Position{
			Line:   min(s.Start.Line, o.Start.Line),
			Offset: min(s.Start.Offset, o.Start.Offset),
			Token:  min(s.Start.Token, o.Start.Token),
		},
		End: Position{
			Line:   max(s.End.Line, o.End.Line),
			Offset: max(s.End.Offset, o.End.Offset),
			Token:  max(s.End.Token, o.End.Token),
		},
	}
}

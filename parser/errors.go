package parser

import (
	"fmt"

	"github.com/heathj/srctree/parser/dom"
)

// ErrorKind classifies a ParseError.
type ErrorKind uint

const (
	UnexpectedDoctype ErrorKind = iota + 1
	NonConformingDoctype
	UnexpectedStartTag
	UnexpectedEndTag
	UnexpectedText
	NonVoidSelfClosingTag
	UnclosedElement
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedDoctype:
		return "unexpected doctype"
	case NonConformingDoctype:
		return "non-conforming doctype"
	case UnexpectedStartTag:
		return "unexpected start tag"
	case UnexpectedEndTag:
		return "unexpected end tag"
	case UnexpectedText:
		return "unexpected text"
	case NonVoidSelfClosingTag:
		return "self-closing non-void element"
	case UnclosedElement:
		return "unclosed element"
	default:
		return "parse error"
	}
}

// ParseError is a recoverable problem found while building the tree. Raw is
// the source text of the offending token, empty at end of file.
type ParseError struct {
	Kind ErrorKind
	Pos  dom.Position
	Raw  string
}

func (e *ParseError) Error() string {
	if e.Raw == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Kind)
	}
	return fmt.Sprintf("%s: %s %q", e.Pos, e.Kind, e.Raw)
}

func newParseError(kind ErrorKind, t *Token) *ParseError {
	return &ParseError{Kind: kind, Pos: t.Start, Raw: t.Raw}
}

package parser

import (
	"strings"

	"github.com/heathj/srctree/parser/dom"
)

type tokenType uint

const (
	characterToken tokenType = iota
	startTagToken
	endTagToken
	endOfFileToken
	commentToken
	docTypeToken
)

func (t tokenType) String() string {
	switch t {
	case characterToken:
		return "character"
	case startTagToken:
		return "start tag"
	case endTagToken:
		return "end tag"
	case endOfFileToken:
		return "end of file"
	case commentToken:
		return "comment"
	case docTypeToken:
		return "doctype"
	default:
		return "unknown"
	}
}

const missing string = "MISSING"

// Token is a concrete token that is ready to be handed to the tree
// constructor. Raw is the literal source text of the token and Start/End the
// positions it spans.
type Token struct {
	TokenType tokenType
	// TagName is lower-case; OriginalTagName keeps the source spelling.
	TagName          string
	OriginalTagName  string
	Tag              dom.Tag
	Attributes       dom.Attributes
	SelfClosing      bool
	Data             string
	Raw              string
	PublicIdentifier string
	SystemIdentifier string
	ForceQuirks      bool
	Start, End       dom.Position
}

const whitespace = "\t\n\f\r "

func isWhitespace(s string) bool {
	return strings.Trim(s, whitespace) == ""
}

// splitLeadingWhitespace splits a character token into its leading
// whitespace and the rest. Either result is nil when empty.
func splitLeadingWhitespace(t *Token, tabStop uint) (ws, rest *Token) {
	data := strings.TrimLeft(t.Data, whitespace)
	raw := strings.TrimLeft(t.Raw, whitespace)
	if len(raw) == len(t.Raw) {
		return nil, t
	}
	if raw == "" {
		return t, nil
	}

	wsRaw := t.Raw[:len(t.Raw)-len(raw)]
	mid := t.Start.Advance(wsRaw, tabStop)
	ws = &Token{
		TokenType: characterToken,
		Data:      t.Data[:len(t.Data)-len(data)],
		Raw:       wsRaw,
		Start:     t.Start,
		End:       mid,
	}
	rest = &Token{
		TokenType: characterToken,
		Data:      data,
		Raw:       raw,
		Start:     mid,
		End:       t.End,
	}
	return ws, rest
}

// parseDoctype splits the body of a doctype token ("html PUBLIC "..." "..."")
// into its name and identifiers. Absent identifiers are reported as missing.
func parseDoctype(s string) (name, publicID, systemID string, forceQuirks bool) {
	publicID, systemID = missing, missing
	s = strings.TrimLeft(s, whitespace)

	n := strings.IndexAny(s, whitespace)
	if n < 0 {
		n = len(s)
	}
	name = strings.ToLower(s[:n])
	if name == "" {
		return name, publicID, systemID, true
	}
	s = strings.TrimLeft(s[n:], whitespace)
	if s == "" {
		return name, publicID, systemID, false
	}

	var keyword string
	if n = strings.IndexAny(s, whitespace+`"'`); n < 0 {
		n = len(s)
	}
	keyword, s = strings.ToLower(s[:n]), strings.TrimLeft(s[n:], whitespace)

	var ok bool
	switch keyword {
	case "public":
		if publicID, s, ok = quoted(s); !ok {
			return name, missing, missing, true
		}
		if id, _, ok := quoted(strings.TrimLeft(s, whitespace)); ok {
			systemID = id
		}
	case "system":
		if systemID, _, ok = quoted(s); !ok {
			return name, missing, missing, true
		}
	default:
		forceQuirks = true
	}
	return name, publicID, systemID, forceQuirks
}

// quoted reads a single- or double-quoted string from the start of s.
func quoted(s string) (string, string, bool) {
	if s == "" || (s[0] != '"' && s[0] != '\'') {
		return "", s, false
	}
	end := strings.IndexByte(s[1:], s[0])
	if end < 0 {
		return s[1:], "", false
	}
	return s[1 : end+1], s[end+2:], true
}

package dom

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// Tag is the canonical identity of an element's tag name.
type Tag = atom.Atom

// UnknownTag is the Tag of elements whose name is not a known HTML name.
const UnknownTag Tag = 0

// LookupTag returns the canonical Tag for name, or UnknownTag.
func LookupTag(name string) Tag {
	return atom.Lookup([]byte(strings.ToLower(name)))
}

// Element is the payload of an ElementNode.
//
// OriginalTag is nil when the tree builder synthesized the element. An element
// never carries an OriginalEndTag without an OriginalTag.
type Element struct {
	Tag             Tag
	OriginalTagName *string
	OriginalTag     *string
	OriginalEndTag  *string
	Attributes      Attributes

	// StartPos is the start of the opening tag. EndPos is the start of the
	// closing tag, or StartPos when there is no literal closing tag.
	StartPos, EndPos Position
}

// Literal reports whether the opening tag appears in the source.
func (e *Element) Literal() bool {
	return e.OriginalTag != nil
}

// Close records the literal closing tag of e. It reports false, and leaves e
// untouched, when e was synthesized.
func (e *Element) Close(originalEndTag string, at Position) bool {
	if e.OriginalTag == nil {
		return false
	}
	e.OriginalEndTag = &originalEndTag
	e.EndPos = at
	return true
}

// TagName is the name used when synthesizing markup for e: the original tag
// name if there is one, else the canonical tag.
func (e *Element) TagName() string {
	if e.OriginalTagName != nil {
		return *e.OriginalTagName
	}
	return e.Tag.String()
}

// LocalName is the lower-case name of e, used to match end tags.
func (e *Element) LocalName() string {
	if e.Tag != UnknownTag {
		return e.Tag.String()
	}
	if e.OriginalTagName != nil {
		return strings.ToLower(*e.OriginalTagName)
	}
	return ""
}

// displayName resolves the name shown by DumpTree: unknown tags fall back to
// the original tag name.
func (e *Element) displayName() string {
	if e.Tag == UnknownTag && e.OriginalTagName != nil {
		return *e.OriginalTagName
	}
	return e.Tag.String()
}

// tags returns the opening and closing markup used to serialize e.
func (e *Element) tags() (string, string) {
	if e.OriginalTag != nil {
		end := ""
		if e.OriginalEndTag != nil {
			end = *e.OriginalEndTag
		}
		return *e.OriginalTag, end
	}
	name := e.TagName()
	return "<" + name + ">", "</" + name + ">"
}

// OffsetRange is the byte range of the complete literal markup of e, from its
// opening tag through its closing tag. Without a literal closing tag the range
// covers only the opening tag. It reports false for synthesized elements.
func (e *Element) OffsetRange() (Range, bool) {
	if e.OriginalTag == nil {
		return Range{}, false
	}
	end := e.StartPos.Offset + uint(len(*e.OriginalTag))
	if e.OriginalEndTag != nil {
		end = e.EndPos.Offset + uint(len(*e.OriginalEndTag))
	}
	return Range{Start: e.StartPos.Offset, End: end}, true
}

// ContentRange is the byte range between the literal opening and closing tags
// of e. It reports false unless both tags appear in the source.
func (e *Element) ContentRange() (Range, bool) {
	if e.OriginalTag == nil || e.OriginalEndTag == nil {
		return Range{}, false
	}
	return Range{
		Start: e.StartPos.Offset + uint(len(*e.OriginalTag)),
		End:   e.EndPos.Offset,
	}, true
}

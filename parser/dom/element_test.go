package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"
)

func at(offset uint) Position {
	return Position{Line: 1, Column: offset + 1, Offset: offset}
}

func literal(tag Tag, name, open string, start uint) *Node {
	return NewElementNode(tag, name, open, at(start), nil)
}

func closeAt(n *Node, end string, offset uint) *Node {
	n.Element.Close(end, at(offset))
	return n
}

// titleDocument builds the tree for
// <html><head><title>Hi</title></head><body></body></html>
func titleDocument() (doc, html, head, title, body *Node) {
	doc = NewDocumentNode()
	html = doc.AppendChild(literal(atom.Html, "html", "<html>", 0))
	head = html.AppendChild(literal(atom.Head, "head", "<head>", 6))
	title = head.AppendChild(literal(atom.Title, "title", "<title>", 12))
	title.AppendChild(NewTextNode("Hi", "Hi", at(19)))
	closeAt(title, "</title>", 21)
	closeAt(head, "</head>", 29)
	body = html.AppendChild(literal(atom.Body, "body", "<body>", 36))
	closeAt(body, "</body>", 42)
	closeAt(html, "</html>", 49)
	return
}

const titleSource = "<html><head><title>Hi</title></head><body></body></html>"

func TestSerializeLiteralDocument(t *testing.T) {
	doc, html, _, title, _ := titleDocument()

	assert.Equal(t, titleSource, doc.String())
	assert.Equal(t, titleSource, html.String())
	assert.Equal(t, "<title>Hi</title>", title.String())

	r, ok := title.OffsetRange()
	require.True(t, ok)
	assert.Equal(t, Range{Start: 12, End: 29}, r)
	assert.Equal(t, "<title>Hi</title>", string(r.Slice([]byte(titleSource))))

	c, ok := title.ContentRange()
	require.True(t, ok)
	assert.Equal(t, Range{Start: 19, End: 21}, c)
	assert.Equal(t, "Hi", string(c.Slice([]byte(titleSource))))
}

func TestSerializeSynthesizedElement(t *testing.T) {
	doc := NewDocumentNode()
	html := doc.AppendChild(NewSynthesizedElementNode(atom.Html, at(0)))
	head := html.AppendChild(NewSynthesizedElementNode(atom.Head, at(0)))
	title := head.AppendChild(literal(atom.Title, "TITLE", "<TITLE>", 0))
	title.AppendChild(NewTextNode("x", "x", at(7)))
	closeAt(title, "</Title>", 8)
	html.AppendChild(NewSynthesizedElementNode(atom.Body, at(16)))

	assert.Equal(t, "<html><head><TITLE>x</Title></head><body></body></html>", doc.String())

	_, ok := head.OffsetRange()
	assert.False(t, ok)
	_, ok = head.ContentRange()
	assert.False(t, ok)
	assert.False(t, head.Literal())
}

func TestSerializeSynthesizedUsesOriginalName(t *testing.T) {
	name := "My-Widget"
	n := NewSynthesizedElementNode(UnknownTag, at(0))
	n.Element.OriginalTagName = &name
	n.AppendChild(NewTextNode("a", "a", at(0)))

	assert.Equal(t, "<My-Widget>a</My-Widget>", n.String())
	assert.Equal(t, "my-widget", n.LocalName())
}

func TestSerializeWithoutEndTag(t *testing.T) {
	p := literal(atom.P, "p", "<p class=x>", 3)
	p.AppendChild(NewTextNode("one", "one", at(14)))
	br := p.AppendChild(literal(atom.Br, "br", "<br/>", 17))

	assert.Equal(t, "<p class=x>one<br/>", p.String())

	r, ok := p.OffsetRange()
	require.True(t, ok)
	assert.Equal(t, Range{Start: 3, End: 14}, r)
	_, ok = p.ContentRange()
	assert.False(t, ok)

	r, ok = br.OffsetRange()
	require.True(t, ok)
	assert.Equal(t, Range{Start: 17, End: 22}, r)
}

func TestEmptyOriginalTagIsNotAbsent(t *testing.T) {
	n := literal(atom.Span, "span", "", 5)
	r, ok := n.OffsetRange()
	require.True(t, ok)
	assert.Equal(t, Range{Start: 5, End: 5}, r)
	assert.Equal(t, "", n.String())
}

func TestCloseRefusesSynthesized(t *testing.T) {
	n := NewSynthesizedElementNode(atom.Body, at(4))
	assert.False(t, n.Element.Close("</body>", at(10)))
	assert.Nil(t, n.Element.OriginalEndTag)
	assert.Equal(t, at(4), n.Element.EndPos)
}

func TestRangeProperties(t *testing.T) {
	doc, _, _, _, _ := titleDocument()
	doc.Walk(func(n *Node) bool {
		if n.NodeType != ElementNode {
			return true
		}
		r, ok := n.OffsetRange()
		if !ok {
			return true
		}
		assert.LessOrEqual(t, r.Start, r.End)
		assert.Equal(t, n.Element.StartPos.Offset, r.Start)

		if c, ok := n.ContentRange(); ok {
			assert.True(t, r.Contains(c), "%s content %s outside %s", n.LocalName(), c, r)
		}

		if n.Element.OriginalEndTag != nil {
			var children string
			for _, c := range n.ChildNodes {
				children += c.String()
			}
			assert.Equal(t, *n.Element.OriginalTag+children+*n.Element.OriginalEndTag, n.String())
		}
		return true
	})
}

func TestLookupTag(t *testing.T) {
	assert.Equal(t, atom.Div, LookupTag("DIV"))
	assert.Equal(t, UnknownTag, LookupTag("not-a-tag"))
}

package parser

import (
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"

	"github.com/heathj/srctree/parser/dom"
)

type treeTest struct {
	in       string
	errors   int
	expected string
}

// parseTests reads a .dat file made of "#data", "#errors" and "#document"
// sections. The document section is the expected DumpTree output.
func parseTests(t *testing.T, path string) []treeTest {
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var treeTests []treeTest
	for i, test := range strings.Split(string(data), "#data\n") {
		if i == 0 {
			continue
		}
		tt := treeTest{}
		splits := strings.Split(test, "\n")
		j := 0
		for ; j < len(splits) && splits[j] != "#errors"; j++ {
			tt.in += splits[j] + "\n"
		}
		if len(tt.in) > 0 {
			tt.in = tt.in[:len(tt.in)-1]
		}
		if j+1 < len(splits) {
			tt.errors, err = strconv.Atoi(splits[j+1])
			require.NoError(t, err)
		}
		for ; j < len(splits) && splits[j] != "#document"; j++ {
		}
		for j++; j < len(splits); j++ {
			if len(splits[j]) == 0 {
				continue
			}
			tt.expected += splits[j] + "\n"
		}
		treeTests = append(treeTests, tt)
	}
	return treeTests
}

func TestTreeConstructor(t *testing.T) {
	tests := parseTests(t, "testdata/tree_construction/basic.dat")
	require.NotEmpty(t, tests)
	for _, test := range tests {
		runTreeConstructorTest(test, t)
	}
}

func runTreeConstructorTest(test treeTest, t *testing.T) {
	t.Run(test.in, func(t *testing.T) {
		t.Parallel()
		out, err := ParseString(test.in)
		require.NoError(t, err)

		var sb strings.Builder
		require.NoError(t, out.Document.DumpTree(&sb))
		if sb.String() != test.expected {
			t.Errorf("Wrong document. Expected: \n\n%s\nGot: \n\n%s", test.expected, sb.String())
		}
		assert.Len(t, out.Errors, test.errors, "errors: %v", out.Errors)

		// serializing and parsing again is a fixed point
		first := out.Document.String()
		again, err := ParseString(first)
		require.NoError(t, err)
		assert.Equal(t, first, again.Document.String())
	})
}

func mustParse(t *testing.T, in string, opts ...Option) *Output {
	t.Helper()
	out, err := ParseString(in, opts...)
	require.NoError(t, err)
	return out
}

func TestTitleDocumentRanges(t *testing.T) {
	in := "<html><head><title>Hi</title></head><body></body></html>"
	out := mustParse(t, in)
	assert.Empty(t, out.Errors)
	assert.Equal(t, in, out.Document.String())

	require.NotNil(t, out.Root)
	assert.True(t, out.Root.Literal())
	head := out.Root.ChildElement(atom.Head)
	require.NotNil(t, head)
	title := head.ChildElement(atom.Title)
	require.NotNil(t, title)

	r, ok := title.OffsetRange()
	require.True(t, ok)
	assert.Equal(t, dom.Range{Start: 12, End: 29}, r)
	c, ok := title.ContentRange()
	require.True(t, ok)
	assert.Equal(t, dom.Range{Start: 19, End: 21}, c)
	assert.Equal(t, "Hi", string(c.Slice([]byte(in))))

	r, ok = out.Root.OffsetRange()
	require.True(t, ok)
	assert.Equal(t, dom.Range{Start: 0, End: uint(len(in))}, r)
}

func TestSynthesizedStructure(t *testing.T) {
	out := mustParse(t, "")
	require.NotNil(t, out.Root)
	assert.False(t, out.Root.Literal())
	head := out.Root.ChildElement(atom.Head)
	body := out.Root.ChildElement(atom.Body)
	require.NotNil(t, head)
	require.NotNil(t, body)
	assert.False(t, head.Literal())
	assert.False(t, body.Literal())
	assert.Equal(t, "<html><head></head><body></body></html>", out.Document.String())

	_, ok := out.Root.OffsetRange()
	assert.False(t, ok)

	out = mustParse(t, "<html><title>x</title></html>")
	assert.True(t, out.Root.Literal())
	head = out.Root.ChildElement(atom.Head)
	require.NotNil(t, head)
	assert.False(t, head.Literal())
	require.NotNil(t, head.ChildElement(atom.Title))
	require.NotNil(t, out.Root.ChildElement(atom.Body))
	assert.Equal(t, "<html><head><title>x</title></head><body></body></html>", out.Document.String())
}

func TestSynthesizedElementPosition(t *testing.T) {
	out := mustParse(t, "<table>\n<tr><td>x</table>")
	body := out.Root.ChildElement(atom.Body)
	table := body.ChildElement(atom.Table)
	require.NotNil(t, table)
	tbody := table.ChildElement(atom.Tbody)
	require.NotNil(t, tbody)
	assert.False(t, tbody.Literal())
	// the synthesized tbody sits where the row that caused it starts
	assert.Equal(t, dom.Position{Line: 2, Column: 1, Offset: 8}, tbody.Element.StartPos)
	assert.Equal(t, tbody.Element.StartPos, tbody.Element.EndPos)
	assert.Equal(t, "<table>\n<tbody><tr><td>x</tbody></table>", table.String())
}

func TestWhitespaceAroundDocument(t *testing.T) {
	in := "<html><body></body>\n</html>\n<!-- end -->"
	out := mustParse(t, in)
	assert.Empty(t, out.Errors)
	assert.Equal(t, "<html><head></head><body></body>\n</html>\n<!-- end -->", out.Document.String())

	last := out.Document.ChildNodes[len(out.Document.ChildNodes)-1]
	assert.Equal(t, dom.CommentNode, last.NodeType)
	assert.Equal(t, " end ", last.Comment.Data)

	// leading whitespace before the root stays in the document
	out = mustParse(t, "  \n<html></html>")
	assert.Equal(t, "  \n<html><head></head><body></body></html>", out.Document.String())
	require.Equal(t, dom.TextNode, out.Document.ChildNodes[0].NodeType)
	assert.Equal(t, out.Root, out.Document.ChildNodes[1])
}

func TestLiteralDocumentRoundTrip(t *testing.T) {
	in := "<!DOCTYPE html>\n<html>\n<head>\n<title>x</title>\n</head>\n<body>\n<p>a</p>\n</body>\n</html>\n"
	out := mustParse(t, in)
	assert.Empty(t, out.Errors)
	assert.Equal(t, in, out.Document.String())

	// whitespace between the doctype and <html> belongs to the document,
	// whitespace before <head> to <html>
	require.Len(t, out.Document.ChildNodes, 4)
	assert.Equal(t, dom.TextNode, out.Document.ChildNodes[1].NodeType)
	assert.Equal(t, "\n", out.Document.ChildNodes[1].Text.OriginalText)
	first := out.Root.ChildNodes[0]
	require.Equal(t, dom.TextNode, first.NodeType)
	assert.Equal(t, dom.Position{Line: 2, Column: 7, Offset: 22}, first.Text.StartPos)

	out.Document.Walk(func(n *dom.Node) bool {
		if n.NodeType == dom.ElementNode {
			assert.True(t, n.Literal(), n.LocalName())
		}
		return true
	})
}

func TestTextAfterBodyReopensBody(t *testing.T) {
	out := mustParse(t, "<body></body>tail")
	require.Len(t, out.Errors, 1)
	assert.Equal(t, UnexpectedText, out.Errors[0].Kind)
	body := out.Root.ChildElement(atom.Body)
	assert.Equal(t, "tail", body.TextContent())
}

func TestDoctypeAndQuirks(t *testing.T) {
	tests := []struct {
		in     string
		mode   dom.QuirksMode
		errors int
	}{
		{"<!DOCTYPE html><p>", dom.NoQuirks, 0},
		{"<p>", dom.Quirks, 0},
		{`<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01 Transitional//EN">`, dom.Quirks, 1},
		{`<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01 Transitional//EN" "http://www.w3.org/TR/html4/loose.dtd">`, dom.LimitedQuirks, 1},
		{`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">`, dom.LimitedQuirks, 1},
		{`<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd">`, dom.NoQuirks, 1},
		{`<!DOCTYPE html SYSTEM "about:legacy-compat">`, dom.NoQuirks, 0},
		{`<!DOCTYPE svg>`, dom.Quirks, 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			out := mustParse(t, tt.in)
			assert.Equal(t, tt.mode, out.Document.QuirksMode)
			assert.Len(t, out.Errors, tt.errors)
		})
	}
}

func TestDoctypeNode(t *testing.T) {
	in := `<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd"><title>x</title>`
	out := mustParse(t, in)

	doc := out.Document.Document
	assert.True(t, doc.HasDoctype)
	assert.Equal(t, "html", doc.Name)
	assert.Equal(t, "-//W3C//DTD HTML 4.01//EN", doc.PublicID)
	assert.Equal(t, "http://www.w3.org/TR/html4/strict.dtd", doc.SystemID)

	dt := out.Document.ChildNodes[0]
	require.Equal(t, dom.DocumentTypeNode, dt.NodeType)
	assert.Equal(t, "html", dt.DocumentType.Name)
	assert.Equal(t, dom.StartPosition, dt.DocumentType.StartPos)
	assert.True(t, strings.HasPrefix(out.Document.String(), dt.DocumentType.OriginalText))

	out = mustParse(t, "<!DOCTYPE html><!DOCTYPE html>")
	require.Len(t, out.Errors, 1)
	assert.Equal(t, UnexpectedDoctype, out.Errors[0].Kind)
	assert.Equal(t, dom.Position{Line: 1, Column: 16, Offset: 15}, out.Errors[0].Pos)
}

func TestImpliedCloses(t *testing.T) {
	out := mustParse(t, "<h1>a<h2>b</h1><p>c")
	body := out.Root.ChildElement(atom.Body)
	els := body.ChildNodes.Elements()
	require.Len(t, els, 3)
	assert.Equal(t, atom.H1, els[0].Element.Tag)
	assert.Equal(t, atom.H2, els[1].Element.Tag)
	assert.Equal(t, atom.P, els[2].Element.Tag)
	// </h1> closes the open h2
	assert.Equal(t, "<h2>b</h1>", els[1].String())
	assert.Len(t, out.Errors, 2)

	out = mustParse(t, "<p>one<ul><li>x</ul>")
	body = out.Root.ChildElement(atom.Body)
	els = body.ChildNodes.Elements()
	require.Len(t, els, 2)
	assert.Equal(t, "<p>one", els[0].String())
	assert.Equal(t, atom.Ul, els[1].Element.Tag)

	// html-namespace desc and foreignobject do not shield the open p
	for _, name := range []string{"desc", "foreignobject"} {
		out = mustParse(t, "<p><"+name+">a<div>b")
		body = out.Root.ChildElement(atom.Body)
		els = body.ChildNodes.Elements()
		require.Len(t, els, 2, name)
		assert.Equal(t, atom.P, els[0].Element.Tag)
		assert.Equal(t, "<p><"+name+">a", els[0].String())
		assert.Equal(t, atom.Div, els[1].Element.Tag)
	}
}

func TestStrayEndTags(t *testing.T) {
	out := mustParse(t, "<div>a</span>b</div>")
	require.Len(t, out.Errors, 1)
	assert.Equal(t, UnexpectedEndTag, out.Errors[0].Kind)
	assert.Equal(t, "</span>", out.Errors[0].Raw)
	// the ignored end tag is gone from the tree
	div := out.Root.ChildElement(atom.Body).ChildElement(atom.Div)
	assert.Equal(t, "<div>ab</div>", div.String())

	out = mustParse(t, "<p>a</br>b")
	require.Len(t, out.Errors, 1)
	p := out.Root.ChildElement(atom.Body).ChildElement(atom.P)
	br := p.ChildElement(atom.Br)
	require.NotNil(t, br)
	assert.Equal(t, "</br>", *br.OriginalTag)
	assert.Equal(t, "<p>a</br>b", p.String())
}

func TestUnclosedElements(t *testing.T) {
	out := mustParse(t, "<div><span>x")
	require.Len(t, out.Errors, 1)
	assert.Equal(t, UnclosedElement, out.Errors[0].Kind)
	assert.Equal(t, "<div>", out.Errors[0].Raw)

	out = mustParse(t, "<title>never closed")
	require.NotEmpty(t, out.Errors)
	assert.Equal(t, UnclosedElement, out.Errors[0].Kind)
	title := out.Root.ChildElement(atom.Head).ChildElement(atom.Title)
	require.NotNil(t, title)
	assert.Nil(t, title.OriginalEndTag)
	assert.Equal(t, "never closed", title.TextContent())
}

func TestSelfClosingTags(t *testing.T) {
	out := mustParse(t, "<br/><div/>x")
	require.Len(t, out.Errors, 1)
	assert.Equal(t, NonVoidSelfClosingTag, out.Errors[0].Kind)
	body := out.Root.ChildElement(atom.Body)
	div := body.ChildElement(atom.Div)
	require.NotNil(t, div)
	// a self-closing flag on a normal element is ignored
	assert.Equal(t, "x", div.TextContent())
}

func TestParseOptions(t *testing.T) {
	in := "<div></span></b></i></div>"

	out := mustParse(t, in)
	assert.Len(t, out.Errors, 3)

	out = mustParse(t, in, WithMaxErrors(2))
	assert.Len(t, out.Errors, 2)

	out = mustParse(t, in, WithMaxErrors(0))
	assert.Empty(t, out.Errors)

	out = mustParse(t, in, WithStopOnFirstError(true))
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "</span>", out.Errors[0].Raw)
	div := out.Root.ChildElement(atom.Body).ChildElement(atom.Div)
	require.NotNil(t, div)
	assert.Nil(t, div.OriginalEndTag)

	out = mustParse(t, "<p>\n\tx<b>", WithTabStop(4))
	b := out.Root.ChildElement(atom.Body).ChildElement(atom.P).ChildElement(atom.B)
	assert.Equal(t, dom.Position{Line: 2, Column: 6, Offset: 6}, b.Element.StartPos)
}

func TestParseReadError(t *testing.T) {
	_, err := Parse(errReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing html")
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, assert.AnError
}

package dom

import (
	"fmt"
	"io"
	"strings"
)

// NodeType tags which variant payload a Node carries.
type NodeType uint16

const (
	DocumentNode NodeType = iota + 1
	ElementNode
	TextNode
	CommentNode
	DocumentTypeNode
)

func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case DocumentTypeNode:
		return "doctype"
	default:
		return fmt.Sprintf("NodeType(%d)", uint16(t))
	}
}

// Node is any member of a parsed tree. Exactly one of the embedded payloads is
// set, the one matching NodeType. A node owns its ChildNodes; ParentNode is a
// back-reference for navigation only.
type Node struct {
	NodeType   NodeType
	ParentNode *Node
	ChildNodes NodeList

	*Document
	*Element
	*Text
	*Comment
	*DocumentType
}

// NewDocumentNode returns an empty document root in no-quirks mode.
func NewDocumentNode() *Node {
	return &Node{
		NodeType: DocumentNode,
		Document: &Document{},
	}
}

// NewElementNode returns an element that appears literally in the source:
// originalTag is the full text of its opening tag and name the tag name as it
// was written.
func NewElementNode(tag Tag, name, originalTag string, start Position, attrs Attributes) *Node {
	return &Node{
		NodeType: ElementNode,
		Element: &Element{
			Tag:             tag,
			OriginalTagName: &name,
			OriginalTag:     &originalTag,
			Attributes:      attrs,
			StartPos:        start,
			EndPos:          start,
		},
	}
}

// NewSynthesizedElementNode returns an element the tree builder inserted
// without any literal markup. at is the position of the token that caused it.
func NewSynthesizedElementNode(tag Tag, at Position) *Node {
	return &Node{
		NodeType: ElementNode,
		Element: &Element{
			Tag:      tag,
			StartPos: at,
			EndPos:   at,
		},
	}
}

func NewTextNode(data, original string, start Position) *Node {
	return &Node{
		NodeType: TextNode,
		Text:     &Text{CharacterData{Data: data, OriginalText: original, StartPos: start}},
	}
}

func NewCommentNode(data, original string, start Position) *Node {
	return &Node{
		NodeType: CommentNode,
		Comment:  &Comment{CharacterData{Data: data, OriginalText: original, StartPos: start}},
	}
}

func NewDocumentTypeNode(name, publicID, systemID, original string, start Position) *Node {
	return &Node{
		NodeType: DocumentTypeNode,
		DocumentType: &DocumentType{
			Name:         name,
			PublicID:     publicID,
			SystemID:     systemID,
			OriginalText: original,
			StartPos:     start,
		},
	}
}

// AppendChild adds on as the last child of n.
func (n *Node) AppendChild(on *Node) *Node {
	on.ParentNode = n
	n.ChildNodes = append(n.ChildNodes, on)
	return on
}

// HasChildNodes reports whether n has any children.
func (n *Node) HasChildNodes() bool {
	return len(n.ChildNodes) > 0
}

// ChildElement returns the first child element of n with the given tag.
func (n *Node) ChildElement(tag Tag) *Node {
	return n.ChildNodes.Find(func(c *Node) bool {
		return c.NodeType == ElementNode && c.Element.Tag == tag
	})
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.ChildNodes {
		c.Walk(fn)
	}
}

// TextContent concatenates the decoded data of every descendant text node.
func (n *Node) TextContent() string {
	if n.NodeType == TextNode {
		return n.Text.Data
	}
	var sb strings.Builder
	n.Walk(func(c *Node) bool {
		if c.NodeType == TextNode {
			sb.WriteString(c.Text.Data)
		}
		return true
	})
	return sb.String()
}

// String serializes n and its subtree. For trees without synthesized elements
// the result is the original source text.
func (n *Node) String() string {
	var sb strings.Builder
	_ = n.render(&sb)
	return sb.String()
}

// Render writes the serialization of n to w.
func (n *Node) Render(w io.Writer) error {
	return n.render(w)
}

func (n *Node) render(w io.Writer) error {
	switch n.NodeType {
	case DocumentNode:
		return n.ChildNodes.render(w)
	case ElementNode:
		open, end := n.Element.tags()
		if _, err := io.WriteString(w, open); err != nil {
			return err
		}
		if err := n.ChildNodes.render(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, end)
		return err
	case TextNode:
		_, err := io.WriteString(w, n.Text.OriginalText)
		return err
	case CommentNode:
		_, err := io.WriteString(w, n.Comment.OriginalText)
		return err
	case DocumentTypeNode:
		_, err := io.WriteString(w, n.DocumentType.OriginalText)
		return err
	default:
		panic(fmt.Sprintf("dom: cannot render %v", n.NodeType))
	}
}

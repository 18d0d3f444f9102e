package query

import (
	"github.com/antchfx/xpath"

	"github.com/heathj/srctree/parser/dom"
)

// NodeNavigator walks a dom tree for xpath. Doctype nodes are not visible
// to expressions.
type NodeNavigator struct {
	root, curr *dom.Node
	attr       int
}

var _ xpath.NodeNavigator = &NodeNavigator{}

// CreateXPathNavigator returns a navigator positioned at top.
func CreateXPathNavigator(top *dom.Node) *NodeNavigator {
	return &NodeNavigator{root: top, curr: top, attr: -1}
}

// Current returns the node the navigator is positioned on. On an attribute
// it is the owning element.
func (n *NodeNavigator) Current() *dom.Node {
	return n.curr
}

func (n *NodeNavigator) NodeType() xpath.NodeType {
	switch n.curr.NodeType {
	case dom.CommentNode:
		return xpath.CommentNode
	case dom.TextNode:
		return xpath.TextNode
	case dom.DocumentNode:
		return xpath.RootNode
	case dom.ElementNode:
		if n.attr != -1 {
			return xpath.AttributeNode
		}
		return xpath.ElementNode
	}
	panic("query: unsupported node type " + n.curr.NodeType.String())
}

func (n *NodeNavigator) LocalName() string {
	if n.curr.NodeType != dom.ElementNode {
		return ""
	}
	if n.attr != -1 {
		return n.curr.Attributes[n.attr].Name
	}
	return n.curr.LocalName()
}

func (*NodeNavigator) Prefix() string {
	return ""
}

func (n *NodeNavigator) Value() string {
	switch n.curr.NodeType {
	case dom.CommentNode:
		return n.curr.Comment.Data
	case dom.ElementNode:
		if n.attr != -1 {
			return n.curr.Attributes[n.attr].Value
		}
	}
	return n.curr.TextContent()
}

func (n *NodeNavigator) Copy() xpath.NodeNavigator {
	n2 := *n
	return &n2
}

func (n *NodeNavigator) MoveToRoot() {
	n.curr = n.root
	n.attr = -1
}

func (n *NodeNavigator) MoveToParent() bool {
	if n.attr != -1 {
		n.attr = -1
		return true
	}
	if n.curr == n.root || n.curr.ParentNode == nil {
		return false
	}
	n.curr = n.curr.ParentNode
	return true
}

func (n *NodeNavigator) MoveToNextAttribute() bool {
	if n.curr.NodeType != dom.ElementNode || n.attr >= len(n.curr.Attributes)-1 {
		return false
	}
	n.attr++
	return true
}

func visible(c *dom.Node) bool {
	return c.NodeType != dom.DocumentTypeNode
}

func (n *NodeNavigator) MoveToChild() bool {
	if n.attr != -1 {
		return false
	}
	for _, c := range n.curr.ChildNodes {
		if visible(c) {
			n.curr = c
			return true
		}
	}
	return false
}

// siblings returns the children of the current node's parent and the index
// of the current node among them.
func (n *NodeNavigator) siblings() (dom.NodeList, int) {
	if n.attr != -1 || n.curr == n.root || n.curr.ParentNode == nil {
		return nil, -1
	}
	list := n.curr.ParentNode.ChildNodes
	return list, list.Index(n.curr)
}

func (n *NodeNavigator) MoveToFirst() bool {
	list, i := n.siblings()
	if i < 0 {
		return false
	}
	for j := 0; j < i; j++ {
		if visible(list[j]) {
			n.curr = list[j]
			return true
		}
	}
	return false
}

func (n *NodeNavigator) MoveToNext() bool {
	list, i := n.siblings()
	if i < 0 {
		return false
	}
	for j := i + 1; j < len(list); j++ {
		if visible(list[j]) {
			n.curr = list[j]
			return true
		}
	}
	return false
}

func (n *NodeNavigator) MoveToPrevious() bool {
	list, i := n.siblings()
	if i < 0 {
		return false
	}
	for j := i - 1; j >= 0; j-- {
		if visible(list[j]) {
			n.curr = list[j]
			return true
		}
	}
	return false
}

func (n *NodeNavigator) MoveTo(other xpath.NodeNavigator) bool {
	node, ok := other.(*NodeNavigator)
	if !ok || node.root != n.root {
		return false
	}
	n.curr = node.curr
	n.attr = node.attr
	return true
}

func (n *NodeNavigator) String() string {
	return n.Value()
}

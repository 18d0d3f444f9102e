// Package query reads information out of parsed trees.
package query

import (
	"github.com/pkg/errors"
	"golang.org/x/net/html/atom"

	"github.com/heathj/srctree/parser/dom"
)

var (
	ErrNoRoot        = errors.New("document has no root element")
	ErrHeadNotFound  = errors.New("<head> element not found")
	ErrTitleNotFound = errors.New("<title> element not found")
	ErrEmptyTitle    = errors.New("empty <title> element")
	ErrInvalidTitle  = errors.New("invalid <title> element")
)

// Root returns the first element child of doc.
func Root(doc *dom.Node) (*dom.Node, error) {
	root := doc.ChildNodes.Find(func(n *dom.Node) bool {
		return n.NodeType == dom.ElementNode
	})
	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

// TitleElement finds the <title> of the document's <head>.
func TitleElement(doc *dom.Node) (*dom.Node, error) {
	root, err := Root(doc)
	if err != nil {
		return nil, err
	}
	head := root.ChildElement(atom.Head)
	if head == nil {
		return nil, errors.Wrapf(ErrHeadNotFound, "in <%s> at %s", root.TagName(), root.Element.StartPos)
	}
	title := head.ChildElement(atom.Title)
	if title == nil {
		return nil, errors.Wrapf(ErrTitleNotFound, "in <head> at %s", head.Element.StartPos)
	}
	return title, nil
}

// Title returns the text of the document's title. The title element must
// start with a text node.
func Title(doc *dom.Node) (string, error) {
	title, err := TitleElement(doc)
	if err != nil {
		return "", err
	}
	if !title.HasChildNodes() {
		return "", errors.Wrapf(ErrEmptyTitle, "at %s", title.Element.StartPos)
	}
	text := title.ChildNodes[0]
	if text.NodeType != dom.TextNode {
		return "", errors.Wrapf(ErrInvalidTitle, "at %s: first child is a %s", title.Element.StartPos, text.NodeType)
	}
	return text.Text.Data, nil
}

package query

import (
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"

	"github.com/heathj/srctree/parser/dom"
)

// ErrUnsupportedNode is returned when a query starts at a node that xpath
// cannot be evaluated on.
var ErrUnsupportedNode = errors.New("unsupported query node")

// navigate returns a navigator at top, rejecting nodes without an xpath
// node type.
func navigate(top *dom.Node) (*NodeNavigator, error) {
	if top == nil {
		return nil, errors.Wrap(ErrUnsupportedNode, "nil node")
	}
	switch top.NodeType {
	case dom.DocumentNode, dom.ElementNode, dom.TextNode, dom.CommentNode:
		return CreateXPathNavigator(top), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedNode, "%v node", top.NodeType)
}

// Select returns the nodes under top matched by the XPath expression expr, in
// document order. An attribute match yields its element.
func Select(top *dom.Node, expr string) ([]*dom.Node, error) {
	nav, err := navigate(top)
	if err != nil {
		return nil, err
	}
	exp, err := xpath.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling %q", expr)
	}

	var nodes []*dom.Node
	seen := map[*dom.Node]bool{}
	t := exp.Select(nav)
	for t.MoveNext() {
		n := t.Current().(*NodeNavigator).Current()
		if !seen[n] {
			seen[n] = true
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// SelectOne returns the first node matched by expr, or nil.
func SelectOne(top *dom.Node, expr string) (*dom.Node, error) {
	nav, err := navigate(top)
	if err != nil {
		return nil, err
	}
	exp, err := xpath.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling %q", expr)
	}
	t := exp.Select(nav)
	if t.MoveNext() {
		return t.Current().(*NodeNavigator).Current(), nil
	}
	return nil, nil
}

// Evaluate returns the value of expr: a float64, string, bool, or the
// matched nodes for node-set expressions.
func Evaluate(top *dom.Node, expr string) (interface{}, error) {
	nav, err := navigate(top)
	if err != nil {
		return nil, err
	}
	exp, err := xpath.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling %q", expr)
	}
	v := exp.Evaluate(nav)
	if it, ok := v.(*xpath.NodeIterator); ok {
		var nodes []*dom.Node
		for it.MoveNext() {
			nodes = append(nodes, it.Current().(*NodeNavigator).Current())
		}
		return nodes, nil
	}
	return v, nil
}

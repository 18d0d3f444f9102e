package dom

import "io"

// NodeList is an ordered sequence of sibling nodes.
type NodeList []*Node

// Find returns the first node matching pred.
func (l NodeList) Find(pred func(*Node) bool) *Node {
	for _, n := range l {
		if pred(n) {
			return n
		}
	}
	return nil
}

// Elements returns the element nodes of l, in order.
func (l NodeList) Elements() NodeList {
	var out NodeList
	for _, n := range l {
		if n.NodeType == ElementNode {
			out = append(out, n)
		}
	}
	return out
}

// Index returns the position of n in l, or -1.
func (l NodeList) Index(n *Node) int {
	for i, c := range l {
		if c == n {
			return i
		}
	}
	return -1
}

func (l NodeList) render(w io.Writer) error {
	for _, n := range l {
		if err := n.render(w); err != nil {
			return err
		}
	}
	return nil
}

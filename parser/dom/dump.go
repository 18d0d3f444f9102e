package dom

import (
	"io"
	"strings"
)

// DumpTree writes an indented outline of the tree rooted at n to w: one line
// per element with its upper-cased tag name and attribute names. Text,
// comments and doctypes are not printed. Documents print nothing and do not
// add indentation, wherever they appear.
func (n *Node) DumpTree(w io.Writer) error {
	return dumpNode(w, n, 0)
}

func dumpNode(w io.Writer, n *Node, indent int) error {
	switch n.NodeType {
	case DocumentNode:
	case ElementNode:
		line := strings.Repeat(" ", indent) + "<" + strings.ToUpper(n.Element.displayName())
		if len(n.Element.Attributes) > 0 {
			line += " " + strings.Join(n.Element.Attributes.Names(), " ")
		}
		if _, err := io.WriteString(w, line+">\n"); err != nil {
			return err
		}
		indent += 2
	case TextNode, CommentNode, DocumentTypeNode:
		return nil
	}

	for _, c := range n.ChildNodes {
		if err := dumpNode(w, c, indent); err != nil {
			return err
		}
	}
	return nil
}

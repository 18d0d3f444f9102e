package parser

import "github.com/heathj/srctree/parser/dom"

// openElements is the stack of open elements, bottom first.
type openElements []*dom.Node

var elementInScopeList = []string{
	"applet",
	"caption",
	"html",
	"table",
	"td",
	"th",
	"marquee",
	"object",
	"template",
	"mi",
	"mo",
	"mn",
	"ms",
	"mtext",
	"annotation-xml",
}

// svgScopeList bounds scope only for elements inside an svg subtree.
var svgScopeList = []string{"foreignobject", "desc", "title"}
var listItemScopeList = append(append([]string{}, elementInScopeList...), "ol", "ul")
var buttonScopeList = append(append([]string{}, elementInScopeList...), "button")
var tableScopeList = []string{"html", "table", "template"}

func (s *openElements) push(n *dom.Node) {
	*s = append(*s, n)
}

func (s *openElements) pop() *dom.Node {
	if len(*s) == 0 {
		return nil
	}
	n := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return n
}

func (s openElements) top() *dom.Node {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

func (s openElements) topName() string {
	if n := s.top(); n != nil {
		return n.LocalName()
	}
	return ""
}

// index returns the position of the topmost element named target, or -1.
func (s openElements) index(target string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].LocalName() == target {
			return i
		}
	}
	return -1
}

// containsInSpecificScope walks down from the top of the stack looking for
// target, giving up at the first element of list. With svg set, the elements
// of svgScopeList also stop the walk when an svg element is open below them.
func (s openElements) containsInSpecificScope(target string, list []string, svg bool) bool {
	svgAt := -1
	if svg {
		svgAt = s.index("svg")
	}
	for i := len(s) - 1; i >= 0; i-- {
		name := s[i].LocalName()
		if name == target {
			return true
		}
		if contains(list, name) {
			return false
		}
		if svgAt >= 0 && i > svgAt && contains(svgScopeList, name) {
			return false
		}
	}
	return false
}

func contains(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}

func (s openElements) containsInScope(target string) bool {
	return s.containsInSpecificScope(target, elementInScopeList, true)
}

func (s openElements) containsInListItemScope(target string) bool {
	return s.containsInSpecificScope(target, listItemScopeList, true)
}

func (s openElements) containsInButtonScope(target string) bool {
	return s.containsInSpecificScope(target, buttonScopeList, true)
}

func (s openElements) containsInTableScope(target string) bool {
	return s.containsInSpecificScope(target, tableScopeList, false)
}

// popTo pops elements up to and including the topmost one at index i and
// returns it.
func (s *openElements) popTo(i int) *dom.Node {
	if i < 0 || i >= len(*s) {
		return nil
	}
	n := (*s)[i]
	*s = (*s)[:i]
	return n
}

// popUntil pops up to and including the topmost element named target.
func (s *openElements) popUntil(target string) *dom.Node {
	return s.popTo(s.index(target))
}

// inForeignContent reports whether an svg or math element is open.
func (s openElements) inForeignContent() bool {
	return s.index("svg") >= 0 || s.index("math") >= 0
}

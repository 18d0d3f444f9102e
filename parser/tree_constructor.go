package parser

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html/atom"

	"github.com/heathj/srctree/parser/dom"
)

type insertionMode uint

const (
	initial insertionMode = iota
	beforeHTML
	beforeHead
	inHead
	afterHead
	inBody
	text
	afterBody
	afterAfterBody
)

func (m insertionMode) String() string {
	switch m {
	case initial:
		return "initial"
	case beforeHTML:
		return "before html"
	case beforeHead:
		return "before head"
	case inHead:
		return "in head"
	case afterHead:
		return "after head"
	case inBody:
		return "in body"
	case text:
		return "text"
	case afterBody:
		return "after body"
	case afterAfterBody:
		return "after after body"
	default:
		return "unknown"
	}
}

// treeConstructionModeHandler processes a token in one insertion mode. It
// returns whether the token must be processed again and the next mode.
type treeConstructionModeHandler func(t *Token) (bool, insertionMode)

// HTMLTreeConstructor holds the state for building a tree out of tokens.
type HTMLTreeConstructor struct {
	Document              *dom.Node
	Errors                []*ParseError
	config                Config
	log                   *logrus.Entry
	mappings              map[insertionMode]treeConstructionModeHandler
	insertionMode         insertionMode
	originalInsertionMode insertionMode
	stackOfOpenElements   openElements
	htmlElement           *dom.Node
	headElementPointer    *dom.Node
	bodyElement           *dom.Node
	stopped               bool
}

// NewHTMLTreeConstructor creates an HTMLTreeConstructor with an empty
// document.
func NewHTMLTreeConstructor(config Config) *HTMLTreeConstructor {
	tc := &HTMLTreeConstructor{
		Document:      dom.NewDocumentNode(),
		config:        config,
		log:           logrus.NewEntry(config.Logger).WithField("component", "tree"),
		insertionMode: initial,
	}
	tc.mappings = map[insertionMode]treeConstructionModeHandler{
		initial:        tc.initialModeHandler,
		beforeHTML:     tc.beforeHTMLModeHandler,
		beforeHead:     tc.beforeHeadModeHandler,
		inHead:         tc.inHeadModeHandler,
		afterHead:      tc.afterHeadModeHandler,
		inBody:         tc.inBodyModeHandler,
		text:           tc.textModeHandler,
		afterBody:      tc.afterBodyModeHandler,
		afterAfterBody: tc.afterAfterBodyModeHandler,
	}
	return tc
}

// ProcessToken feeds one token through the insertion modes.
func (c *HTMLTreeConstructor) ProcessToken(t *Token) {
	reprocess := true
	for reprocess && !c.stopped {
		mode := c.insertionMode
		reprocess, c.insertionMode = c.mappings[mode](t)
		if mode != c.insertionMode {
			c.log.WithFields(logrus.Fields{
				"from":  mode,
				"to":    c.insertionMode,
				"token": t.TokenType,
				"pos":   t.Start,
			}).Debug("switching insertion mode")
		}
	}
}

// Stopped reports whether tree construction has ended early.
func (c *HTMLTreeConstructor) Stopped() bool {
	return c.stopped
}

func (c *HTMLTreeConstructor) parseError(kind ErrorKind, t *Token) {
	err := newParseError(kind, t)
	c.log.WithFields(logrus.Fields{
		"mode": c.insertionMode,
		"kind": kind,
		"pos":  t.Start,
	}).Debug(err.Raw)

	if c.config.MaxErrors < 0 || len(c.Errors) < c.config.MaxErrors {
		c.Errors = append(c.Errors, err)
	}
	if c.config.StopOnFirstError {
		c.stopped = true
	}
}

func (c *HTMLTreeConstructor) currentNode() *dom.Node {
	if n := c.stackOfOpenElements.top(); n != nil {
		return n
	}
	return c.Document
}

func (c *HTMLTreeConstructor) insertCharacter(t *Token, parent *dom.Node) {
	parent.AppendChild(dom.NewTextNode(t.Data, t.Raw, t.Start))
}

func (c *HTMLTreeConstructor) insertComment(t *Token, parent *dom.Node) {
	parent.AppendChild(dom.NewCommentNode(t.Data, t.Raw, t.Start))
}

// insertElement appends an element for t to the current node without
// opening it.
func (c *HTMLTreeConstructor) insertElement(t *Token) *dom.Node {
	n := dom.NewElementNode(t.Tag, t.OriginalTagName, t.Raw, t.Start, t.Attributes)
	return c.currentNode().AppendChild(n)
}

func (c *HTMLTreeConstructor) insertHTMLElement(t *Token) *dom.Node {
	n := c.insertElement(t)
	c.stackOfOpenElements.push(n)
	return n
}

// synthesize opens an element that has no markup in the source, positioned
// at the token that required it.
func (c *HTMLTreeConstructor) synthesize(tag dom.Tag, t *Token) *dom.Node {
	c.log.WithFields(logrus.Fields{
		"tag": tag,
		"pos": t.Start,
	}).Debug("synthesizing element")
	n := c.currentNode().AppendChild(dom.NewSynthesizedElementNode(tag, t.Start))
	c.stackOfOpenElements.push(n)
	return n
}

// closeElement attaches the end tag t to n. An element only keeps the first
// end tag that closes it.
func (c *HTMLTreeConstructor) closeElement(n *dom.Node, t *Token) {
	if n == nil || n.OriginalEndTag != nil {
		return
	}
	n.Close(t.Raw, t.Start)
}

var impliedEndTags = map[string]bool{
	"dd": true, "dt": true, "li": true, "optgroup": true, "option": true,
	"p": true, "rb": true, "rp": true, "rt": true, "rtc": true,
}

// https://html.spec.whatwg.org/multipage/parsing.html#generate-implied-end-tags
func (c *HTMLTreeConstructor) generateImpliedEndTags(except string) {
	for {
		name := c.stackOfOpenElements.topName()
		if !impliedEndTags[name] || name == except {
			return
		}
		c.stackOfOpenElements.pop()
	}
}

// closePElement implicitly closes the open p element.
// https://html.spec.whatwg.org/multipage/parsing.html#close-a-p-element
func (c *HTMLTreeConstructor) closePElement() *dom.Node {
	c.generateImpliedEndTags("p")
	return c.stackOfOpenElements.popUntil("p")
}

func (c *HTMLTreeConstructor) closePElementInButtonScope() {
	if c.stackOfOpenElements.containsInButtonScope("p") {
		c.closePElement()
	}
}

// splitWhitespace handles the leading whitespace of a character token with
// fn. It rewrites t to the remaining text and reports whether any is left.
func (c *HTMLTreeConstructor) splitWhitespace(t *Token, fn func(ws *Token)) bool {
	ws, rest := splitLeadingWhitespace(t, c.config.TabStop)
	if ws != nil && fn != nil {
		fn(ws)
	}
	if rest == nil {
		return false
	}
	*t = *rest
	return true
}

func isHeadElement(name string) bool {
	switch name {
	case "base", "basefont", "bgsound", "link", "meta", "noframes", "script",
		"style", "template", "title", "noscript":
		return true
	}
	return false
}

// https://html.spec.whatwg.org/multipage/parsing.html#the-initial-insertion-mode
func (c *HTMLTreeConstructor) initialModeHandler(t *Token) (bool, insertionMode) {
	switch t.TokenType {
	case characterToken:
		if !c.splitWhitespace(t, func(ws *Token) { c.insertCharacter(ws, c.Document) }) {
			return false, initial
		}
	case commentToken:
		c.insertComment(t, c.Document)
		return false, initial
	case docTypeToken:
		if !conformingDoctype(t) {
			c.parseError(NonConformingDoctype, t)
		}
		pub, sys := t.PublicIdentifier, t.SystemIdentifier
		if pub == missing {
			pub = ""
		}
		if sys == missing {
			sys = ""
		}
		c.Document.AppendChild(dom.NewDocumentTypeNode(t.TagName, pub, sys, t.Raw, t.Start))
		c.Document.Document.Name = t.TagName
		c.Document.Document.PublicID = pub
		c.Document.Document.SystemID = sys
		c.Document.HasDoctype = true
		c.Document.QuirksMode = quirksModeFor(t)
		return false, beforeHTML
	}

	c.Document.QuirksMode = dom.Quirks
	return true, beforeHTML
}

// https://html.spec.whatwg.org/multipage/parsing.html#the-before-html-insertion-mode
func (c *HTMLTreeConstructor) beforeHTMLModeHandler(t *Token) (bool, insertionMode) {
	switch t.TokenType {
	case docTypeToken:
		c.parseError(UnexpectedDoctype, t)
		return false, beforeHTML
	case commentToken:
		c.insertComment(t, c.Document)
		return false, beforeHTML
	case characterToken:
		if !c.splitWhitespace(t, func(ws *Token) { c.insertCharacter(ws, c.Document) }) {
			return false, beforeHTML
		}
	case startTagToken:
		if t.TagName == "html" {
			c.htmlElement = c.insertHTMLElement(t)
			return false, beforeHead
		}
	case endTagToken:
		switch t.TagName {
		case "head", "body", "html", "br":
		default:
			c.parseError(UnexpectedEndTag, t)
			return false, beforeHTML
		}
	}

	c.htmlElement = c.synthesize(atom.Html, t)
	return true, beforeHead
}

// https://html.spec.whatwg.org/multipage/parsing.html#the-before-head-insertion-mode
func (c *HTMLTreeConstructor) beforeHeadModeHandler(t *Token) (bool, insertionMode) {
	switch t.TokenType {
	case characterToken:
		if !c.splitWhitespace(t, func(ws *Token) { c.insertCharacter(ws, c.currentNode()) }) {
			return false, beforeHead
		}
	case commentToken:
		c.insertComment(t, c.currentNode())
		return false, beforeHead
	case docTypeToken:
		c.parseError(UnexpectedDoctype, t)
		return false, beforeHead
	case startTagToken:
		switch t.TagName {
		case "html":
			c.parseError(UnexpectedStartTag, t)
			return false, beforeHead
		case "head":
			c.headElementPointer = c.insertHTMLElement(t)
			return false, inHead
		}
	case endTagToken:
		switch t.TagName {
		case "head", "body", "html", "br":
		default:
			c.parseError(UnexpectedEndTag, t)
			return false, beforeHead
		}
	}

	c.headElementPointer = c.synthesize(atom.Head, t)
	return true, inHead
}

// https://html.spec.whatwg.org/multipage/parsing.html#parsing-main-inhead
func (c *HTMLTreeConstructor) inHeadModeHandler(t *Token) (bool, insertionMode) {
	switch t.TokenType {
	case characterToken:
		if !c.splitWhitespace(t, func(ws *Token) { c.insertCharacter(ws, c.currentNode()) }) {
			return false, inHead
		}
	case commentToken:
		c.insertComment(t, c.currentNode())
		return false, inHead
	case docTypeToken:
		c.parseError(UnexpectedDoctype, t)
		return false, inHead
	case startTagToken:
		switch t.TagName {
		case "html", "head":
			c.parseError(UnexpectedStartTag, t)
			return false, inHead
		case "base", "basefont", "bgsound", "link", "meta":
			c.insertElement(t)
			return false, inHead
		case "title", "noscript", "noframes", "style", "script":
			return false, c.insertRawText(t, inHead)
		}
	case endTagToken:
		switch t.TagName {
		case "head":
			c.closeElement(c.stackOfOpenElements.popUntil("head"), t)
			return false, afterHead
		case "body", "html", "br":
		default:
			c.parseError(UnexpectedEndTag, t)
			return false, inHead
		}
	}

	c.stackOfOpenElements.popUntil("head")
	return true, afterHead
}

// https://html.spec.whatwg.org/multipage/parsing.html#the-after-head-insertion-mode
func (c *HTMLTreeConstructor) afterHeadModeHandler(t *Token) (bool, insertionMode) {
	switch t.TokenType {
	case characterToken:
		if !c.splitWhitespace(t, func(ws *Token) { c.insertCharacter(ws, c.currentNode()) }) {
			return false, afterHead
		}
	case commentToken:
		c.insertComment(t, c.currentNode())
		return false, afterHead
	case docTypeToken:
		c.parseError(UnexpectedDoctype, t)
		return false, afterHead
	case startTagToken:
		switch {
		case t.TagName == "html", t.TagName == "head":
			c.parseError(UnexpectedStartTag, t)
			return false, afterHead
		case t.TagName == "body":
			c.bodyElement = c.insertHTMLElement(t)
			return false, inBody
		case isHeadElement(t.TagName) && t.TagName != "template" && c.headElementPointer != nil:
			c.parseError(UnexpectedStartTag, t)
			c.stackOfOpenElements.push(c.headElementPointer)
			return true, inHead
		}
	case endTagToken:
		switch t.TagName {
		case "body", "html", "br":
		default:
			c.parseError(UnexpectedEndTag, t)
			return false, afterHead
		}
	}

	c.bodyElement = c.synthesize(atom.Body, t)
	return true, inBody
}

var voidElements = map[string]bool{
	"area": true, "base": true, "basefont": true, "bgsound": true, "br": true,
	"col": true, "embed": true, "frame": true, "hr": true, "img": true,
	"input": true, "keygen": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

var rawTextElements = map[string]bool{
	"iframe": true, "noembed": true, "noframes": true, "noscript": true,
	"plaintext": true, "script": true, "style": true, "textarea": true,
	"title": true, "xmp": true,
}

// Start tags that implicitly close an open p element.
var closesP = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"center": true, "details": true, "dialog": true, "dir": true, "div": true,
	"dl": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "header": true, "hgroup": true, "hr": true,
	"listing": true, "main": true, "menu": true, "nav": true, "ol": true,
	"p": true, "pre": true, "search": true, "section": true, "summary": true,
	"ul": true, "xmp": true, "plaintext": true,
}

// End tags closed through the generic block rule.
var blockEndTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"button": true, "center": true, "details": true, "dialog": true, "dir": true,
	"div": true, "dl": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "header": true, "hgroup": true, "listing": true,
	"main": true, "menu": true, "nav": true, "ol": true, "pre": true,
	"search": true, "section": true, "summary": true, "ul": true,
}

var headingElements = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var tableSections = map[string]bool{
	"tbody": true, "thead": true, "tfoot": true,
}

var tableEndTags = map[string]bool{
	"table": true, "tbody": true, "thead": true, "tfoot": true, "tr": true,
	"td": true, "th": true, "caption": true, "colgroup": true,
}

// https://html.spec.whatwg.org/multipage/parsing.html#special
var specialElements = map[string]bool{
	"address": true, "applet": true, "area": true, "article": true, "aside": true,
	"base": true, "basefont": true, "bgsound": true, "blockquote": true,
	"body": true, "br": true, "button": true, "caption": true, "center": true,
	"col": true, "colgroup": true, "dd": true, "details": true, "dir": true,
	"div": true, "dl": true, "dt": true, "embed": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"frame": true, "frameset": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "head": true, "header": true,
	"hgroup": true, "hr": true, "html": true, "iframe": true, "img": true,
	"input": true, "keygen": true, "li": true, "link": true, "listing": true,
	"main": true, "marquee": true, "menu": true, "meta": true, "nav": true,
	"noembed": true, "noframes": true, "noscript": true, "object": true,
	"ol": true, "p": true, "param": true, "plaintext": true, "pre": true,
	"script": true, "search": true, "section": true, "select": true,
	"source": true, "style": true, "summary": true, "table": true,
	"tbody": true, "td": true, "template": true, "textarea": true,
	"tfoot": true, "th": true, "thead": true, "title": true, "tr": true,
	"track": true, "ul": true, "wbr": true, "xmp": true,
}

// Elements that may be left open at the end of the body without an error.
var mayBeUnclosed = map[string]bool{
	"dd": true, "dt": true, "li": true, "optgroup": true, "option": true,
	"p": true, "rb": true, "rp": true, "rt": true, "rtc": true, "tbody": true,
	"td": true, "tfoot": true, "th": true, "thead": true, "tr": true,
	"body": true, "html": true,
}

// checkUnclosed reports the first element above index from that should have
// been closed explicitly.
func (c *HTMLTreeConstructor) checkUnclosed(from int) {
	for _, n := range c.stackOfOpenElements[from:] {
		if mayBeUnclosed[n.LocalName()] {
			continue
		}
		raw := "<" + n.TagName() + ">"
		if n.OriginalTag != nil {
			raw = *n.OriginalTag
		}
		c.parseError(UnclosedElement, &Token{Raw: raw, Start: n.Element.StartPos})
		return
	}
}

// https://html.spec.whatwg.org/multipage/parsing.html#parsing-main-inbody
func (c *HTMLTreeConstructor) inBodyModeHandler(t *Token) (bool, insertionMode) {
	switch t.TokenType {
	case characterToken:
		c.insertCharacter(t, c.currentNode())
	case commentToken:
		c.insertComment(t, c.currentNode())
	case docTypeToken:
		c.parseError(UnexpectedDoctype, t)
	case startTagToken:
		return c.inBodyStartTag(t)
	case endTagToken:
		return c.inBodyEndTag(t)
	case endOfFileToken:
		c.checkUnclosed(0)
	}
	return false, inBody
}

func (c *HTMLTreeConstructor) inBodyStartTag(t *Token) (bool, insertionMode) {
	foreign := c.stackOfOpenElements.inForeignContent() || t.TagName == "svg" || t.TagName == "math"
	if t.SelfClosing && !voidElements[t.TagName] && !foreign {
		c.parseError(NonVoidSelfClosingTag, t)
	}

	name := t.TagName
	switch {
	case name == "html", name == "head", name == "body", name == "frameset":
		c.parseError(UnexpectedStartTag, t)
	case isHeadElement(name) && !rawTextElements[name] && name != "template":
		// base, basefont, bgsound, link and meta
		c.insertElement(t)
	case headingElements[name]:
		c.closePElementInButtonScope()
		if headingElements[c.stackOfOpenElements.topName()] {
			c.parseError(UnexpectedStartTag, t)
			c.stackOfOpenElements.pop()
		}
		c.insertHTMLElement(t)
	case rawTextElements[name]:
		if closesP[name] {
			c.closePElementInButtonScope()
		}
		return false, c.insertRawText(t, inBody)
	case name == "hr":
		c.closePElementInButtonScope()
		c.insertElement(t)
	case closesP[name]:
		c.closePElementInButtonScope()
		c.insertHTMLElement(t)
	case name == "li":
		c.closeListItem(map[string]bool{"li": true})
		c.closePElementInButtonScope()
		c.insertHTMLElement(t)
	case name == "dd", name == "dt":
		c.closeListItem(map[string]bool{"dd": true, "dt": true})
		c.closePElementInButtonScope()
		c.insertHTMLElement(t)
	case name == "button":
		if c.stackOfOpenElements.containsInScope("button") {
			c.parseError(UnexpectedStartTag, t)
			c.generateImpliedEndTags("")
			c.stackOfOpenElements.popUntil("button")
		}
		c.insertHTMLElement(t)
	case name == "table":
		if c.Document.QuirksMode != dom.Quirks {
			c.closePElementInButtonScope()
		}
		c.insertHTMLElement(t)
	case name == "image":
		c.parseError(UnexpectedStartTag, t)
		t.TagName, t.Tag = "img", atom.Img
		return true, inBody
	case name == "option", name == "optgroup":
		if c.stackOfOpenElements.topName() == "option" {
			c.stackOfOpenElements.pop()
		}
		c.insertHTMLElement(t)
	case name == "rb", name == "rtc":
		if c.stackOfOpenElements.containsInScope("ruby") {
			c.generateImpliedEndTags("")
		}
		c.insertHTMLElement(t)
	case name == "rp", name == "rt":
		if c.stackOfOpenElements.containsInScope("ruby") {
			c.generateImpliedEndTags("rtc")
		}
		c.insertHTMLElement(t)
	case tableEndTags[name] || name == "col":
		c.inTableStartTag(t)
	case voidElements[name]:
		c.insertElement(t)
	case t.SelfClosing && foreign:
		c.insertElement(t)
	default:
		c.insertHTMLElement(t)
	}
	return false, inBody
}

// closeListItem implicitly closes an open list item whose name is in names,
// unless a special element other than address, div or p is in the way.
func (c *HTMLTreeConstructor) closeListItem(names map[string]bool) {
	for i := len(c.stackOfOpenElements) - 1; i >= 0; i-- {
		name := c.stackOfOpenElements[i].LocalName()
		if names[name] {
			c.generateImpliedEndTags(name)
			c.stackOfOpenElements.popTo(i)
			return
		}
		if specialElements[name] && name != "address" && name != "div" && name != "p" {
			return
		}
	}
}

// clearBackTo pops elements until the current node is one of names.
func (c *HTMLTreeConstructor) clearBackTo(names map[string]bool) {
	for len(c.stackOfOpenElements) > 0 && !names[c.stackOfOpenElements.topName()] {
		c.stackOfOpenElements.pop()
	}
}

var (
	tableContext     = map[string]bool{"table": true, "template": true, "html": true}
	tableBodyContext = map[string]bool{"tbody": true, "thead": true, "tfoot": true, "table": true, "template": true, "html": true}
	tableRowContext  = map[string]bool{"tr": true, "tbody": true, "thead": true, "tfoot": true, "table": true, "template": true, "html": true}
)

// inTableStartTag places table structure elements, synthesizing the row
// group and row a cell needs.
func (c *HTMLTreeConstructor) inTableStartTag(t *Token) {
	if !c.stackOfOpenElements.containsInTableScope("table") {
		c.parseError(UnexpectedStartTag, t)
		return
	}

	switch name := t.TagName; {
	case name == "caption", name == "colgroup":
		c.clearBackTo(tableContext)
		c.insertHTMLElement(t)
	case name == "col":
		if c.stackOfOpenElements.topName() != "colgroup" {
			c.clearBackTo(tableContext)
			c.synthesize(atom.Colgroup, t)
		}
		c.insertElement(t)
	case tableSections[name]:
		c.clearBackTo(tableContext)
		c.insertHTMLElement(t)
	case name == "tr":
		c.clearBackTo(tableBodyContext)
		if c.stackOfOpenElements.topName() == "table" {
			c.synthesize(atom.Tbody, t)
		}
		c.insertHTMLElement(t)
	case name == "td", name == "th":
		c.clearBackTo(tableRowContext)
		if c.stackOfOpenElements.topName() == "table" {
			c.synthesize(atom.Tbody, t)
		}
		if tableSections[c.stackOfOpenElements.topName()] {
			c.synthesize(atom.Tr, t)
		}
		c.insertHTMLElement(t)
	}
}

func (c *HTMLTreeConstructor) inBodyEndTag(t *Token) (bool, insertionMode) {
	name := t.TagName
	switch {
	case name == "body", name == "html":
		i := c.stackOfOpenElements.index("body")
		if i < 0 || !c.stackOfOpenElements.containsInScope("body") {
			c.parseError(UnexpectedEndTag, t)
			return false, inBody
		}
		c.checkUnclosed(i)
		body := c.stackOfOpenElements.popTo(i)
		if name == "html" {
			return true, afterBody
		}
		c.closeElement(body, t)
		return false, afterBody
	case name == "p":
		if !c.stackOfOpenElements.containsInButtonScope("p") {
			c.parseError(UnexpectedEndTag, t)
			c.synthesize(atom.P, t)
		}
		c.generateImpliedEndTags("p")
		if c.stackOfOpenElements.topName() != "p" {
			c.parseError(UnexpectedEndTag, t)
		}
		c.closeElement(c.stackOfOpenElements.popUntil("p"), t)
	case name == "li":
		if !c.stackOfOpenElements.containsInListItemScope("li") {
			c.parseError(UnexpectedEndTag, t)
			return false, inBody
		}
		c.closeNamed(name, t)
	case name == "dd", name == "dt":
		if !c.stackOfOpenElements.containsInScope(name) {
			c.parseError(UnexpectedEndTag, t)
			return false, inBody
		}
		c.closeNamed(name, t)
	case headingElements[name]:
		i := -1
		for h := range headingElements {
			if c.stackOfOpenElements.containsInScope(h) {
				if j := c.stackOfOpenElements.index(h); j > i {
					i = j
				}
			}
		}
		if i < 0 {
			c.parseError(UnexpectedEndTag, t)
			return false, inBody
		}
		c.generateImpliedEndTags("")
		if c.stackOfOpenElements.topName() != name {
			c.parseError(UnexpectedEndTag, t)
		}
		c.closeElement(c.stackOfOpenElements.popTo(i), t)
	case name == "br":
		c.parseError(UnexpectedEndTag, t)
		c.insertElement(t)
	case blockEndTags[name]:
		if !c.stackOfOpenElements.containsInScope(name) {
			c.parseError(UnexpectedEndTag, t)
			return false, inBody
		}
		c.closeNamed("", t)
	case tableEndTags[name]:
		if !c.stackOfOpenElements.containsInTableScope(name) {
			c.parseError(UnexpectedEndTag, t)
			return false, inBody
		}
		c.generateImpliedEndTags("")
		i := c.stackOfOpenElements.index(name)
		// open rows, cells and sections close with their table
		for _, n := range c.stackOfOpenElements[i+1:] {
			if !tableEndTags[n.LocalName()] {
				c.parseError(UnexpectedEndTag, t)
				break
			}
		}
		c.closeElement(c.stackOfOpenElements.popTo(i), t)
	default:
		c.anyOtherEndTag(t)
	}
	return false, inBody
}

// closeNamed generates implied end tags, except for except, then pops
// through the element named by t and attaches t to it.
func (c *HTMLTreeConstructor) closeNamed(except string, t *Token) {
	c.generateImpliedEndTags(except)
	if c.stackOfOpenElements.topName() != t.TagName {
		c.parseError(UnexpectedEndTag, t)
	}
	c.closeElement(c.stackOfOpenElements.popUntil(t.TagName), t)
}

// https://html.spec.whatwg.org/multipage/parsing.html#any-other-end-tag
func (c *HTMLTreeConstructor) anyOtherEndTag(t *Token) {
	for i := len(c.stackOfOpenElements) - 1; i >= 0; i-- {
		name := c.stackOfOpenElements[i].LocalName()
		if name == t.TagName {
			c.generateImpliedEndTags(name)
			if c.stackOfOpenElements.topName() != name {
				c.parseError(UnexpectedEndTag, t)
			}
			c.closeElement(c.stackOfOpenElements.popTo(i), t)
			return
		}
		if specialElements[name] {
			c.parseError(UnexpectedEndTag, t)
			return
		}
	}
}

// insertRawText opens a raw text element and switches to the text mode. A
// self-closed one has no raw content following it and stays empty.
func (c *HTMLTreeConstructor) insertRawText(t *Token, returnMode insertionMode) insertionMode {
	if t.SelfClosing {
		c.insertElement(t)
		return returnMode
	}
	c.insertHTMLElement(t)
	c.originalInsertionMode = returnMode
	return text
}

// https://html.spec.whatwg.org/multipage/parsing.html#parsing-main-incdata
func (c *HTMLTreeConstructor) textModeHandler(t *Token) (bool, insertionMode) {
	switch t.TokenType {
	case characterToken:
		c.insertCharacter(t, c.currentNode())
	case endTagToken:
		n := c.stackOfOpenElements.pop()
		if n != nil && n.LocalName() == t.TagName {
			c.closeElement(n, t)
		} else {
			c.parseError(UnexpectedEndTag, t)
		}
		return false, c.originalInsertionMode
	case endOfFileToken:
		c.parseError(UnclosedElement, t)
		c.stackOfOpenElements.pop()
		return true, c.originalInsertionMode
	default:
		// the tokenizer only emits text inside raw text elements; keep
		// anything else as text so no source is lost
		c.insertCharacter(&Token{Data: t.Raw, Raw: t.Raw, Start: t.Start}, c.currentNode())
	}
	return false, text
}

func (c *HTMLTreeConstructor) reopenBody() {
	if c.bodyElement != nil {
		c.stackOfOpenElements.push(c.bodyElement)
	}
}

// https://html.spec.whatwg.org/multipage/parsing.html#parsing-main-afterbody
func (c *HTMLTreeConstructor) afterBodyModeHandler(t *Token) (bool, insertionMode) {
	switch t.TokenType {
	case characterToken:
		if !c.splitWhitespace(t, func(ws *Token) { c.insertCharacter(ws, c.currentNode()) }) {
			return false, afterBody
		}
		c.parseError(UnexpectedText, t)
	case commentToken:
		c.insertComment(t, c.currentNode())
		return false, afterBody
	case docTypeToken:
		c.parseError(UnexpectedDoctype, t)
		return false, afterBody
	case startTagToken:
		c.parseError(UnexpectedStartTag, t)
		if t.TagName == "html" {
			return false, afterBody
		}
	case endTagToken:
		if t.TagName == "html" {
			c.closeElement(c.stackOfOpenElements.popUntil("html"), t)
			return false, afterAfterBody
		}
		c.parseError(UnexpectedEndTag, t)
	case endOfFileToken:
		return false, afterBody
	}

	c.reopenBody()
	return true, inBody
}

// https://html.spec.whatwg.org/multipage/parsing.html#the-after-after-body-insertion-mode
func (c *HTMLTreeConstructor) afterAfterBodyModeHandler(t *Token) (bool, insertionMode) {
	switch t.TokenType {
	case characterToken:
		if !c.splitWhitespace(t, func(ws *Token) { c.insertCharacter(ws, c.Document) }) {
			return false, afterAfterBody
		}
		c.parseError(UnexpectedText, t)
	case commentToken:
		c.insertComment(t, c.Document)
		return false, afterAfterBody
	case docTypeToken:
		c.parseError(UnexpectedDoctype, t)
		return false, afterAfterBody
	case startTagToken:
		c.parseError(UnexpectedStartTag, t)
		if t.TagName == "html" {
			return false, afterAfterBody
		}
	case endTagToken:
		c.parseError(UnexpectedEndTag, t)
	case endOfFileToken:
		return false, afterAfterBody
	}

	if c.htmlElement != nil {
		c.stackOfOpenElements.push(c.htmlElement)
	}
	c.reopenBody()
	return true, inBody
}

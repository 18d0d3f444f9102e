package parser

import (
	"io"

	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/heathj/srctree/parser/dom"
)

// HTMLTokenizer turns an input stream into Tokens that carry their literal
// source text and the positions they span.
type HTMLTokenizer struct {
	z       *html.Tokenizer
	pos     dom.Position
	tabStop uint
	token   *Token
	done    bool
	err     error
}

// NewHTMLTokenizer creates a tokenizer reading from r.
func NewHTMLTokenizer(r io.Reader, tabStop uint) *HTMLTokenizer {
	if tabStop == 0 {
		tabStop = DefaultTabStop
	}
	return &HTMLTokenizer{
		z:       html.NewTokenizer(r),
		pos:     dom.StartPosition,
		tabStop: tabStop,
	}
}

// Next advances to the next token. It returns false after the end of file
// token has been produced or when reading fails; Err tells them apart.
func (p *HTMLTokenizer) Next() bool {
	if p.done {
		return false
	}

	tt := p.z.Next()
	if tt == html.ErrorToken {
		p.done = true
		if err := p.z.Err(); err != io.EOF {
			p.err = errors.Wrapf(err, "tokenizing at %s", p.pos)
			return false
		}
		p.token = &Token{TokenType: endOfFileToken, Start: p.pos, End: p.pos}
		return true
	}

	// The decoding accessors below rewrite the tokenizer's buffer in place, so
	// the raw text has to be copied out first.
	raw := string(p.z.Raw())
	start := p.pos
	p.pos = p.pos.Advance(raw, p.tabStop)
	t := &Token{Raw: raw, Start: start, End: p.pos}

	switch tt {
	case html.TextToken:
		t.TokenType = characterToken
		t.Data = string(p.z.Text())
	case html.StartTagToken, html.SelfClosingTagToken:
		t.TokenType = startTagToken
		t.SelfClosing = tt == html.SelfClosingTagToken
		p.readTag(t, 1)
	case html.EndTagToken:
		t.TokenType = endTagToken
		p.readTag(t, 2)
		t.Attributes = nil
	case html.CommentToken:
		t.TokenType = commentToken
		t.Data = string(p.z.Text())
	case html.DoctypeToken:
		t.TokenType = docTypeToken
		t.Data = string(p.z.Text())
		t.TagName, t.PublicIdentifier, t.SystemIdentifier, t.ForceQuirks = parseDoctype(t.Data)
	}

	p.token = t
	return true
}

// readTag fills in the name and attributes of a tag token. prefix is the
// length of "<" or "</" in the raw text.
func (p *HTMLTokenizer) readTag(t *Token, prefix int) {
	name, hasAttr := p.z.TagName()
	t.TagName = string(name)
	t.Tag = dom.LookupTag(t.TagName)
	t.OriginalTagName = t.TagName
	if end := prefix + len(name); end <= len(t.Raw) {
		t.OriginalTagName = t.Raw[prefix:end]
	}

	for hasAttr {
		var k, v []byte
		k, v, hasAttr = p.z.TagAttr()
		// only the first of duplicate attributes counts
		if _, dup := t.Attributes.Get(string(k)); dup {
			continue
		}
		t.Attributes = append(t.Attributes, dom.Attr{Name: string(k), Value: string(v)})
	}
}

// Token returns the current token.
func (p *HTMLTokenizer) Token() *Token {
	return p.token
}

// Err returns the read error that stopped the tokenizer, if any.
func (p *HTMLTokenizer) Err() error {
	return p.err
}

package parser

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/heathj/srctree/parser/dom"
)

// Parser ties a tokenizer to a tree constructor for one input.
type Parser struct {
	Tokenizer       *HTMLTokenizer
	TreeConstructor *HTMLTreeConstructor
	config          Config
}

// NewParser creates a Parser reading htmlIn.
func NewParser(htmlIn io.Reader, opts ...Option) *Parser {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Parser{
		Tokenizer:       NewHTMLTokenizer(htmlIn, config.TabStop),
		TreeConstructor: NewHTMLTreeConstructor(config),
		config:          config,
	}
}

// Output is the result of a parse. Root is the html element of Document and
// may be nil when construction stopped before it was created.
type Output struct {
	Document *dom.Node
	Root     *dom.Node
	Errors   []*ParseError
}

// Start runs the parser to the end of its input. Parse errors are collected
// in the Output; the returned error is only set when the input could not be
// read.
func (p *Parser) Start() (*Output, error) {
	tokens := 0
	for !p.TreeConstructor.Stopped() && p.Tokenizer.Next() {
		p.TreeConstructor.ProcessToken(p.Tokenizer.Token())
		tokens++
	}
	if err := p.Tokenizer.Err(); err != nil {
		return nil, err
	}

	doc := p.TreeConstructor.Document
	p.config.Logger.WithFields(logrus.Fields{
		"tokens":  tokens,
		"errors":  len(p.TreeConstructor.Errors),
		"quirks":  doc.QuirksMode,
		"stopped": p.TreeConstructor.Stopped(),
	}).Debug("parse finished")

	return &Output{
		Document: doc,
		Root:     doc.ChildElement(dom.LookupTag("html")),
		Errors:   p.TreeConstructor.Errors,
	}, nil
}

// Parse builds a tree from r.
func Parse(r io.Reader, opts ...Option) (*Output, error) {
	out, err := NewParser(r, opts...).Start()
	if err != nil {
		return nil, errors.Wrap(err, "parsing html")
	}
	return out, nil
}

// ParseString builds a tree from s.
func ParseString(s string, opts ...Option) (*Output, error) {
	return Parse(strings.NewReader(s), opts...)
}

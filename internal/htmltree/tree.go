// Package htmltree hides the HTML parsing library behind a small interface
// so callers can walk img elements and rewrite attributes without binding
// to one parser.
//
// Two backends are available:
//   - "net": golang.org/x/net/html (default)
//   - "goquery": github.com/PuerkitoBio/goquery selections over the same tree
//
// Both backends detect whether the input is a full document or a fragment.
// Fragments render back without an added <html><body> wrapper.
package htmltree

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrUnknownParser indicates an unsupported backend name.
var ErrUnknownParser = errors.New("unknown HTML parser")

// Backend names accepted by New.
const (
	BackendNet     = "net"
	BackendGoquery = "goquery"
)

// DefaultBackend is used when no name is given.
const DefaultBackend = BackendNet

// Parser turns HTML text into a traversable Document.
type Parser interface {
	Parse(content string) (Document, error)
}

// Document is a parsed HTML tree.
type Document interface {
	// FindAll returns every element with the given tag name in document order.
	FindAll(tag string) []Element
	// Render serializes the tree back to HTML text.
	Render() (string, error)
}

// Element is a single HTML element.
type Element interface {
	Attr(key string) (string, bool)
	SetAttr(key, val string)
}

// New returns the parser registered under name. An empty name selects
// DefaultBackend.
func New(name string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendNet:
		return NetParser{}, nil
	case BackendGoquery:
		return GoqueryParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (available: %s, %s)", ErrUnknownParser, name, BackendNet, BackendGoquery)
	}
}

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendNet, BackendGoquery}
}

// parseTree parses content, handling both full documents and fragments.
// Fragment nodes are collected under a synthetic document node.
func parseTree(content string) (root *html.Node, isFragment bool, err error) {
	content = strings.TrimPrefix(content, byteOrderMark)
	if isFullDocument(content) {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Body context keeps the parser from wrapping the nodes
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

const byteOrderMark = "\uFEFF"

// isFullDocument reports whether the first meaningful token of content is a
// doctype or an html, head or body start tag. Comments, whitespace and XML
// declarations (tokenized as bogus comments) are skipped.
func isFullDocument(content string) bool {
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.DoctypeToken:
			return true
		case html.CommentToken:
			continue
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) != "" {
				return false
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Html, atom.Head, atom.Body:
				return true
			}
			return false
		default:
			return false
		}
	}
}

// renderTree renders root back to text. For fragments only the children are
// rendered.
func renderTree(root *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

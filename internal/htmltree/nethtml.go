package htmltree

import (
	"golang.org/x/net/html"
)

// NetParser parses with golang.org/x/net/html and walks nodes directly.
type NetParser struct{}

// Parse implements Parser.
func (NetParser) Parse(content string) (Document, error) {
	root, isFragment, err := parseTree(content)
	if err != nil {
		return nil, err
	}
	return &netDocument{root: root, isFragment: isFragment}, nil
}

type netDocument struct {
	root       *html.Node
	isFragment bool
}

func (d *netDocument) FindAll(tag string) []Element {
	var found []Element
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			found = append(found, &netElement{node: n})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return found
}

func (d *netDocument) Render() (string, error) {
	return renderTree(d.root, d.isFragment)
}

type netElement struct {
	node *html.Node
}

func (e *netElement) Attr(key string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (e *netElement) SetAttr(key, val string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			e.node.Attr[i].Val = val
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
}

package htmltree

import (
	"github.com/PuerkitoBio/goquery"
)

// GoqueryParser builds a goquery document over the parsed tree and uses CSS
// selectors to find elements.
type GoqueryParser struct{}

// Parse implements Parser.
func (GoqueryParser) Parse(content string) (Document, error) {
	root, isFragment, err := parseTree(content)
	if err != nil {
		return nil, err
	}
	return &goqueryDocument{
		doc:        goquery.NewDocumentFromNode(root),
		isFragment: isFragment,
	}, nil
}

type goqueryDocument struct {
	doc        *goquery.Document
	isFragment bool
}

func (d *goqueryDocument) FindAll(tag string) []Element {
	sel := d.doc.Find(tag)
	found := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		found = append(found, goqueryElement{sel: s})
	})
	return found
}

func (d *goqueryDocument) Render() (string, error) {
	return renderTree(d.doc.Get(0), d.isFragment)
}

type goqueryElement struct {
	sel *goquery.Selection
}

func (e goqueryElement) Attr(key string) (string, bool) {
	return e.sel.Attr(key)
}

func (e goqueryElement) SetAttr(key, val string) {
	e.sel.SetAttr(key, val)
}

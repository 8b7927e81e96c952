package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// Sentinel errors for theme templating.
var (
	ErrTemplateParse  = errors.New("theme template parsing failed")
	ErrTemplateRender = errors.New("theme template rendering failed")
)

// DefaultTitle is used when the document declares no title.
const DefaultTitle = "Document"

// Palette holds the six theme colors. Values are substituted verbatim, so
// callers validate them first.
type Palette struct {
	Background     string
	Text           string
	Heading        string
	Link           string
	CodeBackground string
	Border         string
}

// PageData is the input of the theme template.
type PageData struct {
	Palette
	Title        string
	HighlightCSS string
	ExtraCSS     string
	Body         string
}

// ThemeTemplater wraps converted Markdown in the themed page skeleton.
type ThemeTemplater struct {
	tmpl *template.Template
}

// NewThemeTemplater parses the page skeleton.
//
// Fields available to the skeleton: .Background, .Text, .Heading, .Link,
// .CodeBackground, .Border, .Title, .HighlightCSS, .ExtraCSS and .Body.
// The body and CSS fields are inserted as-is; pipe .Title through html.
func NewThemeTemplater(content string) (*ThemeTemplater, error) {
	tmpl, err := template.New("theme").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	return &ThemeTemplater{tmpl: tmpl}, nil
}

// Render produces a complete HTML document.
func (t *ThemeTemplater) Render(ctx context.Context, data *PageData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if data == nil {
		return "", fmt.Errorf("%w: nil page data", ErrTemplateRender)
	}

	page := *data
	if strings.TrimSpace(page.Title) == "" {
		page.Title = DefaultTitle
	}
	page.HighlightCSS = sanitizeCSS(page.HighlightCSS)
	page.ExtraCSS = sanitizeCSS(page.ExtraCSS)

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, &page); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}

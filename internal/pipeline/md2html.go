package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Sentinel errors for Markdown conversion.
var (
	ErrHTMLConversion   = errors.New("HTML conversion failed")
	ErrUnknownCodeStyle = errors.New("unknown code style")
)

// Code style names with special meaning.
const (
	DefaultCodeStyle = "monokai"
	NoCodeStyle      = "none"
)

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter converts Markdown to an HTML fragment using goldmark.
type GoldmarkConverter struct {
	md        goldmark.Markdown
	codeStyle string
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and,
// unless codeStyle is "none", chroma syntax highlighting. An empty codeStyle
// selects DefaultCodeStyle.
func NewGoldmarkConverter(codeStyle string) (*GoldmarkConverter, error) {
	codeStyle, err := ResolveCodeStyle(codeStyle)
	if err != nil {
		return nil, err
	}

	extensions := []goldmark.Extender{
		extension.GFM,      // Tables, strikethrough, autolinks, task lists
		extension.Footnote, // [^1] footnotes
	}
	if codeStyle != NoCodeStyle {
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithStyle(codeStyle),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true), // Classes pair with the stylesheet from HighlightCSS
			),
		))
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			html.WithUnsafe(), // Inline <img> and other raw HTML pass through
		),
	)
	return &GoldmarkConverter{md: md, codeStyle: codeStyle}, nil
}

// CodeStyle returns the resolved highlighting style name.
func (c *GoldmarkConverter) CodeStyle() string {
	return c.codeStyle
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// ResolveCodeStyle normalizes a chroma style name. Empty means
// DefaultCodeStyle; "none" is passed through.
func ResolveCodeStyle(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		return DefaultCodeStyle, nil
	case NoCodeStyle:
		return NoCodeStyle, nil
	}
	if _, ok := styles.Registry[name]; !ok {
		return "", fmt.Errorf("%w: %q (run 'mdtheme help code-styles' for the list)", ErrUnknownCodeStyle, name)
	}
	return name, nil
}

// CodeStyles returns the registered chroma style names, sorted.
func CodeStyles() []string {
	names := make([]string, 0, len(styles.Registry))
	for name := range styles.Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HighlightCSS returns the chroma class stylesheet for codeStyle.
// Returns an empty string for "none".
func HighlightCSS(codeStyle string) (string, error) {
	codeStyle, err := ResolveCodeStyle(codeStyle)
	if err != nil {
		return "", err
	}
	if codeStyle == NoCodeStyle {
		return "", nil
	}

	style := styles.Registry[codeStyle]
	var buf bytes.Buffer
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&buf, style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}

package mdtheme

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-mdtheme/internal/pipeline"
)

// Default theme colors (GitHub dark).
const (
	DefaultBackground     = "#0d1117"
	DefaultText           = "#c9d1d9"
	DefaultHeading        = "#e6f1ff"
	DefaultLink           = "#58a6ff"
	DefaultCodeBackground = "#161b22"
	DefaultBorder         = "#30363d"
)

var (
	hexColorPattern     = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	keywordColorPattern = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// Theme holds the six colors substituted into the page stylesheet.
// Empty fields take the default color.
type Theme struct {
	Background     string
	Text           string
	Heading        string
	Link           string
	CodeBackground string
	Border         string
}

// DefaultTheme returns the GitHub dark palette.
func DefaultTheme() Theme {
	return Theme{
		Background:     DefaultBackground,
		Text:           DefaultText,
		Heading:        DefaultHeading,
		Link:           DefaultLink,
		CodeBackground: DefaultCodeBackground,
		Border:         DefaultBorder,
	}
}

// WithDefaults returns a copy of t where empty colors are replaced by the
// default palette.
func (t Theme) WithDefaults() Theme {
	def := DefaultTheme()
	fill := func(v *string, d string) {
		if strings.TrimSpace(*v) == "" {
			*v = d
		}
	}
	fill(&t.Background, def.Background)
	fill(&t.Text, def.Text)
	fill(&t.Heading, def.Heading)
	fill(&t.Link, def.Link)
	fill(&t.CodeBackground, def.CodeBackground)
	fill(&t.Border, def.Border)
	return t
}

// Validate checks every color. Accepted forms are hex (#rgb, #rgba,
// #rrggbb, #rrggbbaa) and bare CSS keywords such as "black".
// Empty colors are valid and mean "default".
func (t Theme) Validate() error {
	for _, c := range []struct{ name, value string }{
		{"background", t.Background},
		{"text", t.Text},
		{"heading", t.Heading},
		{"link", t.Link},
		{"code background", t.CodeBackground},
		{"border", t.Border},
	} {
		if c.value == "" {
			continue
		}
		if !isValidColor(c.value) {
			return fmt.Errorf("%w: %s color %q (use #rrggbb or a CSS color name)", ErrInvalidColor, c.name, c.value)
		}
	}
	return nil
}

func (t Theme) palette() pipeline.Palette {
	return pipeline.Palette{
		Background:     t.Background,
		Text:           t.Text,
		Heading:        t.Heading,
		Link:           t.Link,
		CodeBackground: t.CodeBackground,
		Border:         t.Border,
	}
}

func isValidColor(value string) bool {
	return hexColorPattern.MatchString(value) || keywordColorPattern.MatchString(value)
}

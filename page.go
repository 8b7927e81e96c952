package mdtheme

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Page defaults.
const (
	DefaultPageSize = "A4"
	DefaultMargin   = "10mm"
)

// Margin bounds in inches.
const (
	MinMarginInches = 0.0
	MaxMarginInches = 3.0
)

const cmPerInch = 2.54

// paperSize holds portrait dimensions in centimetres.
type paperSize struct {
	name          string
	width, height float64
}

// paperSizes is keyed by lowercase name.
var paperSizes = map[string]paperSize{
	"a3":      {"A3", 29.7, 42.0},
	"a4":      {"A4", 21.0, 29.7},
	"a5":      {"A5", 14.8, 21.0},
	"letter":  {"Letter", 21.59, 27.94},
	"legal":   {"Legal", 21.59, 35.56},
	"tabloid": {"Tabloid", 27.94, 43.18},
}

// marginUnits converts one unit to inches.
var marginUnits = map[string]float64{
	"mm": 1 / 25.4,
	"cm": 1 / cmPerInch,
	"in": 1,
	"px": 1.0 / 96,
	"pt": 1.0 / 72,
}

// PageSettings configures the PDF page. Empty fields take the defaults.
type PageSettings struct {
	Size   string // A3, A4, A5, Letter, Legal, Tabloid (case-insensitive)
	Margin string // e.g. "10mm", "1cm", "0.5in"; bare numbers are mm
}

// DefaultPageSettings returns A4 with 10mm margins.
func DefaultPageSettings() PageSettings {
	return PageSettings{Size: DefaultPageSize, Margin: DefaultMargin}
}

// WithDefaults returns a copy of p with empty fields filled in.
func (p PageSettings) WithDefaults() PageSettings {
	if strings.TrimSpace(p.Size) == "" {
		p.Size = DefaultPageSize
	}
	if strings.TrimSpace(p.Margin) == "" {
		p.Margin = DefaultMargin
	}
	return p
}

// Validate checks the page size and margin.
func (p PageSettings) Validate() error {
	_, err := p.PDFOptions()
	return err
}

// PDFOptions resolves the settings into renderer options.
func (p PageSettings) PDFOptions() (*PDFOptions, error) {
	p = p.WithDefaults()

	size, ok := paperSizes[strings.ToLower(strings.TrimSpace(p.Size))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrInvalidPageSize, p.Size, strings.Join(PageSizes(), ", "))
	}

	margin, err := ParseMargin(p.Margin)
	if err != nil {
		return nil, err
	}

	return &PDFOptions{
		PageSize:      size.name,
		PaperWidthIn:  size.width / cmPerInch,
		PaperHeightIn: size.height / cmPerInch,
		MarginIn:      margin,
	}, nil
}

// PageSizes returns the supported paper size names.
func PageSizes() []string {
	names := make([]string, 0, len(paperSizes))
	for _, s := range paperSizes {
		names = append(names, s.name)
	}
	sort.Strings(names)
	return names
}

// ParseMargin converts a margin string to inches.
//
// Accepted units: mm, cm, in, px (96 per inch), pt (72 per inch).
// A number without unit is read as millimetres.
func ParseMargin(s string) (float64, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidMargin)
	}

	number, factor := raw, marginUnits["mm"]
	for unit, f := range marginUnits {
		if strings.HasSuffix(raw, unit) {
			number, factor = strings.TrimSpace(strings.TrimSuffix(raw, unit)), f
			break
		}
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil || math.IsNaN(value) {
		return 0, fmt.Errorf("%w: %q (use e.g. 10mm, 1cm, 0.5in)", ErrInvalidMargin, s)
	}

	inches := value * factor
	if inches < MinMarginInches || inches > MaxMarginInches {
		return 0, fmt.Errorf("%w: %q (must be between 0 and 3in)", ErrInvalidMargin, s)
	}
	return inches, nil
}

// PDFOptions is what a Renderer needs to lay out pages. Backgrounds are
// always printed.
type PDFOptions struct {
	PageSize      string  // canonical size name, e.g. "A4"
	PaperWidthIn  float64 // portrait width in inches
	PaperHeightIn float64 // portrait height in inches
	MarginIn      float64 // applied to all four sides
}

// MarginMM returns the margin in millimetres.
func (o *PDFOptions) MarginMM() float64 {
	return o.MarginIn * 25.4
}

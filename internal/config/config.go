// Package config loads the optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdtheme/internal/fileutil"
	"github.com/alnah/go-mdtheme/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidTimeout  = errors.New("invalid timeout")
)

// AppDirName is the directory searched under os.UserConfigDir.
const AppDirName = "go-mdtheme"

// Field length limits.
const (
	MaxColorLength    = 32   // "#rrggbbaa" or a keyword
	MaxPageSizeLength = 10   // "tabloid"
	MaxMarginLength   = 16   // "12.5mm"
	MaxNameLength     = 64   // engine, template, style, parser names
	MaxPathLength     = 4096 // PATH_MAX on Linux
)

// Config holds all settings the configuration file can provide.
// Empty fields mean "not set" so that lower-precedence defaults apply.
type Config struct {
	Theme  ThemeConfig  `yaml:"theme"`
	Page   PageConfig   `yaml:"page"`
	PDF    PDFConfig    `yaml:"pdf"`
	HTML   HTMLConfig   `yaml:"html"`
	Assets AssetsConfig `yaml:"assets"`
	Images ImagesConfig `yaml:"images"`
}

// ThemeConfig defines the six theme colors.
type ThemeConfig struct {
	Background     string `yaml:"background"`
	Text           string `yaml:"text"`
	Heading        string `yaml:"heading"`
	Link           string `yaml:"link"`
	CodeBackground string `yaml:"codeBackground"`
	Border         string `yaml:"border"`
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size   string `yaml:"size"`   // "A4", "Letter", ...
	Margin string `yaml:"margin"` // "10mm", "0.5in", ...
}

// PDFConfig defines the PDF engine settings.
type PDFConfig struct {
	Engine     string `yaml:"engine"`     // "rod", "chromedp", "wkhtmltopdf"
	Timeout    string `yaml:"timeout"`    // Go duration, e.g. "45s"
	BrowserBin string `yaml:"browserBin"` // Chrome/Chromium executable
	NoSandbox  bool   `yaml:"noSandbox"`
}

// HTMLConfig defines HTML generation options.
type HTMLConfig struct {
	Template  string `yaml:"template"`  // name or path of the page skeleton
	Style     string `yaml:"style"`     // extra stylesheet name or path
	CodeStyle string `yaml:"codeStyle"` // chroma style name or "none"
	Parser    string `yaml:"parser"`    // "net" or "goquery"
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// ImagesConfig defines image relocation options.
type ImagesConfig struct {
	Skip bool `yaml:"skip"`
}

// Validate checks field lengths and the timeout format.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	colors := []struct{ field, value string }{
		{"theme.background", c.Theme.Background},
		{"theme.text", c.Theme.Text},
		{"theme.heading", c.Theme.Heading},
		{"theme.link", c.Theme.Link},
		{"theme.codeBackground", c.Theme.CodeBackground},
		{"theme.border", c.Theme.Border},
	}
	for _, col := range colors {
		if err := validateFieldLength(col.field, col.value, MaxColorLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.margin", c.Page.Margin, MaxMarginLength); err != nil {
		return err
	}

	if err := validateFieldLength("pdf.engine", c.PDF.Engine, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("pdf.browserBin", c.PDF.BrowserBin, MaxPathLength); err != nil {
		return err
	}
	if _, err := c.PDF.TimeoutDuration(); err != nil {
		return err
	}

	if err := validateFieldLength("html.template", c.HTML.Template, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("html.style", c.HTML.Style, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("html.codeStyle", c.HTML.CodeStyle, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("html.parser", c.HTML.Parser, MaxNameLength); err != nil {
		return err
	}

	return validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength)
}

// TimeoutDuration parses Timeout. An empty value returns zero.
func (p PDFConfig) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: pdf.timeout %q: %v", ErrInvalidTimeout, p.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: pdf.timeout must be positive, got %s", ErrInvalidTimeout, p.Timeout)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns an empty configuration: every setting falls through
// to the built-in defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists the candidate files for a config name, in lookup order.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, {UserConfigDir}/go-mdtheme/
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing candidate from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

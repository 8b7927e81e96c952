package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdtheme"
)

// Flags default to zero values so that "not given" can be told apart from
// an explicit value; defaults are applied by the library and shown in help.

// commonFlags holds flags shared by every conversion command.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// themeFlags holds the six theme colors.
type themeFlags struct {
	background     string
	text           string
	heading        string
	link           string
	codeBackground string
	border         string
}

// pageFlags holds PDF page layout flags.
type pageFlags struct {
	size   string
	margin string
}

// engineFlags holds PDF renderer flags.
type engineFlags struct {
	name            string
	timeout         time.Duration
	browserBin      string
	noSandbox       bool
	downloadBrowser bool
}

// assetFlags holds template, stylesheet and HTML processing flags.
type assetFlags struct {
	template   string
	style      string
	assetPath  string
	codeStyle  string
	htmlParser string
}

// convertFlags holds every flag of a conversion command.
type convertFlags struct {
	common   commonFlags
	output   string
	noImages bool
	theme    themeFlags
	page     pageFlags
	engine   engineFlags
	assets   assetFlags
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only print errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "print debug information")
}

func addThemeFlags(fs *flag.FlagSet, f *themeFlags) {
	fs.StringVar(&f.background, "bg-color", "", withDefault("page background color", mdtheme.DefaultBackground))
	fs.StringVar(&f.text, "text-color", "", withDefault("body text color", mdtheme.DefaultText))
	fs.StringVar(&f.heading, "heading-color", "", withDefault("heading color", mdtheme.DefaultHeading))
	fs.StringVar(&f.link, "link-color", "", withDefault("link color", mdtheme.DefaultLink))
	fs.StringVar(&f.codeBackground, "code-bg", "", withDefault("code block background", mdtheme.DefaultCodeBackground))
	fs.StringVar(&f.border, "border-color", "", withDefault("table and rule border color", mdtheme.DefaultBorder))
}

func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVar(&f.size, "page-size", "",
		withDefault("page size: "+strings.Join(mdtheme.PageSizes(), ", "), mdtheme.DefaultPageSize))
	fs.StringVar(&f.margin, "margin", "",
		withDefault("page margin (mm, cm, in, px, pt; bare number = mm)", mdtheme.DefaultMargin))
}

func addEngineFlags(fs *flag.FlagSet, f *engineFlags) {
	fs.StringVar(&f.name, "engine", "",
		withDefault("PDF engine: "+strings.Join(mdtheme.Engines(), ", "), mdtheme.DefaultEngine))
	fs.DurationVar(&f.timeout, "timeout", 0, withDefault("PDF rendering timeout", mdtheme.DefaultTimeout.String()))
	fs.StringVar(&f.browserBin, "browser-bin", "", "Chrome/Chromium executable (or wkhtmltopdf binary)")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox (Docker, CI)")
	fs.BoolVar(&f.downloadBrowser, "download-browser", false, "download Chromium when none is installed (rod)")
}

func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.template, "template", "", "page template name or .html path (default github-dark)")
	fs.StringVar(&f.style, "style", "", "extra stylesheet name or .css path")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory searched for templates and styles")
	fs.StringVar(&f.codeStyle, "code-style", "", "chroma style for code blocks, or none (default monokai)")
	fs.StringVar(&f.htmlParser, "html-parser", "", "HTML tree backend: net, goquery (default net)")
}

func withDefault(usage, def string) string {
	return fmt.Sprintf("%s (default %s)", usage, def)
}

// newConvertFlagSet registers the flags of a conversion command into f.
// Page and engine flags exist only on commands producing a PDF.
func newConvertFlagSet(cmd mdtheme.Command, f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(string(cmd), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.StringVarP(&f.output, "output", "o", "", withDefault("output file", mdtheme.DefaultOutputPath(cmd)))
	addThemeFlags(fs, &f.theme)
	fs.BoolVar(&f.noImages, "no-images", false, "do not copy local images next to the output")
	if cmd.ProducesPDF() {
		addPageFlags(fs, &f.page)
		addEngineFlags(fs, &f.engine)
	}
	addAssetFlags(fs, &f.assets)
	addCommonFlags(fs, &f.common)

	return fs
}

// parseConvertFlags parses args (without the command name) and returns the
// flags and positional arguments.
func parseConvertFlags(cmd mdtheme.Command, args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(cmd, f)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	return f, fs.Args(), nil
}

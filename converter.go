package mdtheme

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-mdtheme/internal/assets"
	"github.com/alnah/go-mdtheme/internal/fileutil"
	"github.com/alnah/go-mdtheme/internal/htmltree"
	"github.com/alnah/go-mdtheme/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.SourcePreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
)

// Command names a conversion.
type Command string

// Supported conversions.
const (
	CommandMarkdownToPDF  Command = "md-to-pdf"
	CommandMarkdownToHTML Command = "md-to-html"
	CommandHTMLToPDF      Command = "html-to-pdf"
)

// Default output file names, relative to the working directory.
const (
	DefaultPDFOutput  = "output.pdf"
	DefaultHTMLOutput = "output.html"
)

// Commands returns the conversion commands.
func Commands() []Command {
	return []Command{CommandMarkdownToPDF, CommandMarkdownToHTML, CommandHTMLToPDF}
}

// ParseCommand validates a command name.
func ParseCommand(name string) (Command, error) {
	for _, c := range Commands() {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// ProducesPDF reports whether the command needs a PDF renderer.
func (c Command) ProducesPDF() bool {
	return c == CommandMarkdownToPDF || c == CommandHTMLToPDF
}

// DefaultOutputPath returns the output file used when none is given.
func DefaultOutputPath(cmd Command) string {
	if cmd == CommandMarkdownToHTML {
		return DefaultHTMLOutput
	}
	return DefaultPDFOutput
}

// RelocatedImage records one image copied next to the output.
type RelocatedImage = pipeline.RelocatedImage

// Job describes one conversion.
type Job struct {
	InputPath  string       // source document (required)
	OutputPath string       // empty means DefaultOutputPath
	Theme      Theme        // empty colors take the defaults
	Page       PageSettings // PDF only; empty fields take the defaults
	NoImages   bool         // skip image relocation
}

// Result describes the written artifact.
type Result struct {
	OutputPath string // absolute path
	Bytes      int64
	Images     []RelocatedImage
}

// Converter orchestrates the Markdown/HTML to themed HTML/PDF pipeline.
// Create with NewConverter and call Close when done. A Converter runs one
// conversion at a time.
type Converter struct {
	cfg converterConfig

	logger        logrus.FieldLogger
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter *pipeline.GoldmarkConverter
	templater     *pipeline.ThemeTemplater
	cssInjector   pipeline.CSSInjector
	relocator     *pipeline.Relocator
	renderer      Renderer

	highlightCSS string
	extraCSS     string
}

// NewConverter builds the pipeline. Asset, code style, parser and engine
// names are validated here; no browser is started.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			logger:  discardLogger(),
			timeout: DefaultTimeout,
			engine:  DefaultEngine,
		},
		preprocessor: &pipeline.SourcePreprocessor{},
		cssInjector:  &pipeline.CSSInjection{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.cfg.logger

	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	if resolver.HasCustomLoader() {
		c.logger.WithField("assets", c.cfg.assetPath).Debug("custom asset directory")
	}

	skeleton, err := resolver.ResolveTemplate(c.cfg.template)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	if c.templater, err = pipeline.NewThemeTemplater(skeleton); err != nil {
		return nil, err
	}

	if c.extraCSS, err = resolver.ResolveStyle(c.cfg.style); err != nil {
		return nil, fmt.Errorf("loading style: %w", err)
	}

	if c.htmlConverter, err = pipeline.NewGoldmarkConverter(c.cfg.codeStyle); err != nil {
		return nil, err
	}
	if c.highlightCSS, err = pipeline.HighlightCSS(c.htmlConverter.CodeStyle()); err != nil {
		return nil, err
	}

	parser, err := htmltree.New(c.cfg.htmlParser)
	if err != nil {
		return nil, err
	}
	c.relocator = pipeline.NewRelocator(parser, c.logger)

	c.renderer = c.cfg.renderer
	if c.renderer == nil {
		c.renderer, err = NewRenderer(c.cfg.engine, RendererConfig{
			BrowserBin:      c.cfg.browserBin,
			NoSandbox:       c.cfg.noSandbox,
			DownloadBrowser: c.cfg.downloadBrowser,
			Logger:          c.logger,
		})
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Engine returns the name of the PDF renderer.
func (c *Converter) Engine() string {
	return c.renderer.Name()
}

// Probe checks that the PDF renderer can run.
func (c *Converter) Probe(ctx context.Context) error {
	return c.renderer.Probe(ctx)
}

// Close releases renderer resources.
func (c *Converter) Close() error {
	if c.renderer == nil {
		return nil
	}
	return c.renderer.Close()
}

// Convert runs the named conversion.
func (c *Converter) Convert(ctx context.Context, cmd Command, job Job) (*Result, error) {
	switch cmd {
	case CommandMarkdownToPDF:
		return c.MarkdownToPDF(ctx, job)
	case CommandMarkdownToHTML:
		return c.MarkdownToHTML(ctx, job)
	case CommandHTMLToPDF:
		return c.HTMLToPDF(ctx, job)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
}

// RenderMarkdown converts Markdown to a complete themed HTML document
// without touching the filesystem.
func (c *Converter) RenderMarkdown(ctx context.Context, markdown string, theme Theme) (string, error) {
	if err := theme.Validate(); err != nil {
		return "", err
	}
	theme = theme.WithDefaults()

	markdown = c.preprocessor.PreprocessMarkdown(ctx, markdown)
	meta, body := pipeline.SplitFrontMatter(markdown, c.logger)

	fragment, err := c.htmlConverter.ToHTML(ctx, body)
	if err != nil {
		return "", fmt.Errorf("converting to HTML: %w", err)
	}

	return c.templater.Render(ctx, &pipeline.PageData{
		Palette:      theme.palette(),
		Title:        meta.Title,
		HighlightCSS: c.highlightCSS,
		ExtraCSS:     c.extraCSS,
		Body:         fragment,
	})
}

// MarkdownToHTML writes the themed HTML of a Markdown file.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) MarkdownToHTML(ctx context.Context, job Job) (result *Result, err error) {
	defer recoverInto(&err)

	p, err := c.prepare(job, CommandMarkdownToHTML)
	if err != nil {
		return nil, err
	}

	htmlContent, images, err := c.markdownPage(ctx, p)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(p.output, []byte(htmlContent), fileutil.FilePermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	c.logger.WithField("output", p.output).Debug("HTML written")

	return &Result{OutputPath: p.output, Bytes: int64(len(htmlContent)), Images: images}, nil
}

// MarkdownToPDF renders a Markdown file to PDF through a temporary HTML
// file that is removed on every exit path.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) MarkdownToPDF(ctx context.Context, job Job) (result *Result, err error) {
	defer recoverInto(&err)

	p, err := c.prepare(job, CommandMarkdownToPDF)
	if err != nil {
		return nil, err
	}

	htmlContent, images, err := c.markdownPage(ctx, p)
	if err != nil {
		return nil, err
	}

	size, err := c.renderPDF(ctx, p, htmlContent)
	if err != nil {
		return nil, err
	}
	return &Result{OutputPath: p.output, Bytes: size, Images: images}, nil
}

// HTMLToPDF renders an existing HTML file to PDF. Only image relocation and
// the extra stylesheet are applied; the theme is not.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) HTMLToPDF(ctx context.Context, job Job) (result *Result, err error) {
	defer recoverInto(&err)

	p, err := c.prepare(job, CommandHTMLToPDF)
	if err != nil {
		return nil, err
	}

	htmlContent, err := readInput(p.input)
	if err != nil {
		return nil, err
	}
	if c.extraCSS != "" {
		htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, c.extraCSS)
	}

	htmlContent, images, err := c.relocate(ctx, p, htmlContent)
	if err != nil {
		return nil, err
	}

	size, err := c.renderPDF(ctx, p, htmlContent)
	if err != nil {
		return nil, err
	}
	return &Result{OutputPath: p.output, Bytes: size, Images: images}, nil
}

// preparedJob is a validated Job with absolute paths.
type preparedJob struct {
	Job
	input  string
	output string
	pdf    *PDFOptions
}

func (p *preparedJob) sourceDir() string { return filepath.Dir(p.input) }
func (p *preparedJob) outputDir() string { return filepath.Dir(p.output) }

// prepare validates the job and creates the output directory.
func (c *Converter) prepare(job Job, cmd Command) (*preparedJob, error) {
	if strings.TrimSpace(job.InputPath) == "" {
		return nil, ErrMissingInput
	}
	if err := job.Theme.Validate(); err != nil {
		return nil, err
	}

	p := &preparedJob{Job: job}
	if cmd.ProducesPDF() {
		opts, err := job.Page.PDFOptions()
		if err != nil {
			return nil, err
		}
		p.pdf = opts
	}

	var err error
	if p.input, err = filepath.Abs(job.InputPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	output := job.OutputPath
	if output == "" {
		output = DefaultOutputPath(cmd)
	}
	if p.output, err = filepath.Abs(output); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	if err := fileutil.EnsureParentDir(p.output); err != nil {
		return nil, fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err)
	}

	c.logger.WithFields(logrus.Fields{
		"command": cmd,
		"input":   p.input,
		"output":  p.output,
	}).Debug("starting conversion")
	return p, nil
}

// markdownPage reads the Markdown source, themes it and relocates images.
func (c *Converter) markdownPage(ctx context.Context, p *preparedJob) (string, []RelocatedImage, error) {
	markdown, err := readInput(p.input)
	if err != nil {
		return "", nil, err
	}

	htmlContent, err := c.RenderMarkdown(ctx, markdown, p.Theme)
	if err != nil {
		return "", nil, err
	}

	return c.relocate(ctx, p, htmlContent)
}

func (c *Converter) relocate(ctx context.Context, p *preparedJob, htmlContent string) (string, []RelocatedImage, error) {
	return c.relocator.Relocate(ctx, htmlContent, pipeline.RelocateOptions{
		SourceDir: p.sourceDir(),
		OutputDir: p.outputDir(),
		Skip:      p.NoImages,
	})
}

// renderPDF writes htmlContent to a temporary file next to the source and
// prints it to the output path. Relocated references mirror the source
// layout, so both they and the references left untouched resolve from there.
func (c *Converter) renderPDF(ctx context.Context, p *preparedJob, htmlContent string) (int64, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(p.sourceDir(), htmlContent, "html")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	log := c.logger.WithFields(logrus.Fields{"engine": c.renderer.Name(), "html": tmpPath})
	log.Debug("rendering PDF")
	start := time.Now()

	if err := c.renderer.Render(ctx, tmpPath, p.output, p.pdf); err != nil {
		return 0, err
	}

	info, err := os.Stat(p.output)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	if info.Size() == 0 {
		return 0, fmt.Errorf("%w: renderer produced an empty file", ErrPDFGeneration)
	}

	log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Debug("PDF written")
	return info.Size(), nil
}

func readInput(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return string(data), nil
}

// recoverInto converts a panic into an error.
func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("internal error: %v", r)
	}
}

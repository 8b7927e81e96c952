package mdtheme

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds one PDF render.
const DefaultTimeout = 30 * time.Second

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds the settings gathered from options before the
// pipeline stages are built.
type converterConfig struct {
	logger   logrus.FieldLogger
	renderer Renderer
	engine   string
	timeout  time.Duration

	browserBin      string
	noSandbox       bool
	downloadBrowser bool

	template   string
	style      string
	assetPath  string
	codeStyle  string
	htmlParser string
}

// WithLogger sets the logger. Nil keeps the default, which discards.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.cfg.logger = logger
		}
	}
}

// WithRenderer sets the PDF renderer, bypassing engine selection. The
// Converter takes ownership and closes it.
func WithRenderer(r Renderer) Option {
	return func(c *Converter) {
		c.cfg.renderer = r
	}
}

// WithEngine selects the PDF engine by name (see Engines).
func WithEngine(name string) Option {
	return func(c *Converter) {
		c.cfg.engine = name
	}
}

// WithTimeout sets the PDF render timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdtheme: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithBrowserBin sets the browser (or wkhtmltopdf) executable.
func WithBrowserBin(path string) Option {
	return func(c *Converter) {
		c.cfg.browserBin = path
	}
}

// WithNoSandbox disables the Chrome sandbox.
func WithNoSandbox(disable bool) Option {
	return func(c *Converter) {
		c.cfg.noSandbox = disable
	}
}

// WithDownloadBrowser lets the rod engine download Chromium when no local
// browser is found.
func WithDownloadBrowser(allow bool) Option {
	return func(c *Converter) {
		c.cfg.downloadBrowser = allow
	}
}

// WithTemplate selects the page skeleton by name or .html file path.
func WithTemplate(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.template = nameOrPath
	}
}

// WithStyle appends an extra stylesheet, by name or .css file path.
func WithStyle(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.style = nameOrPath
	}
}

// WithAssetPath adds a directory searched for templates and styles before
// the embedded ones.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithCodeStyle selects the chroma highlighting style ("none" disables).
func WithCodeStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.codeStyle = name
	}
}

// WithHTMLParser selects the HTML tree backend used for image relocation.
func WithHTMLParser(name string) Option {
	return func(c *Converter) {
		c.cfg.htmlParser = name
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

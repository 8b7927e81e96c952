package mdtheme

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-mdtheme/internal/fileutil"
	"github.com/alnah/go-mdtheme/internal/hints"
)

// PDF engine names.
const (
	EngineRod         = "rod"
	EngineChromedp    = "chromedp"
	EngineWkhtmltopdf = "wkhtmltopdf"
	DefaultEngine     = EngineRod
)

// Renderer turns an HTML file on disk into a PDF file.
type Renderer interface {
	// Name returns the engine name.
	Name() string
	// Probe checks that the engine can run without rendering anything.
	// Failures wrap ErrRendererUnavailable.
	Probe(ctx context.Context) error
	// Render lays out htmlPath and writes the PDF to outputPath. Relative
	// resources in the HTML resolve against the directory of htmlPath.
	Render(ctx context.Context, htmlPath, outputPath string, opts *PDFOptions) error
	// Close releases engine resources. Safe to call more than once.
	Close() error
}

// RendererConfig holds engine settings shared by all renderers.
type RendererConfig struct {
	BrowserBin      string // Chrome/Chromium or wkhtmltopdf executable
	NoSandbox       bool
	DownloadBrowser bool // rod only
	Logger          logrus.FieldLogger
}

// Compile-time interface checks.
var (
	_ Renderer = (*rodRenderer)(nil)
	_ Renderer = (*chromedpRenderer)(nil)
	_ Renderer = (*wkhtmltopdfRenderer)(nil)
)

// Engines returns the supported engine names, default first.
func Engines() []string {
	return []string{EngineRod, EngineChromedp, EngineWkhtmltopdf}
}

// NewRenderer creates the named engine. Nothing is started until the first
// Probe or Render call. An empty name selects DefaultEngine.
func NewRenderer(engine string, cfg RendererConfig) (Renderer, error) {
	if cfg.Logger == nil {
		cfg.Logger = discardLogger()
	}
	// Sandboxing needs user namespaces that CI runners and containers rarely grant.
	if hints.IsInCI() || hints.IsInContainer() {
		cfg.NoSandbox = true
	}

	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineRod:
		return newRodRenderer(cfg), nil
	case EngineChromedp:
		return newChromedpRenderer(cfg), nil
	case EngineWkhtmltopdf:
		return newWkhtmltopdfRenderer(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q%s", ErrUnknownEngine, engine, hints.ForAvailable(Engines()))
	}
}

// fileURL converts a filesystem path to a file:// URL, escaping spaces and
// other reserved characters.
func fileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // Windows drive letter
	}
	return (&url.URL{Scheme: "file", Path: p}).String(), nil
}

// findChrome resolves the Chrome executable shared by the rod and chromedp
// engines: explicit setting, ROD_BROWSER_BIN, then the usual install
// locations.
func findChrome(engine, bin string) (string, error) {
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		if !fileutil.FileExists(bin) {
			return "", unavailable(engine, runtime.GOOS, "browser not found at "+bin)
		}
		return bin, nil
	}
	if path, found := launcher.LookPath(); found {
		return path, nil
	}
	return "", unavailable(engine, runtime.GOOS, "Chrome/Chromium not found")
}

// unavailable wraps ErrRendererUnavailable with install instructions.
func unavailable(engine, goos, reason string) error {
	return fmt.Errorf("%w: %s: %s%s", ErrRendererUnavailable, engine, reason, hints.ForRendererMissing(engine, goos))
}

package mdtheme

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdtheme/internal/fileutil"
	"github.com/alnah/go-mdtheme/internal/hints"
	"github.com/alnah/go-mdtheme/internal/process"
)

// rodRenderer prints pages with headless Chrome driven by go-rod.
// The browser is launched lazily and reused until Close.
type rodRenderer struct {
	cfg RendererConfig

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodRenderer(cfg RendererConfig) *rodRenderer {
	return &rodRenderer{cfg: cfg}
}

func (r *rodRenderer) Name() string { return EngineRod }

// Probe locates a browser binary. With DownloadBrowser set a missing
// browser is not an error: it is fetched on first render.
func (r *rodRenderer) Probe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bin, err := r.findBrowser()
	if err != nil {
		if r.cfg.DownloadBrowser {
			r.cfg.Logger.Debug("no local browser, one will be downloaded")
			return nil
		}
		return err
	}
	r.cfg.Logger.WithField("browser", bin).Debug("browser found")
	return nil
}

func (r *rodRenderer) findBrowser() (string, error) {
	return findChrome(EngineRod, r.cfg.BrowserBin)
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	bin, err := r.findBrowser()
	if err != nil {
		if !r.cfg.DownloadBrowser {
			return err
		}
		r.cfg.Logger.Info("downloading Chromium")
		if bin, err = launcher.NewBrowser().Get(); err != nil {
			return fmt.Errorf("%w: downloading browser: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
		}
	}

	l := launcher.New().Bin(bin).Headless(true)
	if r.cfg.NoSandbox {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		killLauncher(l)
		return fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	r.cfg.Logger.WithField("browser", bin).Debug("browser started")
	r.launcher = l
	r.browser = browser
	return nil
}

// Render opens htmlPath in a new tab and prints it.
func (r *rodRenderer) Render(ctx context.Context, htmlPath, outputPath string, opts *PDFOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureBrowser(); err != nil {
		return err
	}

	target, err := fileURL(htmlPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.WaitLoad(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w%s", ErrPageLoad, ctx.Err(), hints.ForTimeout())
		}
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(buildRodPDFOptions(opts))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	if err := os.WriteFile(outputPath, data, fileutil.FilePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// buildRodPDFOptions maps page options to the CDP print parameters.
func buildRodPDFOptions(opts *PDFOptions) *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(opts.PaperWidthIn),
		PaperHeight:     floatPtr(opts.PaperHeightIn),
		MarginTop:       floatPtr(opts.MarginIn),
		MarginBottom:    floatPtr(opts.MarginIn),
		MarginLeft:      floatPtr(opts.MarginIn),
		MarginRight:     floatPtr(opts.MarginIn),
		PrintBackground: true,
	}
}

// Close shuts the browser down and kills its process tree.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		killLauncher(r.launcher)
		r.launcher = nil
	}
	return err
}

// killLauncher kills Chrome and its helper processes (GPU, renderer).
func killLauncher(l *launcher.Launcher) {
	process.KillProcessGroup(l.PID())
	l.Kill()
}

func floatPtr(v float64) *float64 {
	return &v
}

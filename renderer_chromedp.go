package mdtheme

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/alnah/go-mdtheme/internal/fileutil"
	"github.com/alnah/go-mdtheme/internal/hints"
)

// chromedpRenderer prints pages with Chrome driven by chromedp. One browser
// is started lazily; each render runs in its own tab.
type chromedpRenderer struct {
	cfg RendererConfig

	mu            sync.Mutex
	browserCtx    context.Context
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
}

func newChromedpRenderer(cfg RendererConfig) *chromedpRenderer {
	return &chromedpRenderer{cfg: cfg}
}

func (r *chromedpRenderer) Name() string { return EngineChromedp }

func (r *chromedpRenderer) Probe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bin, err := r.findBrowser()
	if err != nil {
		return err
	}
	r.cfg.Logger.WithField("browser", bin).Debug("browser found")
	return nil
}

func (r *chromedpRenderer) findBrowser() (string, error) {
	return findChrome(EngineChromedp, r.cfg.BrowserBin)
}

func (r *chromedpRenderer) ensureBrowser() error {
	if r.browserCtx != nil {
		return nil
	}

	bin, err := r.findBrowser()
	if err != nil {
		return err
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(bin),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-first-run", true),
	)
	if r.cfg.NoSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start eagerly so launch errors are reported as connection errors.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	r.cfg.Logger.WithField("browser", bin).Debug("browser started")
	r.browserCtx = browserCtx
	r.allocCancel = allocCancel
	r.browserCancel = browserCancel
	return nil
}

func (r *chromedpRenderer) Render(ctx context.Context, htmlPath, outputPath string, opts *PDFOptions) error {
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

	tabCtx, tabCancel := chromedp.NewContext(r.browserCtx)
	defer tabCancel()
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	var buf []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPaperWidth(opts.PaperWidthIn).
				WithPaperHeight(opts.PaperHeightIn).
				WithMarginTop(opts.MarginIn).
				WithMarginRight(opts.MarginIn).
				WithMarginBottom(opts.MarginIn).
				WithMarginLeft(opts.MarginIn).
				WithPrintBackground(true).
				Do(ctx)
			return err
		}),
	)
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w%s", ErrPageLoad, ctx.Err(), hints.ForTimeout())
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	if err := os.WriteFile(outputPath, buf, fileutil.FilePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

func (r *chromedpRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browserCtx == nil {
		return nil
	}
	r.browserCancel()
	r.allocCancel()
	r.browserCtx = nil
	return nil
}

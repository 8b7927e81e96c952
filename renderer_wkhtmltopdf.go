package mdtheme

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/alnah/go-mdtheme/internal/process"
)

const wkhtmltopdfBin = "wkhtmltopdf"

// killGrace is how long Render waits for wkhtmltopdf output pipes after
// the process group has been killed.
const killGrace = 2 * time.Second

// wkhtmltopdfRenderer shells out to the wkhtmltopdf executable.
type wkhtmltopdfRenderer struct {
	cfg RendererConfig
	bin string
}

func newWkhtmltopdfRenderer(cfg RendererConfig) *wkhtmltopdfRenderer {
	bin := cfg.BrowserBin
	if bin == "" {
		bin = wkhtmltopdfBin
	}
	return &wkhtmltopdfRenderer{cfg: cfg, bin: bin}
}

func (r *wkhtmltopdfRenderer) Name() string { return EngineWkhtmltopdf }

func (r *wkhtmltopdfRenderer) Probe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := exec.LookPath(r.bin)
	if err != nil {
		return unavailable(EngineWkhtmltopdf, runtime.GOOS, err.Error())
	}
	r.cfg.Logger.WithField("path", path).Debug("wkhtmltopdf found")
	return nil
}

func (r *wkhtmltopdfRenderer) Render(ctx context.Context, htmlPath, outputPath string, opts *PDFOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, r.bin, wkhtmltopdfArgs(htmlPath, outputPath, opts)...) // #nosec G204 -- engine binary chosen by the user
	process.SetProcessGroup(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return nil
	}
	cmd.WaitDelay = killGrace

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	r.cfg.Logger.WithField("args", cmd.Args[1:]).Debug("running wkhtmltopdf")
	err := cmd.Run()
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrPDFGeneration, ctx.Err())
	}
	if err != nil {
		if isNotFound(err) {
			return unavailable(EngineWkhtmltopdf, runtime.GOOS, err.Error())
		}
		return fmt.Errorf("%w: wkhtmltopdf: %v: %s", ErrPDFGeneration, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Close is a no-op: each render runs its own process.
func (r *wkhtmltopdfRenderer) Close() error { return nil }

// wkhtmltopdfArgs builds the command line. The margin is passed in
// millimetres, which wkhtmltopdf accepts on every platform.
func wkhtmltopdfArgs(htmlPath, outputPath string, opts *PDFOptions) []string {
	margin := fmt.Sprintf("%.2fmm", opts.MarginMM())
	return []string{
		"--quiet",
		"--page-size", opts.PageSize,
		"--margin-top", margin,
		"--margin-right", margin,
		"--margin-bottom", margin,
		"--margin-left", margin,
		"--encoding", "UTF-8",
		"--no-outline",
		"--enable-local-file-access",
		htmlPath,
		outputPath,
	}
}

func isNotFound(err error) bool {
	var execErr *exec.Error
	return errors.As(err, &execErr)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdtheme"
	"github.com/alnah/go-mdtheme/internal/config"
	"github.com/alnah/go-mdtheme/internal/hints"
)

// convertParams is the result of merging flags, env, config file and
// defaults for one run.
type convertParams struct {
	theme    mdtheme.Theme
	page     mdtheme.PageSettings
	noImages bool

	engine          string
	timeout         time.Duration
	browserBin      string
	noSandbox       bool
	downloadBrowser bool

	template   string
	style      string
	assetPath  string
	codeStyle  string
	htmlParser string
}

// runConvert executes one conversion command.
func runConvert(ctx context.Context, cmd mdtheme.Command, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(cmd, args)
	if errors.Is(err, flag.ErrHelp) {
		printCommandUsage(env.Stdout, cmd)
		return nil
	}
	if err != nil {
		return err
	}
	switch len(positional) {
	case 0:
		return fmt.Errorf("%w: usage: mdtheme %s <input> [flags]", mdtheme.ErrMissingInput, cmd)
	case 1:
	default:
		return fmt.Errorf("%w: expected one input file, got %d", errUsage, len(positional))
	}

	logger := newLogger(env.Stderr, flags.common)
	envCfg := loadEnvConfig()
	warnEnv(logger, envCfg)

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)

	params, err := mergeFlags(flags, cfg)
	if err != nil {
		return err
	}

	conv, err := env.NewConverter(params.options(logger)...)
	if err != nil {
		return withHints(err)
	}
	defer func() {
		if cerr := conv.Close(); cerr != nil {
			logger.WithError(cerr).Debug("closing renderer")
		}
	}()

	if cmd.ProducesPDF() {
		if err := conv.Probe(ctx); err != nil {
			return err
		}
	}

	job := mdtheme.Job{
		InputPath:  positional[0],
		OutputPath: flags.output,
		Theme:      params.theme,
		Page:       params.page,
		NoImages:   params.noImages,
	}
	entry := logger.WithField("input", job.InputPath)
	if cmd.ProducesPDF() {
		entry = entry.WithField("engine", conv.Engine())
	}
	entry.Debug("converting")

	result, err := conv.Convert(ctx, cmd, job)
	if err != nil {
		return withHints(err)
	}

	logger.WithFields(logrus.Fields{
		"output": result.OutputPath,
		"bytes":  result.Bytes,
		"images": len(result.Images),
	}).Debug("done")
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", result.OutputPath)
	}
	return nil
}

// newLogger builds the stderr logger: info by default, debug with -v,
// errors only with -q.
func newLogger(w io.Writer, f commonFlags) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	switch {
	case f.quiet:
		logger.SetLevel(logrus.ErrorLevel)
	case f.verbose:
		logger.SetLevel(logrus.DebugLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

// loadConfig loads the config named by the flag, else by MDTHEME_CONFIG.
// Without either, an empty config is returned.
func loadConfig(flagValue, envValue string) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = envValue
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags layers explicitly set flags over cfg.
func mergeFlags(f *convertFlags, cfg *config.Config) (*convertParams, error) {
	timeout, err := cfg.PDF.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	switch {
	case f.engine.timeout > 0:
		timeout = f.engine.timeout
	case f.engine.timeout < 0:
		return nil, fmt.Errorf("%w: --timeout must be positive, got %v", errUsage, f.engine.timeout)
	}

	return &convertParams{
		theme: mdtheme.Theme{
			Background:     firstNonEmpty(f.theme.background, cfg.Theme.Background),
			Text:           firstNonEmpty(f.theme.text, cfg.Theme.Text),
			Heading:        firstNonEmpty(f.theme.heading, cfg.Theme.Heading),
			Link:           firstNonEmpty(f.theme.link, cfg.Theme.Link),
			CodeBackground: firstNonEmpty(f.theme.codeBackground, cfg.Theme.CodeBackground),
			Border:         firstNonEmpty(f.theme.border, cfg.Theme.Border),
		},
		page: mdtheme.PageSettings{
			Size:   firstNonEmpty(f.page.size, cfg.Page.Size),
			Margin: firstNonEmpty(f.page.margin, cfg.Page.Margin),
		},
		noImages: f.noImages || cfg.Images.Skip,

		engine:          firstNonEmpty(f.engine.name, cfg.PDF.Engine),
		timeout:         timeout,
		browserBin:      firstNonEmpty(f.engine.browserBin, cfg.PDF.BrowserBin),
		noSandbox:       f.engine.noSandbox || cfg.PDF.NoSandbox,
		downloadBrowser: f.engine.downloadBrowser,

		template:   firstNonEmpty(f.assets.template, cfg.HTML.Template),
		style:      firstNonEmpty(f.assets.style, cfg.HTML.Style),
		assetPath:  firstNonEmpty(f.assets.assetPath, cfg.Assets.BasePath),
		codeStyle:  firstNonEmpty(f.assets.codeStyle, cfg.HTML.CodeStyle),
		htmlParser: firstNonEmpty(f.assets.htmlParser, cfg.HTML.Parser),
	}, nil
}

// options converts params into converter options.
func (p *convertParams) options(logger logrus.FieldLogger) []mdtheme.Option {
	opts := []mdtheme.Option{
		mdtheme.WithLogger(logger),
		mdtheme.WithEngine(p.engine),
		mdtheme.WithBrowserBin(p.browserBin),
		mdtheme.WithNoSandbox(p.noSandbox),
		mdtheme.WithDownloadBrowser(p.downloadBrowser),
		mdtheme.WithTemplate(p.template),
		mdtheme.WithStyle(p.style),
		mdtheme.WithAssetPath(p.assetPath),
		mdtheme.WithCodeStyle(p.codeStyle),
		mdtheme.WithHTMLParser(p.htmlParser),
	}
	if p.timeout > 0 {
		opts = append(opts, mdtheme.WithTimeout(p.timeout))
	}
	return opts
}

// withHints appends an actionable hint when the library did not add one.
func withHints(err error) error {
	if strings.Contains(err.Error(), "hint:") {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	case errors.Is(err, mdtheme.ErrBrowserConnect):
		return fmt.Errorf("%w%s", err, hints.ForBrowserConnect())
	case errors.Is(err, mdtheme.ErrWriteOutput):
		return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
	}
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package main

// Notes:
// - mergeFlags: precedence between flags and the (env-merged) config.
// - loadConfig: flag over MDTHEME_CONFIG, and the not-found hint.
// - Conversion itself is covered through runMain in main_test.go.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mdtheme"
	"github.com/alnah/go-mdtheme/internal/config"
)

// ---------------------------------------------------------------------------
// TestMergeFlags - Flags over config
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Theme.Background = "#111111"
	cfg.Theme.Link = "#222222"
	cfg.Page.Size = "A3"
	cfg.PDF.Engine = "chromedp"
	cfg.PDF.Timeout = "45s"
	cfg.HTML.CodeStyle = "dracula"
	cfg.Images.Skip = true

	flags, _, err := parseConvertFlags(mdtheme.CommandMarkdownToPDF, []string{
		"--bg-color", "#000000",
		"--engine", "wkhtmltopdf",
		"--margin", "1in",
		"in.md",
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := mergeFlags(flags, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if got.theme.Background != "#000000" {
		t.Errorf("Background = %q, want the flag value", got.theme.Background)
	}
	if got.theme.Link != "#222222" {
		t.Errorf("Link = %q, want the config value", got.theme.Link)
	}
	if got.theme.Text != "" {
		t.Errorf("Text = %q, want empty (library default)", got.theme.Text)
	}
	if got.page != (mdtheme.PageSettings{Size: "A3", Margin: "1in"}) {
		t.Errorf("page = %+v", got.page)
	}
	if got.engine != "wkhtmltopdf" {
		t.Errorf("engine = %q", got.engine)
	}
	if got.timeout != 45*time.Second {
		t.Errorf("timeout = %v, want 45s from config", got.timeout)
	}
	if got.codeStyle != "dracula" || !got.noImages {
		t.Errorf("codeStyle = %q, noImages = %v", got.codeStyle, got.noImages)
	}
}

func TestMergeFlags_Timeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		cfg     string
		want    time.Duration
		wantErr error
	}{
		{name: "unset", want: 0},
		{name: "config", cfg: "1m", want: time.Minute},
		{name: "flag wins", args: []string{"--timeout", "5s"}, cfg: "1m", want: 5 * time.Second},
		{name: "negative flag", args: []string{"--timeout", "-1s"}, wantErr: errUsage},
		{name: "bad config", cfg: "soon", wantErr: config.ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags, _, err := parseConvertFlags(mdtheme.CommandHTMLToPDF, tt.args)
			if err != nil {
				t.Fatal(err)
			}
			cfg := config.DefaultConfig()
			cfg.PDF.Timeout = tt.cfg

			got, err := mergeFlags(flags, cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("mergeFlags() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && got.timeout != tt.want {
				t.Errorf("timeout = %v, want %v", got.timeout, tt.want)
			}
		})
	}
}

func TestConvertParams_Options(t *testing.T) {
	t.Parallel()

	// Options must build a working converter from empty params (all defaults).
	p := &convertParams{}
	conv, err := mdtheme.NewConverter(p.options(nil)...)
	if err != nil {
		t.Fatalf("NewConverter(defaults) error = %v", err)
	}
	defer conv.Close()

	if conv.Engine() != mdtheme.DefaultEngine {
		t.Errorf("Engine() = %q, want %q", conv.Engine(), mdtheme.DefaultEngine)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - Config lookup
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	flagPath := filepath.Join(dir, "flag.yaml")
	envPath := filepath.Join(dir, "env.yaml")
	if err := os.WriteFile(flagPath, []byte("page:\n  size: Letter\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(envPath, []byte("page:\n  size: A5\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		flag     string
		env      string
		wantSize string
	}{
		{name: "none", wantSize: ""},
		{name: "env only", env: envPath, wantSize: "A5"},
		{name: "flag wins", flag: flagPath, env: envPath, wantSize: "Letter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := loadConfig(tt.flag, tt.env)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Page.Size != tt.wantSize {
				t.Errorf("Page.Size = %q, want %q", cfg.Page.Size, tt.wantSize)
			}
		})
	}
}

func TestLoadConfig_NotFoundHint(t *testing.T) {
	t.Parallel()

	_, err := loadConfig("no-such-config-name", "")
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Fatalf("loadConfig() error = %v, want %v", err, config.ErrConfigNotFound)
	}
	if !strings.Contains(err.Error(), "hint: use --config") {
		t.Errorf("error %q has no hint", err)
	}
}

// ---------------------------------------------------------------------------
// TestNewLogger - Verbosity
// ---------------------------------------------------------------------------

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags commonFlags
		want  string
	}{
		{"default", commonFlags{}, "info"},
		{"verbose", commonFlags{verbose: true}, "debug"},
		{"quiet wins", commonFlags{verbose: true, quiet: true}, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := newLogger(os.Stderr, tt.flags).GetLevel().String(); got != tt.want {
				t.Errorf("level = %s, want %s", got, tt.want)
			}
		})
	}
}

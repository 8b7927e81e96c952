package main

// Notes:
// - Tests use t.Setenv, which rules out t.Parallel.
// - applyEnvConfig is checked for precedence: env fills only what the
//   config file left empty.

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-mdtheme/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Variable parsing
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("MDTHEME_CONFIG", "work")
	t.Setenv("MDTHEME_ENGINE", "chromedp")
	t.Setenv("MDTHEME_TIMEOUT", "2m")
	t.Setenv("MDTHEME_PAGE_SIZE", "letter")
	t.Setenv("MDTHEME_MARGIN", "0.5in")
	t.Setenv("MDTHEME_TEMPLATE", "custom")
	t.Setenv("MDTHEME_CODE_STYLE", "dracula")
	t.Setenv("MDTHEME_BROWSER_BIN", "/usr/bin/chromium")
	t.Setenv("MDTHEME_NO_IMAGES", "1")
	t.Setenv("MDTHEME_NO_SANDBOX", "true")

	got := loadEnvConfig()
	want := &envConfig{
		ConfigPath: "work",
		Engine:     "chromedp",
		Timeout:    2 * time.Minute,
		PageSize:   "letter",
		Margin:     "0.5in",
		Template:   "custom",
		CodeStyle:  "dracula",
		BrowserBin: "/usr/bin/chromium",
		NoImages:   true,
		NoSandbox:  true,
	}

	if got.ConfigPath != want.ConfigPath || got.Engine != want.Engine || got.Timeout != want.Timeout ||
		got.PageSize != want.PageSize || got.Margin != want.Margin || got.Template != want.Template ||
		got.CodeStyle != want.CodeStyle || got.BrowserBin != want.BrowserBin ||
		got.NoImages != want.NoImages || got.NoSandbox != want.NoSandbox {
		t.Errorf("loadEnvConfig() = %+v, want %+v", got, want)
	}
	if len(got.invalid) != 0 {
		t.Errorf("invalid = %v, want none", got.invalid)
	}
}

func TestLoadEnvConfig_InvalidValues(t *testing.T) {
	t.Setenv("MDTHEME_TIMEOUT", "-5s")
	t.Setenv("MDTHEME_NO_IMAGES", "maybe")

	got := loadEnvConfig()
	if got.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0 for a negative value", got.Timeout)
	}
	if got.NoImages {
		t.Error("NoImages = true, want false for an unparsable value")
	}
	if strings.Join(got.invalid, ",") != "MDTHEME_TIMEOUT,MDTHEME_NO_IMAGES" {
		t.Errorf("invalid = %v", got.invalid)
	}
}

// ---------------------------------------------------------------------------
// TestWarnEnv - Typo detection
// ---------------------------------------------------------------------------

func TestWarnEnv(t *testing.T) {
	t.Setenv("MDTHEME_ENGNE", "rod")
	t.Setenv("MDTHEME_ENGINE", "rod")
	t.Setenv("MDTHEME_TIMEOUT", "soon")

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	warnEnv(logger, loadEnvConfig())

	out := buf.String()
	if !strings.Contains(out, "MDTHEME_ENGNE") {
		t.Errorf("no warning for the typo: %q", out)
	}
	if strings.Contains(out, "variable=MDTHEME_ENGINE\n") {
		t.Errorf("warned about a known variable: %q", out)
	}
	if !strings.Contains(out, "ignoring invalid value") || !strings.Contains(out, "MDTHEME_TIMEOUT") {
		t.Errorf("no warning for the invalid timeout: %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Precedence
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	env := &envConfig{
		Engine:     "wkhtmltopdf",
		Timeout:    time.Minute,
		PageSize:   "legal",
		Margin:     "5mm",
		Template:   "env-template",
		CodeStyle:  "dracula",
		BrowserBin: "/env/chrome",
		NoImages:   true,
		NoSandbox:  true,
	}

	t.Run("fills empty fields", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(env, cfg)

		if cfg.PDF.Engine != "wkhtmltopdf" || cfg.PDF.Timeout != "1m0s" || cfg.PDF.BrowserBin != "/env/chrome" {
			t.Errorf("PDF = %+v", cfg.PDF)
		}
		if cfg.Page.Size != "legal" || cfg.Page.Margin != "5mm" {
			t.Errorf("Page = %+v", cfg.Page)
		}
		if cfg.HTML.Template != "env-template" || cfg.HTML.CodeStyle != "dracula" {
			t.Errorf("HTML = %+v", cfg.HTML)
		}
		if !cfg.Images.Skip || !cfg.PDF.NoSandbox {
			t.Error("boolean overrides not applied")
		}
	})

	t.Run("config file wins", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.PDF.Engine = "rod"
		cfg.Page.Size = "A3"
		cfg.HTML.CodeStyle = "monokai"
		applyEnvConfig(env, cfg)

		if cfg.PDF.Engine != "rod" || cfg.Page.Size != "A3" || cfg.HTML.CodeStyle != "monokai" {
			t.Errorf("env overrode the config file: %+v %+v %+v", cfg.PDF, cfg.Page, cfg.HTML)
		}
	})
}

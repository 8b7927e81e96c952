package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-mdtheme/internal/config"
)

const envPrefix = "MDTHEME_"

// envConfig holds overrides read from MDTHEME_* variables.
type envConfig struct {
	ConfigPath string        // MDTHEME_CONFIG
	Engine     string        // MDTHEME_ENGINE
	Timeout    time.Duration // MDTHEME_TIMEOUT
	PageSize   string        // MDTHEME_PAGE_SIZE
	Margin     string        // MDTHEME_MARGIN
	Template   string        // MDTHEME_TEMPLATE
	CodeStyle  string        // MDTHEME_CODE_STYLE
	BrowserBin string        // MDTHEME_BROWSER_BIN
	NoImages   bool          // MDTHEME_NO_IMAGES
	NoSandbox  bool          // MDTHEME_NO_SANDBOX

	// invalid lists variables whose value could not be parsed.
	invalid []string
}

var knownEnvVars = map[string]bool{
	"MDTHEME_CONFIG":      true,
	"MDTHEME_ENGINE":      true,
	"MDTHEME_TIMEOUT":     true,
	"MDTHEME_PAGE_SIZE":   true,
	"MDTHEME_MARGIN":      true,
	"MDTHEME_TEMPLATE":    true,
	"MDTHEME_CODE_STYLE":  true,
	"MDTHEME_BROWSER_BIN": true,
	"MDTHEME_NO_IMAGES":   true,
	"MDTHEME_NO_SANDBOX":  true,
}

// loadEnvConfig reads the MDTHEME_* variables. Unparsable timeouts and
// booleans are recorded in invalid and otherwise ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDTHEME_CONFIG"),
		Engine:     os.Getenv("MDTHEME_ENGINE"),
		PageSize:   os.Getenv("MDTHEME_PAGE_SIZE"),
		Margin:     os.Getenv("MDTHEME_MARGIN"),
		Template:   os.Getenv("MDTHEME_TEMPLATE"),
		CodeStyle:  os.Getenv("MDTHEME_CODE_STYLE"),
		BrowserBin: os.Getenv("MDTHEME_BROWSER_BIN"),
	}

	if v := os.Getenv("MDTHEME_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		} else {
			cfg.invalid = append(cfg.invalid, "MDTHEME_TIMEOUT")
		}
	}
	cfg.NoImages = cfg.parseBool("MDTHEME_NO_IMAGES")
	cfg.NoSandbox = cfg.parseBool("MDTHEME_NO_SANDBOX")

	return cfg
}

func (e *envConfig) parseBool(name string) bool {
	v := os.Getenv(name)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.invalid = append(e.invalid, name)
		return false
	}
	return b
}

// warnEnv logs unknown MDTHEME_* variables (likely typos) and values
// that were ignored.
func warnEnv(logger logrus.FieldLogger, env *envConfig) {
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			logger.WithField("variable", name).Warn("unknown environment variable (typo?)")
		}
	}
	for _, name := range env.invalid {
		logger.WithField("variable", name).Warn("ignoring invalid value")
	}
}

// applyEnvConfig copies env values into cfg where the file left them empty.
// Flags are merged afterwards, giving flags > env > file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Engine != "" && cfg.PDF.Engine == "" {
		cfg.PDF.Engine = env.Engine
	}
	if env.Timeout > 0 && cfg.PDF.Timeout == "" {
		cfg.PDF.Timeout = env.Timeout.String()
	}
	if env.BrowserBin != "" && cfg.PDF.BrowserBin == "" {
		cfg.PDF.BrowserBin = env.BrowserBin
	}
	if env.NoSandbox {
		cfg.PDF.NoSandbox = true
	}

	if env.PageSize != "" && cfg.Page.Size == "" {
		cfg.Page.Size = env.PageSize
	}
	if env.Margin != "" && cfg.Page.Margin == "" {
		cfg.Page.Margin = env.Margin
	}

	if env.Template != "" && cfg.HTML.Template == "" {
		cfg.HTML.Template = env.Template
	}
	if env.CodeStyle != "" && cfg.HTML.CodeStyle == "" {
		cfg.HTML.CodeStyle = env.CodeStyle
	}

	if env.NoImages {
		cfg.Images.Skip = true
	}
}

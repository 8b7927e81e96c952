// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mdtheme/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// IsInCI reports whether a known CI environment variable is set.
func IsInCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForBrowserConnect returns hints for browser launch and connection errors.
// Detects CI/Docker environment and suggests the relevant flags.
func ForBrowserConnect() string {
	var hints []string

	if (IsInCI() || IsInContainer()) && os.Getenv("MDTHEME_NO_SANDBOX") == "" {
		hints = append(hints, "use --no-sandbox (or MDTHEME_NO_SANDBOX=1) for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" && os.Getenv("MDTHEME_BROWSER_BIN") == "" {
		hints = append(hints, "use --browser-bin to point at Chrome, or --download-browser")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-mdtheme") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForAvailable lists valid choices for an unknown name (style, engine...).
func ForAvailable(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForRendererMissing returns install instructions for a PDF engine on the
// given operating system (runtime.GOOS values).
func ForRendererMissing(engine, goos string) string {
	switch engine {
	case "wkhtmltopdf":
		switch goos {
		case "linux":
			return format("on Ubuntu/Debian: sudo apt-get install wkhtmltopdf")
		case "darwin":
			return format("on macOS: brew install wkhtmltopdf")
		default:
			return format("download from https://wkhtmltopdf.org/downloads.html")
		}
	default:
		var hints []string
		switch goos {
		case "linux":
			hints = append(hints, "on Ubuntu/Debian: sudo apt-get install chromium")
		case "darwin":
			hints = append(hints, "on macOS: brew install --cask google-chrome")
		default:
			hints = append(hints, "download Chrome from https://www.google.com/chrome/")
		}
		if engine == "rod" {
			hints = append(hints, "or rerun with --download-browser")
		}
		return formatHints(hints)
	}
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

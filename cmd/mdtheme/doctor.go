package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-mdtheme"
	"github.com/alnah/go-mdtheme/internal/assets"
	"github.com/alnah/go-mdtheme/internal/fileutil"
	"github.com/alnah/go-mdtheme/internal/hints"
)

const doctorProbeTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Engines  []engineInfo `json:"engines"`
	Chrome   chromeInfo   `json:"chrome"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Assets   assetsInfo   `json:"assets"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// engineInfo reports whether one PDF engine can run.
type engineInfo struct {
	Name      string `json:"name"`
	Default   bool   `json:"default"`
	Available bool   `json:"available"`
	Problem   string `json:"problem,omitempty"`
}

type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"no_sandbox"`
	BrowserBin    string `json:"browser_bin"`
}

type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// assetsInfo reports whether the embedded template and stylesheet load.
type assetsInfo struct {
	Template bool `json:"template"`
	Style    bool `json:"style"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), doctorProbeTimeout)
	defer cancel()
	result := runDoctor(ctx)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor(ctx context.Context) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("MDTHEME_NO_SANDBOX"),
			BrowserBin: os.Getenv("MDTHEME_BROWSER_BIN"),
		},
	}

	checkEngines(ctx, result)
	checkChrome(result)
	checkEnvironment(result)
	checkSystem(result)
	checkAssets(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// checkEngines probes every engine. Only a missing default engine is an
// error; the others are reported for information.
func checkEngines(ctx context.Context, result *doctorResult) {
	for _, name := range mdtheme.Engines() {
		info := engineInfo{Name: name, Default: name == mdtheme.DefaultEngine}

		bin := result.Env.BrowserBin
		if name == mdtheme.EngineWkhtmltopdf {
			bin = ""
		}
		r, err := mdtheme.NewRenderer(name, mdtheme.RendererConfig{BrowserBin: bin})
		if err == nil {
			err = r.Probe(ctx)
			_ = r.Close()
		}
		if err != nil {
			info.Problem = firstLine(err.Error())
			if info.Default {
				result.Errors = append(result.Errors,
					fmt.Sprintf("default engine %s unavailable: %s", name, info.Problem))
			}
		} else {
			info.Available = true
		}
		result.Engines = append(result.Engines, info)
	}
}

// checkChrome reports the Chrome/Chromium used by the rod and chromedp engines.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		chromePath = os.Getenv("ROD_BROWSER_BIN")
	}
	if chromePath == "" {
		var found bool
		if chromePath, found = launcher.LookPath(); !found {
			return
		}
	}
	if !fileutil.FileExists(chromePath) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- path from user env or launcher lookup
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = !sandboxDisabled(result.Env.NoSandbox)
}

func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()
	result.Env.CI = hints.IsInCI() || os.Getenv("CIRCLECI") != ""

	if result.Env.Container || result.Env.CI {
		if !sandboxDisabled(result.Env.NoSandbox) {
			result.Warnings = append(result.Warnings,
				"Container/CI detected: the Chrome sandbox will be disabled automatically")
		}
	}
}

func sandboxDisabled(v string) bool {
	switch strings.ToLower(v) {
	case "1", "t", "true":
		return true
	}
	return false
}

// isContainer detects a container environment.
// Returns (isContainer, hint) where hint names the signal that matched.
func isContainer() (bool, string) {
	if os.Getenv("MDTHEME_CONTAINER") == "1" {
		return true, "MDTHEME_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory is writable.
func checkSystem(result *doctorResult) {
	_, cleanup, err := fileutil.WriteTempFile(os.TempDir(), "doctor", "html")
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
		return
	}
	cleanup()
	result.System.TempWritable = true
}

func checkAssets(result *doctorResult) {
	if _, err := assets.LoadTemplate(assets.DefaultTemplateName); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Embedded template unreadable: %v", err))
	} else {
		result.Assets.Template = true
	}
	if _, err := assets.LoadStyle(assets.PrintStyleName); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Embedded stylesheet unreadable: %v", err))
	} else {
		result.Assets.Style = true
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mdtheme doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PDF engines")
	for _, e := range r.Engines {
		label := e.Name
		if e.Default {
			label += " (default)"
		}
		switch {
		case e.Available:
			fmt.Fprintf(w, "  [OK] %s\n", label)
		case e.Default:
			fmt.Fprintf(w, "  [ERROR] %s: %s\n", label, e.Problem)
		default:
			fmt.Fprintf(w, "  [WARN] %s: %s\n", label, e.Problem)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (MDTHEME_NO_SANDBOX)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.Assets.Template && r.Assets.Style {
		fmt.Fprintln(w, "  [OK] Embedded assets: loaded")
	} else {
		fmt.Fprintln(w, "  [ERROR] Embedded assets: missing")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	default:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

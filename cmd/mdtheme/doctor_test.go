package main

// Notes:
// - Engine availability depends on the machine, so only the report shape
//   is asserted: every engine listed once, status consistent with errors.
// - Container detection tests set environment variables and cannot use
//   t.Parallel.

import (
	"bytes"
	"encoding/json"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-mdtheme"
)

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &stderr}

	code := runDoctorCmd([]string{"--json"}, env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout.String())
	}

	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("env = %+v", result.Env)
	}
	if len(result.Engines) != len(mdtheme.Engines()) {
		t.Fatalf("engines = %+v, want %d entries", result.Engines, len(mdtheme.Engines()))
	}
	for i, e := range result.Engines {
		if e.Name != mdtheme.Engines()[i] {
			t.Errorf("engine[%d] = %q", i, e.Name)
		}
		if e.Default != (e.Name == mdtheme.DefaultEngine) {
			t.Errorf("engine %s default = %v", e.Name, e.Default)
		}
		if !e.Available && e.Problem == "" {
			t.Errorf("engine %s unavailable without a problem", e.Name)
		}
		if strings.Contains(e.Problem, "\n") {
			t.Errorf("engine %s problem is multi-line: %q", e.Name, e.Problem)
		}
	}
	if !result.System.TempWritable {
		t.Error("temp directory reported not writable")
	}
	if !result.Assets.Template || !result.Assets.Style {
		t.Errorf("assets = %+v, want embedded assets loaded", result.Assets)
	}

	switch result.Status {
	case "errors":
		if code != ExitGeneral || len(result.Errors) == 0 {
			t.Errorf("status errors with code %d and errors %v", code, result.Errors)
		}
	case "ready", "warnings":
		if code != ExitSuccess {
			t.Errorf("status %s with code %d", result.Status, code)
		}
	default:
		t.Errorf("status = %q", result.Status)
	}
}

func TestRunDoctorCmd_HumanOutput(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}
	runDoctorCmd(nil, env)

	for _, want := range []string{"mdtheme doctor", "PDF engines", "rod (default)", "Environment", "System", "Status:"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestIsContainer_Override(t *testing.T) {
	t.Setenv("MDTHEME_CONTAINER", "1")

	got, hint := isContainer()
	if !got || hint != "MDTHEME_CONTAINER=1" {
		t.Errorf("isContainer() = %v, %q", got, hint)
	}
}

func TestIsContainer_Kubernetes(t *testing.T) {
	t.Setenv("MDTHEME_CONTAINER", "")
	t.Setenv("container", "")
	t.Setenv("KUBERNETES_SERVICE_HOST", "10.0.0.1")

	got, hint := isContainer()
	if !got {
		t.Fatal("isContainer() = false with KUBERNETES_SERVICE_HOST set")
	}
	if hint != "KUBERNETES_SERVICE_HOST" && hint != "/.dockerenv" {
		t.Errorf("hint = %q", hint)
	}
}

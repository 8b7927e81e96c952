package process

// Notes:
// - KillProcessGroup: only invalid PIDs are tested. Real kills are exercised
//   by the wkhtmltopdf renderer cancellation path.
// - Cannot test with PID 0 or real PIDs: that would signal the test runner.

import (
	"os/exec"
	"testing"
)

// ---------------------------------------------------------------------------
// TestKillProcessGroup - Invalid PID Handling
// ---------------------------------------------------------------------------

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
	KillProcessGroup(0)
	KillProcessGroup(-1)
}

// ---------------------------------------------------------------------------
// TestSetProcessGroup - SysProcAttr setup
// ---------------------------------------------------------------------------

func TestSetProcessGroup(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("true")
	SetProcessGroup(cmd)
	if cmd.SysProcAttr == nil {
		t.Fatal("SetProcessGroup() left SysProcAttr nil")
	}

	// Calling twice keeps the existing attributes.
	attr := cmd.SysProcAttr
	SetProcessGroup(cmd)
	if cmd.SysProcAttr != attr {
		t.Error("SetProcessGroup() replaced an existing SysProcAttr")
	}
}

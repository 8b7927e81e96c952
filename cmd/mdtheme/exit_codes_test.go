package main

// Notes:
// - exitCodeFor: each sentinel is checked bare and wrapped, so the errors.Is
//   chain is exercised.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/alnah/go-mdtheme"
	"github.com/alnah/go-mdtheme/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},
		{"unknown error", errors.New("boom"), ExitGeneral},
		{"cancelled", fmt.Errorf("%w: %w", mdtheme.ErrPageLoad, context.Canceled), ExitGeneral},

		// Renderer (exit 4)
		{"renderer unavailable", mdtheme.ErrRendererUnavailable, ExitRenderer},
		{"browser connect", mdtheme.ErrBrowserConnect, ExitRenderer},
		{"page load", mdtheme.ErrPageLoad, ExitRenderer},
		{"page load timeout", fmt.Errorf("%w: %w", mdtheme.ErrPageLoad, context.DeadlineExceeded), ExitRenderer},
		{"pdf generation", fmt.Errorf("render: %w", mdtheme.ErrPDFGeneration), ExitRenderer},

		// I/O (exit 3)
		{"read input", fmt.Errorf("%w: %w", mdtheme.ErrReadInput, os.ErrNotExist), ExitIO},
		{"write output", mdtheme.ErrWriteOutput, ExitIO},
		{"image copy", mdtheme.ErrImageCopy, ExitIO},
		{"permission", os.ErrPermission, ExitIO},

		// Usage (exit 2)
		{"usage", errUsage, ExitUsage},
		{"missing input", mdtheme.ErrMissingInput, ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid timeout", config.ErrInvalidTimeout, ExitUsage},
		{"unknown engine", mdtheme.ErrUnknownEngine, ExitUsage},
		{"unknown code style", mdtheme.ErrUnknownCodeStyle, ExitUsage},
		{"unknown parser", mdtheme.ErrUnknownParser, ExitUsage},
		{"invalid color", fmt.Errorf("theme: %w", mdtheme.ErrInvalidColor), ExitUsage},
		{"invalid page size", mdtheme.ErrInvalidPageSize, ExitUsage},
		{"invalid margin", mdtheme.ErrInvalidMargin, ExitUsage},
		{"invalid asset path", mdtheme.ErrInvalidAssetPath, ExitUsage},
		{"style not found", mdtheme.ErrStyleNotFound, ExitUsage},
		{"template not found", mdtheme.ErrTemplateNotFound, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_Values(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 || ExitIO != 3 || ExitRenderer != 4 {
		t.Error("exit code values changed")
	}
}

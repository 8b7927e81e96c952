package main

import (
	"context"
	"errors"
	"os"

	"github.com/alnah/go-mdtheme"
	"github.com/alnah/go-mdtheme/internal/config"
)

// Exit codes. 0, 1 and 2 follow Unix conventions; custom codes stay below 126.
const (
	ExitSuccess  = 0 // conversion done
	ExitGeneral  = 1 // unexpected error
	ExitUsage    = 2 // invalid flags, config or values
	ExitIO       = 3 // input missing, output or image not writable
	ExitRenderer = 4 // PDF engine missing or failed
)

// errUsage marks command line mistakes (missing input, bad flags).
var errUsage = errors.New("invalid usage")

// exitCodeFor maps an error chain to an exit code with errors.Is.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Cancellation surfaces through renderer errors too; report it as general.
	if errors.Is(err, context.Canceled) {
		return ExitGeneral
	}

	if errors.Is(err, mdtheme.ErrRendererUnavailable) ||
		errors.Is(err, mdtheme.ErrBrowserConnect) ||
		errors.Is(err, mdtheme.ErrPageLoad) ||
		errors.Is(err, mdtheme.ErrPDFGeneration) {
		return ExitRenderer
	}

	if errors.Is(err, mdtheme.ErrReadInput) ||
		errors.Is(err, mdtheme.ErrWriteOutput) ||
		errors.Is(err, mdtheme.ErrImageCopy) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	if errors.Is(err, errUsage) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidTimeout) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, mdtheme.ErrMissingInput) ||
		errors.Is(err, mdtheme.ErrUnknownCommand) ||
		errors.Is(err, mdtheme.ErrUnknownEngine) ||
		errors.Is(err, mdtheme.ErrUnknownCodeStyle) ||
		errors.Is(err, mdtheme.ErrUnknownParser) ||
		errors.Is(err, mdtheme.ErrInvalidColor) ||
		errors.Is(err, mdtheme.ErrInvalidPageSize) ||
		errors.Is(err, mdtheme.ErrInvalidMargin) ||
		errors.Is(err, mdtheme.ErrInvalidAssetPath) ||
		errors.Is(err, mdtheme.ErrStyleNotFound) ||
		errors.Is(err, mdtheme.ErrTemplateNotFound) ||
		errors.Is(err, mdtheme.ErrTemplateParse) {
		return ExitUsage
	}

	return ExitGeneral
}

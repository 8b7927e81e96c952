package mdtheme

import (
	"errors"

	"github.com/alnah/go-mdtheme/internal/assets"
	"github.com/alnah/go-mdtheme/internal/htmltree"
	"github.com/alnah/go-mdtheme/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrMissingInput   = errors.New("no input file given")
	ErrReadInput      = errors.New("failed to read input")
	ErrWriteOutput    = errors.New("failed to write output")
	ErrUnknownCommand = errors.New("unknown command")

	// Rendering errors.
	ErrPDFGeneration       = errors.New("PDF generation failed")
	ErrBrowserConnect      = errors.New("failed to connect to browser")
	ErrPageLoad            = errors.New("failed to load page")
	ErrRendererUnavailable = errors.New("PDF renderer not available")
	ErrUnknownEngine       = errors.New("unknown PDF engine")

	// Styling validation errors.
	ErrInvalidColor    = errors.New("invalid color")
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrInvalidMargin   = errors.New("invalid margin")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// Errors raised by internal stages, re-exported so callers can match them
// with errors.Is without importing internal packages.
var (
	ErrHTMLConversion   = pipeline.ErrHTMLConversion
	ErrUnknownCodeStyle = pipeline.ErrUnknownCodeStyle
	ErrImageCopy        = pipeline.ErrImageCopy
	ErrTemplateParse    = pipeline.ErrTemplateParse
	ErrTemplateRender   = pipeline.ErrTemplateRender
	ErrUnknownParser    = htmltree.ErrUnknownParser
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrTemplateNotFound = assets.ErrTemplateNotFound
)

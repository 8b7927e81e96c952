package assets

import "errors"

// Lookup failures. AssetResolver falls back to the built-in assets on these.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
)

// ErrInvalidAssetName rejects names that are not bare identifiers.
var ErrInvalidAssetName = errors.New("invalid asset name")

// Custom asset directory failures.
var (
	ErrInvalidBasePath = errors.New("invalid asset directory")
	ErrAssetRead       = errors.New("reading asset")
	// ErrPathTraversal means a symlink under the asset directory resolves
	// outside of it.
	ErrPathTraversal = errors.New("asset escapes the asset directory")
)

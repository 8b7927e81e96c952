package assets

import (
	"errors"
	"fmt"
	"os"

	"github.com/alnah/go-mdtheme/internal/fileutil"
)

// AssetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the asset is not found in the custom location.
type AssetResolver struct {
	custom   AssetLoader // nil if no custom path configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded assets are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadStyle loads a CSS style, trying custom loader first if available.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadStyle(name)
	})
}

// LoadTemplate loads a page skeleton, trying custom loader first if available.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadTemplate(name)
	})
}

// ResolveStyle accepts a style name or a path to a .css file.
// An empty value returns an empty stylesheet.
func (r *AssetResolver) ResolveStyle(nameOrPath string) (string, error) {
	if nameOrPath == "" {
		return "", nil
	}
	if fileutil.IsFilePath(nameOrPath) {
		return readAssetFile(nameOrPath, ErrStyleNotFound)
	}
	return r.LoadStyle(nameOrPath)
}

// ResolveTemplate accepts a template name or a path to an .html file.
// An empty value selects DefaultTemplateName.
func (r *AssetResolver) ResolveTemplate(nameOrPath string) (string, error) {
	if nameOrPath == "" {
		nameOrPath = DefaultTemplateName
	}
	if fileutil.IsFilePath(nameOrPath) {
		return readAssetFile(nameOrPath, ErrTemplateNotFound)
	}
	return r.LoadTemplate(nameOrPath)
}

// loadWithFallback implements the custom-first, fallback-to-embedded logic.
func (r *AssetResolver) loadWithFallback(loadFn func(AssetLoader) (string, error)) (string, error) {
	if r.custom == nil {
		return loadFn(r.embedded)
	}

	content, err := loadFn(r.custom)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !isNotFoundError(err) {
		return "", err
	}

	return loadFn(r.embedded)
}

// readAssetFile reads an explicit asset path given on the command line.
func readAssetFile(path string, notFound error) (string, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", notFound, path)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

// isNotFoundError checks if the error indicates the asset was not found.
func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}

// HasCustomLoader returns true if a custom asset loader is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)

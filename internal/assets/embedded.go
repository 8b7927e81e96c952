package assets

import (
	"embed"
	"fmt"
)

// Built-in skeletons and stylesheets shipped inside the binary.
//
//go:embed styles/*.css templates/*.html
var builtin embed.FS

// EmbeddedLoader serves the built-in github-dark skeleton and print.css.
type EmbeddedLoader struct {
	fs embed.FS
}

func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{fs: builtin}
}

func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.read(name, "styles", ".css", ErrStyleNotFound)
}

func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.read(name, "templates", ".html", ErrTemplateNotFound)
}

// read validates name and returns dir/name+ext from the embedded tree.
// Any read failure is reported as notFound: the tree is fixed at build time.
func (e *EmbeddedLoader) read(name, dir, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	data, err := e.fs.ReadFile(dir + "/" + name + ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q (built-in)", notFound, name)
	}
	return string(data), nil
}

var _ AssetLoader = (*EmbeddedLoader)(nil)

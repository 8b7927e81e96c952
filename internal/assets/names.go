package assets

import (
	"fmt"
	"strings"
)

// DefaultTemplateName is the name of the built-in page skeleton.
const DefaultTemplateName = "github-dark"

// PrintStyleName is the built-in stylesheet with page-break rules.
const PrintStyleName = "print"

// ValidateAssetName accepts bare names only: "github-dark", not
// "github-dark.html" or "../github-dark". The loaders append the extension.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidAssetName)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidAssetName, name)
	case strings.Contains(name, "."):
		return fmt.Errorf("%w: %q contains a dot", ErrInvalidAssetName, name)
	}
	return nil
}

// Package assets provides the HTML page skeletons and CSS styles used to
// theme converted documents.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the converter. It tries the custom
// FilesystemLoader first and falls back to EmbeddedLoader when the asset is
// not found, so a user can override the page skeleton alone. It also accepts
// plain file paths in place of names.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css           # extra stylesheets (e.g., print.css)
//	└── templates/
//	    └── {name}.html          # page skeletons (e.g., github-dark.html)
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets

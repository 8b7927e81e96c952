// Package mdtheme converts Markdown documents to dark-themed HTML and PDF.
//
// # Quick Start
//
// Create a converter, run a conversion, and close when done:
//
//	conv, err := mdtheme.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.MarkdownToPDF(ctx, mdtheme.Job{
//	    InputPath:  "notes.md",
//	    OutputPath: "out/notes.pdf",
//	})
//
// Local images referenced by the document (img src such as ./img/pic.png)
// are copied under the output directory, mirroring their relative path, and
// the references are rewritten. Set Job.NoImages to keep the HTML as is.
//
// # Conversion Pipeline
//
//  1. Source normalization (BOM, line endings) and YAML front matter
//  2. Markdown to HTML via Goldmark (GFM, footnotes, chroma highlighting)
//  3. Theme templating: six colors substituted into the page skeleton
//  4. Image relocation
//  5. PDF rendering from a temporary HTML file (rod, chromedp or wkhtmltopdf)
//
// # Configuration
//
// Converter-wide settings use functional options:
//
//	conv, err := mdtheme.NewConverter(
//	    mdtheme.WithEngine(mdtheme.EngineChromedp),
//	    mdtheme.WithTimeout(time.Minute),
//	    mdtheme.WithCodeStyle("dracula"),
//	    mdtheme.WithStyle("print"),
//	)
//
// Per-document settings travel in Job:
//
//	conv.MarkdownToHTML(ctx, mdtheme.Job{
//	    InputPath: "README.md",
//	    Theme:     mdtheme.Theme{Background: "#000000"},
//	})
//
// # Custom Assets
//
// WithAssetPath adds a directory searched before the embedded assets:
//
//	assets/
//	├── styles/
//	│   └── custom.css
//	└── templates/
//	    └── custom.html
//
// Templates are text/template documents receiving .Background, .Text,
// .Heading, .Link, .CodeBackground, .Border, .Title, .HighlightCSS,
// .ExtraCSS and .Body.
package mdtheme

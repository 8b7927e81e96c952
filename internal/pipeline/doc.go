// Package pipeline implements the Markdown-to-themed-HTML pipeline.
//
// Stages, in the order the converter runs them:
//   - Markdown normalization (line endings, blank line runs)
//   - Front matter extraction
//   - Markdown to HTML conversion via Goldmark, with chroma highlighting
//   - Theme templating (six colors substituted into the page skeleton)
//   - Image relocation (local img sources copied next to the output)
//
// PDF generation is handled separately by the root mdtheme package. This
// package never launches a browser and only touches the filesystem during
// image relocation.
package pipeline

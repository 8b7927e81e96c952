package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-mdtheme/internal/fileutil"
	"github.com/alnah/go-mdtheme/internal/htmltree"
)

// ErrImageCopy indicates a referenced image exists but could not be copied.
var ErrImageCopy = errors.New("image copy failed")

// schemePattern matches URL schemes such as http:, file: or data:.
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)

// RelocateOptions configures one relocation pass.
type RelocateOptions struct {
	// SourceDir is the directory of the source document. Relative img
	// sources resolve against it.
	SourceDir string
	// OutputDir receives the copied images, mirroring their relative paths.
	OutputDir string
	// Skip returns the HTML unchanged without touching the filesystem.
	Skip bool
}

// RelocatedImage records one reference that resolved to a local file.
type RelocatedImage struct {
	Reference   string // rewritten src value
	Source      string // absolute path read
	Destination string // absolute path written
	Copied      bool   // false when source and destination are the same file
}

// Relocator copies local images referenced by img elements next to the
// output and rewrites their src to the normalized relative path.
//
// Rewrites only img[src]. Does NOT touch:
//   - URLs (any scheme), protocol-relative and fragment-only references
//   - absolute paths (already resolvable from anywhere)
//   - references escaping the source directory (left as-is, logged)
//   - references to files that do not exist (broken links pass through)
type Relocator struct {
	parser htmltree.Parser
	logger logrus.FieldLogger
}

// NewRelocator creates a Relocator. A nil parser selects the default
// backend; a nil logger discards.
func NewRelocator(parser htmltree.Parser, logger logrus.FieldLogger) *Relocator {
	if parser == nil {
		parser = htmltree.NetParser{}
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Relocator{parser: parser, logger: logger}
}

// Relocate processes every img element of htmlContent in document order.
// When nothing is rewritten the input is returned verbatim.
func (r *Relocator) Relocate(ctx context.Context, htmlContent string, opts RelocateOptions) (string, []RelocatedImage, error) {
	if opts.Skip {
		return htmlContent, nil, nil
	}
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	sourceDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return "", nil, err
	}
	outputDir, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return "", nil, err
	}
	if err := os.MkdirAll(outputDir, fileutil.DirPermissions); err != nil {
		return "", nil, fmt.Errorf("%w: creating output directory: %v", ErrImageCopy, err)
	}

	doc, err := r.parser.Parse(htmlContent)
	if err != nil {
		return "", nil, err
	}

	var (
		images    []RelocatedImage
		rewritten bool
	)
	for _, img := range doc.FindAll("img") {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}

		src, ok := img.Attr("src")
		if !ok || src == "" {
			continue
		}

		image, err := r.relocateOne(src, sourceDir, outputDir)
		if err != nil {
			return "", nil, err
		}
		if image == nil {
			continue
		}
		images = append(images, *image)

		if image.Reference != src {
			img.SetAttr("src", image.Reference)
			rewritten = true
		}
	}

	if !rewritten {
		return htmlContent, images, nil
	}

	out, err := doc.Render()
	if err != nil {
		return "", nil, err
	}
	return out, images, nil
}

// relocateOne handles a single src value. A nil image means the reference
// is left untouched.
func (r *Relocator) relocateOne(src, sourceDir, outputDir string) (*RelocatedImage, error) {
	ref, suffix := splitSuffix(src)
	if !isLocalReference(ref) {
		return nil, nil
	}

	normalized := path.Clean(filepath.ToSlash(ref))
	// Containment is checked on the decoded path so escaped dot segments
	// (%2e%2e) cannot climb out.
	decoded := normalized
	if unescaped, err := url.PathUnescape(filepath.ToSlash(ref)); err == nil {
		decoded = path.Clean(unescaped)
	}
	if normalized == "." || decoded == "." {
		return nil, nil
	}
	if escapesRoot(normalized) || escapesRoot(decoded) {
		r.logger.WithField("src", src).Warn("image outside the source directory left unchanged")
		return nil, nil
	}

	srcPath := filepath.Join(sourceDir, filepath.FromSlash(decoded))
	info, err := os.Stat(srcPath)
	if err != nil {
		if isMissing(err) {
			r.logger.WithField("src", src).Debug("image not found, reference kept")
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrImageCopy, err)
	}
	if info.IsDir() {
		return nil, nil
	}

	dstPath := filepath.Join(outputDir, filepath.FromSlash(decoded))
	if !within(outputDir, dstPath) {
		r.logger.WithFields(logrus.Fields{"src": src, "dst": dstPath}).Warn("image destination outside the output directory left unchanged")
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), fileutil.DirPermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageCopy, err)
	}
	copied, err := fileutil.CopyFile(srcPath, dstPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageCopy, src, err)
	}

	r.logger.WithFields(logrus.Fields{
		"src":    srcPath,
		"dst":    dstPath,
		"copied": copied,
	}).Debug("image relocated")

	// Escaped dot segments collapse in decoded; re-escape it so the
	// reference matches the destination.
	reference := normalized
	if unescaped, err := url.PathUnescape(normalized); err == nil && unescaped != decoded {
		reference = (&url.URL{Path: decoded}).EscapedPath()
	}

	return &RelocatedImage{
		Reference:   reference + suffix,
		Source:      srcPath,
		Destination: dstPath,
		Copied:      copied,
	}, nil
}

// escapesRoot reports whether a cleaned slash path climbs above its root or
// is absolute.
func escapesRoot(p string) bool {
	return p == ".." || strings.HasPrefix(p, "../") || path.IsAbs(p)
}

// within reports whether target lies strictly beneath dir.
func within(dir, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(target))
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// splitSuffix separates a trailing ?query or #fragment from a reference.
func splitSuffix(src string) (ref, suffix string) {
	if idx := strings.IndexAny(src, "?#"); idx != -1 {
		return src[:idx], src[idx:]
	}
	return src, ""
}

// isLocalReference returns true if ref is a relative filesystem path.
func isLocalReference(ref string) bool {
	if ref == "" {
		return false
	}

	// Protocol-relative URLs and rooted paths
	if strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, `\`) {
		return false
	}

	if filepath.IsAbs(ref) {
		return false
	}

	// http:, https:, file:, data:, mailto: and friends
	if schemePattern.MatchString(ref) {
		return false
	}

	return true
}

// isMissing reports whether a stat error means the file is not there.
// ENOTDIR covers a path component that is a regular file.
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

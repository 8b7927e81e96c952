// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrNotRegularFile         = errors.New("not a regular file")
)

// Permissions used for files and directories created on behalf of the user.
const (
	DirPermissions  = 0o750 // rwxr-x---
	FilePermissions = 0o644 // rw-r--r--
)

// tempPrefix names temporary files so leftovers are recognizable.
const tempPrefix = ".mdtheme-"

// WriteTempFile creates a uniquely named temporary file inside dir with the
// given content and extension. An empty dir means os.TempDir().
// Returns the file path and a cleanup function that removes the file.
func WriteTempFile(dir, content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp(dir, tempPrefix+"*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "github-dark" -> false (name)
//   - "./custom.css" -> true (relative path)
//   - "/absolute/theme.html" -> true (absolute)
//   - "sub/dir" -> true (contains separator)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// CopyFile copies src to dst, overwriting dst, and carries over the source
// permission bits and modification time. When src and dst are the same file
// nothing is written and copied is false.
func CopyFile(src, dst string) (copied bool, err error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	if !srcInfo.Mode().IsRegular() {
		return false, fmt.Errorf("%w: %s", ErrNotRegularFile, src)
	}

	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return false, nil
	}

	in, err := os.Open(src) // #nosec G304 -- path resolved by caller
	if err != nil {
		return false, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm()) // #nosec G304 -- path resolved by caller
	if err != nil {
		return false, err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return false, fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return false, err
	}

	// O_TRUNC keeps the old mode of an existing file
	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return false, err
	}
	mtime := srcInfo.ModTime()
	if err := os.Chtimes(dst, mtime, mtime); err != nil {
		return false, err
	}

	return true, nil
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, DirPermissions)
}

// Package scan implements the directory-scanning contract component C8
// describes: a Scanner interface external callers can satisfy, plus a
// concrete local filesystem implementation.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pinelint/internal/logging"
)

// MaxFileBytes caps how much of a single file LocalScanner will read.
const MaxFileBytes = 1 << 20 // 1 MiB

// FileItem is one discovered source file. Err is set when the file matched
// the scan but could not be read (permission denied, vanished between walk
// and read, etc); Bytes is nil in that case.
type FileItem struct {
	Path  string
	Bytes []byte
	Err   error
}

// Scanner discovers reviewable files under a root. Implementations other
// than LocalScanner (e.g. an in-memory or remote-backed scanner) satisfy
// this to feed internal/dispatch's code_review tool.
type Scanner interface {
	Scan(root string) ([]FileItem, error)
}

// LocalScanner walks a local directory tree.
type LocalScanner struct {
	Extensions []string
	Recursive  bool
}

// NewLocalScanner builds a scanner filtering on the given extensions
// (e.g. ".pine"); Recursive defaults to true.
func NewLocalScanner(extensions []string) *LocalScanner {
	return &LocalScanner{Extensions: extensions, Recursive: true}
}

// Scan canonicalizes root and walks it, refusing symlinks, capping each
// file at MaxFileBytes, filtering by extension, and returning results in
// lexicographic path order (spec.md §4.8).
func (s *LocalScanner) Scan(root string) ([]FileItem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("scan: resolve root: %w", err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("scan: canonicalize root: %w", err)
	}

	var paths []string
	walkErr := filepath.WalkDir(canonical, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			logging.ScanDebug("skipping symlink %s", path)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !s.Recursive && path != canonical {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.matchesExtension(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scan: walk %s: %w", canonical, walkErr)
	}
	sort.Strings(paths)

	items := make([]FileItem, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			logging.Scan("read error %s: %v", p, err)
			items = append(items, FileItem{Path: p, Err: err})
			continue
		}
		if info.Size() > MaxFileBytes {
			logging.Scan("skipping %s: %d bytes exceeds %d byte cap", p, info.Size(), MaxFileBytes)
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			logging.Scan("read error %s: %v", p, err)
			items = append(items, FileItem{Path: p, Err: err})
			continue
		}
		items = append(items, FileItem{Path: p, Bytes: data})
	}
	logging.Scan("scanned %s: %d files", canonical, len(items))
	return items, nil
}

func (s *LocalScanner) matchesExtension(path string) bool {
	if len(s.Extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, e := range s.Extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// WithinRoot reports whether path, once resolved, stays within root -
// used to reject code_review path arguments that escape the scan root
// (spec.md §6).
func WithinRoot(root, path string) (bool, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false, err
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}

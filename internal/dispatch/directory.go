package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"pinelint/internal/review"
	"pinelint/internal/scan"
)

// DirectoryResult is the code_review response shape for directory_path
// calls (spec.md §4.7).
type DirectoryResult struct {
	DirectoryPath string                `json:"directory_path"`
	Summary       DirectorySummary      `json:"summary"`
	Files         []DirectoryFileResult `json:"files"`
}

// DirectorySummary aggregates totals across every file that was
// successfully read and reviewed; files that failed to read are excluded.
type DirectorySummary struct {
	TotalFiles      int `json:"total_files"`
	TotalIssues     int `json:"total_issues"`
	FilesWithIssues int `json:"files_with_issues"`
}

// DirectoryFileResult is one file's entry in a directory review. Error is
// set instead of the embedded review.Result when the file could not be
// read.
type DirectoryFileResult struct {
	Path string `json:"path"`
	*review.Result
	Error string `json:"error,omitempty"`
}

// executeDirectoryReview implements spec.md §4.7's directory review mode:
// scan dirPath for matching files, review each independently, and
// aggregate summaries. Files that fail to read get an error-only entry
// and are excluded from the aggregate totals.
func (d *Dispatcher) executeDirectoryReview(ctx context.Context, dirPath string, opts review.Options, args map[string]any) (string, error) {
	resolved := dirPath
	if d.root != "" {
		resolved = d.root + "/" + dirPath
	}
	ok, err := scan.WithinRoot(d.root, resolved)
	if err != nil {
		return "", fmt.Errorf("dispatch: resolve directory_path: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("dispatch: directory_path %q escapes scan root", dirPath)
	}

	extensions := []string{".pine"}
	if raw, ok := args["file_extensions"].([]any); ok && len(raw) > 0 {
		var custom []string
		for _, e := range raw {
			if s, ok := e.(string); ok {
				custom = append(custom, s)
			}
		}
		if len(custom) > 0 {
			extensions = custom
		}
	}
	recursive := true
	if r, ok := args["recursive"].(bool); ok {
		recursive = r
	}

	scanner := scan.NewLocalScanner(extensions)
	scanner.Recursive = recursive
	items, err := scanner.Scan(resolved)
	if err != nil {
		return "", fmt.Errorf("dispatch: scan directory_path: %w", err)
	}

	result := DirectoryResult{DirectoryPath: dirPath, Files: make([]DirectoryFileResult, 0, len(items))}
	for _, item := range items {
		if item.Err != nil {
			result.Files = append(result.Files, DirectoryFileResult{Path: item.Path, Error: item.Err.Error()})
			continue
		}
		res := d.engine.Review(ctx, string(item.Bytes), opts)
		res.FilePath = item.Path
		result.Files = append(result.Files, DirectoryFileResult{Path: item.Path, Result: &res})

		result.Summary.TotalFiles++
		result.Summary.TotalIssues += res.Summary.TotalIssues
		if res.Summary.TotalIssues > 0 {
			result.Summary.FilesWithIssues++
		}
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("dispatch: marshal directory code_review result: %w", err)
	}
	return string(out), nil
}

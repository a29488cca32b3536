package dispatch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"pinelint/internal/docs"
	"pinelint/internal/refindex"
	"pinelint/internal/review"
)

func newTestDispatcher(t *testing.T, root string) *Dispatcher {
	t.Helper()
	idx := refindex.Build(docs.Default())
	return New(idx, review.NewEngine(), root)
}

func TestReferenceLookupTool(t *testing.T) {
	d := newTestDispatcher(t, "")
	result := d.Dispatch(context.Background(), "reference_lookup", map[string]any{"query": "ta.macd"})
	if !result.IsSuccess() {
		t.Fatalf("got error: %v", result.Error)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(result.Result), &out); err != nil {
		t.Fatalf("invalid JSON result: %v", err)
	}
}

func TestCodeReviewToolInlineSource(t *testing.T) {
	d := newTestDispatcher(t, "")
	result := d.Dispatch(context.Background(), "code_review", map[string]any{"source": `indicator("Test", precision=-1)`})
	if !result.IsSuccess() {
		t.Fatalf("got error: %v", result.Error)
	}
	var out review.Result
	if err := json.Unmarshal([]byte(result.Result), &out); err != nil {
		t.Fatalf("invalid JSON result: %v", err)
	}
	if out.Summary.TotalIssues == 0 {
		t.Error("expected at least one violation")
	}
}

func TestCodeReviewRejectsBothSourceAndPath(t *testing.T) {
	d := newTestDispatcher(t, "")
	result := d.Dispatch(context.Background(), "code_review", map[string]any{"source": "x", "path": "y.pine"})
	if result.IsSuccess() {
		t.Fatal("expected an error when both source and path are given")
	}
}

func TestCodeReviewRejectsNeitherSourceNorPath(t *testing.T) {
	d := newTestDispatcher(t, "")
	result := d.Dispatch(context.Background(), "code_review", map[string]any{})
	if result.IsSuccess() {
		t.Fatal("expected an error when neither source nor path is given")
	}
}

func TestCodeReviewByPath(t *testing.T) {
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, "a.pine"), []byte(`indicator("Test")`), 0644)
	d := newTestDispatcher(t, root)
	result := d.Dispatch(context.Background(), "code_review", map[string]any{"path": "a.pine"})
	if !result.IsSuccess() {
		t.Fatalf("got error: %v", result.Error)
	}
}

func TestCodeReviewStreamFormat(t *testing.T) {
	d := newTestDispatcher(t, "")
	result := d.Dispatch(context.Background(), "code_review", map[string]any{
		"source":     `indicator("Test", shorttitle="WayTooLong", precision=-1)`,
		"format":     "stream",
		"chunk_size": float64(1),
	})
	if !result.IsSuccess() {
		t.Fatalf("got error: %v", result.Error)
	}
	var chunks []map[string]any
	if err := json.Unmarshal([]byte(result.Result), &chunks); err != nil {
		t.Fatalf("invalid JSON array: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected at least a violation chunk and a terminal chunk, got %+v", chunks)
	}
	last := chunks[len(chunks)-1]
	if last["chunk_index"] != float64(-1) || last["done"] != true {
		t.Errorf("expected terminal chunk with chunk_index=-1 and done=true, got %+v", last)
	}
	if _, ok := last["summary"]; !ok {
		t.Error("expected summary on terminal chunk")
	}
}

func TestCodeReviewDirectoryAggregation(t *testing.T) {
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, "clean.pine"), []byte(`indicator("Clean")`), 0644)
	os.WriteFile(filepath.Join(root, "bad.pine"), []byte(`indicator("Test", precision=-1)`), 0644)
	d := newTestDispatcher(t, root)
	result := d.Dispatch(context.Background(), "code_review", map[string]any{"directory_path": "."})
	if !result.IsSuccess() {
		t.Fatalf("got error: %v", result.Error)
	}
	var out DirectoryResult
	if err := json.Unmarshal([]byte(result.Result), &out); err != nil {
		t.Fatalf("invalid JSON result: %v", err)
	}
	if out.Summary.TotalFiles != 2 {
		t.Errorf("got total_files=%d, want 2", out.Summary.TotalFiles)
	}
	if out.Summary.FilesWithIssues != 1 {
		t.Errorf("got files_with_issues=%d, want 1", out.Summary.FilesWithIssues)
	}
	if len(out.Files) != 2 {
		t.Errorf("got %d file entries, want 2", len(out.Files))
	}
}

func TestCodeReviewRejectsPathEscapingRoot(t *testing.T) {
	root := t.TempDir()
	d := newTestDispatcher(t, root)
	result := d.Dispatch(context.Background(), "code_review", map[string]any{"path": "../../etc/passwd"})
	if result.IsSuccess() {
		t.Fatal("expected path escaping root to be rejected")
	}
}

package review

import (
	"context"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestReviewFlagsMultipleViolations(t *testing.T) {
	src := `indicator("Test", shorttitle="WayTooLongXX", precision=-1)`
	e := NewEngine()
	res := e.Review(context.Background(), src, DefaultOptions())
	if res.Summary.TotalIssues < 2 {
		t.Fatalf("expected at least 2 violations, got %+v", res.Violations)
	}
}

func TestReviewCleanSourceHasNoViolations(t *testing.T) {
	src := `indicator("Clean Example", shorttitle="CLEAN", precision=2)`
	e := NewEngine()
	res := e.Review(context.Background(), src, DefaultOptions())
	if res.Summary.TotalIssues != 0 {
		t.Fatalf("expected no violations, got %+v", res.Violations)
	}
}

func TestReviewSeverityFilter(t *testing.T) {
	// severity_filter is a threshold (spec.md §4.5): filtering to "warning"
	// drops suggestions but still surfaces errors.
	src := `indicator("Test", shorttitle="WayTooLongXX")`
	e := NewEngine()
	opts := DefaultOptions()
	opts.Severity = "warning"
	res := e.Review(context.Background(), src, opts)
	for _, v := range res.Violations {
		if v.Severity == "suggestion" {
			t.Errorf("got suggestion severity with filter=warning: %+v", v)
		}
	}
	if res.Summary.SeverityFilter != "warning" {
		t.Errorf("summary.severity_filter = %q, want warning", res.Summary.SeverityFilter)
	}
	if res.Summary.Errors == 0 {
		t.Errorf("expected the shorttitle error to survive filter=warning, got %+v", res.Violations)
	}
}

func TestReviewReportsReviewedLines(t *testing.T) {
	src := "indicator(\"Test\")\nplot(close)\n"
	e := NewEngine()
	res := e.Review(context.Background(), src, DefaultOptions())
	if res.ReviewedLines != 3 {
		t.Errorf("got reviewed_lines=%d, want 3", res.ReviewedLines)
	}
}

func TestReviewSeverityFilterReportsFilteredCount(t *testing.T) {
	src := `indicator("Test", shorttitle="WayTooLong")`
	e := NewEngine()
	all := e.Review(context.Background(), src, DefaultOptions())

	opts := DefaultOptions()
	opts.Severity = "error"
	onlyErrors := e.Review(context.Background(), src, opts)

	if onlyErrors.Summary.FilteredCount != len(all.Violations)-len(onlyErrors.Violations) {
		t.Errorf("filtered_count=%d, want %d", onlyErrors.Summary.FilteredCount, len(all.Violations)-len(onlyErrors.Violations))
	}
	for _, v := range onlyErrors.Violations {
		if v.Severity != "error" {
			t.Errorf("got severity %s with filter=error", v.Severity)
		}
	}
}

func TestReviewEmptySource(t *testing.T) {
	e := NewEngine()
	res := e.Review(context.Background(), "", DefaultOptions())
	if res.Summary.TotalIssues != 0 {
		t.Fatalf("expected no violations on empty source, got %+v", res.Violations)
	}
}

func TestReviewSortedByPosition(t *testing.T) {
	src := "indicator(\"Test\", precision=-1)\nstrategy(\"Test2\", shorttitle=\"WayTooLongXX\")\n"
	e := NewEngine()
	res := e.Review(context.Background(), src, DefaultOptions())
	for i := 1; i < len(res.Violations); i++ {
		if res.Violations[i-1].Line > res.Violations[i].Line {
			t.Errorf("violations not sorted by line: %+v", res.Violations)
		}
	}
}

// Package review orchestrates the pipeline spec.md §4.5 describes:
// normalize, lex, parse, fan out validators, merge, dedupe, sort,
// summarize. This is component C5.
package review

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pinelint/internal/ast"
	"pinelint/internal/catalog"
	"pinelint/internal/lexer"
	"pinelint/internal/logging"
	"pinelint/internal/validate"
)

// Options configures one review call.
type Options struct {
	Severity        string // "all", "error", "warning", "suggestion" - a threshold, not an exact match
	Format          string // "json", "markdown", or "stream" (spec.md §4.5)
	ChunkSize       int    // violations per chunk when Format == "stream"
	WallClockBudget time.Duration
	ValidatorBudget time.Duration
}

// DefaultOptions mirrors config.DefaultConfig's review settings.
func DefaultOptions() Options {
	return Options{
		Severity:        "all",
		Format:          "json",
		ChunkSize:       20,
		WallClockBudget: 2 * time.Second,
		ValidatorBudget: 50 * time.Millisecond,
	}
}

// Summary aggregates counts by severity, per spec.md §6.
type Summary struct {
	TotalIssues    int    `json:"total_issues"`
	Errors         int    `json:"errors"`
	Warnings       int    `json:"warnings"`
	Suggestions    int    `json:"suggestions"`
	FilteredCount  int    `json:"filtered_count"`
	SeverityFilter string `json:"severity_filter"`
}

// Result is one review call's output.
type Result struct {
	Violations    []catalog.Diagnostic `json:"violations"`
	Summary       Summary              `json:"summary"`
	ReviewedLines int                  `json:"reviewed_lines"`
	Version       string               `json:"version,omitempty"`
	FilePath      string               `json:"file_path,omitempty"`
	TimedOut      bool                 `json:"-"`
}

// Engine runs reviews. It is stateless and safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Review runs the full pipeline over source text.
func (e *Engine) Review(ctx context.Context, source string, opts Options) Result {
	timer := logging.StartTimer(logging.CategoryReview, "review")
	defer timer.StopWithThreshold(opts.WallClockBudget)

	ctx, cancel := context.WithTimeout(ctx, nonZero(opts.WallClockBudget, 2*time.Second))
	defer cancel()

	lexResult := lexer.Lex(source)
	logging.ReviewDebug("lexed %d tokens, %d lexical diagnostics", len(lexResult.Tokens), len(lexResult.Diagnostics))

	parseResult := ast.Parse(lexResult.Tokens, source, lexResult.VersionComment)
	logging.ReviewDebug("parsed %d top-level statements, %d udt decls", len(parseResult.Script.Body), len(parseResult.Udts))

	in := validate.Input{
		Script:   parseResult.Script,
		Tokens:   lexResult.Tokens,
		Udts:     parseResult.Udts,
		VarTypes: parseResult.VarTypes,
		Source:   source,
	}

	var all []catalog.Diagnostic
	all = append(all, lexResult.Diagnostics...)
	all = append(all, parseResult.Diagnostics...)

	validatorDiags, timedOut := runValidators(ctx, in, opts.ValidatorBudget)
	all = append(all, validatorDiags...)

	merged := dedupe(all)
	sort.Slice(merged, func(i, j int) bool { return merged[i].Less(merged[j]) })

	severityFilter := opts.Severity
	if severityFilter == "" {
		severityFilter = "all"
	}
	filtered := filterSeverity(merged, severityFilter)
	filteredCount := len(merged) - len(filtered)

	logging.Review("review complete: %d violations (severity=%s)", len(filtered), severityFilter)

	summary := summarize(filtered)
	summary.FilteredCount = filteredCount
	summary.SeverityFilter = severityFilter

	return Result{
		Violations:    filtered,
		Summary:       summary,
		ReviewedLines: countLines(source),
		Version:       parseResult.Script.Version,
		TimedOut:      timedOut,
	}
}

// countLines reports the number of source lines reviewed, per spec.md
// §4.5 step 7. An empty source reviews zero lines.
func countLines(source string) int {
	if source == "" {
		return 0
	}
	return strings.Count(source, "\n") + 1
}

// runValidators fans out every registered validator with errgroup and
// times each against a soft per-validator budget (spec.md §5): every
// validator runs to completion and contributes all its diagnostics; one
// that took longer than the budget is logged as a warning and reported
// through the returned bool. Nothing observes ctx's deadline, so no
// validator is cut short.
func runValidators(ctx context.Context, in validate.Input, budget time.Duration) ([]catalog.Diagnostic, bool) {
	results := make([][]catalog.Diagnostic, len(validate.All))
	overran := make([]bool, len(validate.All))
	g, _ := errgroup.WithContext(ctx)
	for i, fn := range validate.All {
		i, fn := i, fn
		g.Go(func() error {
			timer := logging.StartTimer(logging.CategoryValidate, fmt.Sprintf("validator[%d]", i))
			results[i] = fn(in)
			overran[i] = timer.StopWithThreshold(nonZero(budget, 50*time.Millisecond)) > budget
			return nil
		})
	}
	_ = g.Wait()
	var out []catalog.Diagnostic
	timedOut := false
	for i, r := range results {
		out = append(out, r...)
		if overran[i] {
			timedOut = true
		}
	}
	return out, timedOut
}

func nonZero(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// dedupe drops diagnostics sharing the same DedupKey, keeping the first
// occurrence (spec.md §3).
func dedupe(diags []catalog.Diagnostic) []catalog.Diagnostic {
	seen := map[[4]string]bool{}
	var out []catalog.Diagnostic
	for _, d := range diags {
		k := d.DedupKey()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	return out
}

// severityRank orders severities from least to most severe so that
// filterSeverity can apply severity_filter as a threshold (spec.md §4.5:
// "drops lower severities") rather than an exact match - e.g. a filter of
// "warning" still surfaces "error" diagnostics.
var severityRank = map[catalog.Severity]int{
	catalog.SeveritySuggestion: 1,
	catalog.SeverityWarning:    2,
	catalog.SeverityError:      3,
}

func filterSeverity(diags []catalog.Diagnostic, severity string) []catalog.Diagnostic {
	if severity == "" || severity == "all" {
		return diags
	}
	threshold, ok := severityRank[catalog.Severity(severity)]
	if !ok {
		return diags
	}
	var out []catalog.Diagnostic
	for _, d := range diags {
		if severityRank[d.Severity] >= threshold {
			out = append(out, d)
		}
	}
	return out
}

func summarize(diags []catalog.Diagnostic) Summary {
	var s Summary
	s.TotalIssues = len(diags)
	for _, d := range diags {
		switch d.Severity {
		case catalog.SeverityError:
			s.Errors++
		case catalog.SeverityWarning:
			s.Warnings++
		case catalog.SeveritySuggestion:
			s.Suggestions++
		}
	}
	return s
}

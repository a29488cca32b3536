// Package dispatch implements the two request-handling tools spec.md §6
// describes - reference_lookup and code_review - on top of the generic
// internal/tools registry. Component C7.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"pinelint/internal/catalog"
	"pinelint/internal/logging"
	"pinelint/internal/refindex"
	"pinelint/internal/review"
	"pinelint/internal/scan"
	"pinelint/internal/tools"
)

// Dispatcher wires the reference index and review engine into the tool
// registry and adds request-level validation and correlation logging.
type Dispatcher struct {
	registry       *tools.Registry
	index          *refindex.Index
	engine         *review.Engine
	root           string
	defaultOptions review.Options
}

// New builds a Dispatcher rooted at root for path-based code_review calls,
// using review.DefaultOptions() for any call that does not override severity.
func New(index *refindex.Index, engine *review.Engine, root string) *Dispatcher {
	return NewWithOptions(index, engine, root, review.DefaultOptions())
}

// NewWithOptions is like New but lets the caller supply review defaults
// (wall-clock/validator budgets, severity), typically loaded from
// internal/config.
func NewWithOptions(index *refindex.Index, engine *review.Engine, root string, opts review.Options) *Dispatcher {
	d := &Dispatcher{registry: tools.NewRegistry(), index: index, engine: engine, root: root, defaultOptions: opts}
	d.registerTools()
	return d
}

func (d *Dispatcher) registerTools() {
	d.registry.MustRegister(&tools.Tool{
		Name:        "reference_lookup",
		Description: "Look up Pine Script v6 reference documentation by query string and/or tags.",
		Category:    tools.CategoryReference,
		Execute:     d.executeReferenceLookup,
		Schema: tools.ToolSchema{
			Properties: map[string]tools.Property{
				"query":       {Type: "string", Description: "free-text search term"},
				"tags":        {Type: "array", Description: "filter by documentation tags", Items: &tools.PropertyItems{Type: "string"}},
				"max_results": {Type: "integer", Description: "maximum number of results", Default: 20},
			},
		},
	})
	d.registry.MustRegister(&tools.Tool{
		Name:        "code_review",
		Description: "Run static analysis over Pine Script v6 source, inline, by file path, or over every matching file in a directory.",
		Category:    tools.CategoryReview,
		Execute:     d.executeCodeReview,
		Schema: tools.ToolSchema{
			Properties: map[string]tools.Property{
				"source":          {Type: "string", Description: "inline Pine Script source (mutually exclusive with path and directory_path)"},
				"path":            {Type: "string", Description: "path to a .pine file, relative to the scan root (mutually exclusive with source and directory_path)"},
				"directory_path":  {Type: "string", Description: "directory to scan and review every matching file under, relative to the scan root (mutually exclusive with source and path)"},
				"severity":        {Type: "string", Description: "filter results by severity, as a floor - lower severities are dropped", Enum: []any{"all", "error", "warning", "suggestion"}, Default: "all"},
				"format":          {Type: "string", Description: "response encoding", Enum: []any{"json", "markdown", "stream"}, Default: "json"},
				"chunk_size":      {Type: "integer", Description: "violations per chunk when format=stream", Default: 20},
				"recursive":       {Type: "boolean", Description: "recurse into subdirectories for directory_path", Default: true},
				"file_extensions": {Type: "array", Description: "extensions to include for directory_path", Items: &tools.PropertyItems{Type: "string"}},
			},
		},
	})
}

// Dispatch executes a named tool, logging the call under a correlation ID.
func (d *Dispatcher) Dispatch(ctx context.Context, toolName string, args map[string]any) *tools.ToolResult {
	reqID := uuid.NewString()
	logging.Dispatch("request %s: tool=%s args=%v", reqID, toolName, args)

	result, err := d.registry.Execute(ctx, toolName, args)
	if result == nil {
		result = &tools.ToolResult{ToolName: toolName, Error: err, DurationMs: 0}
	}

	if result.IsSuccess() {
		logging.DispatchDebug("request %s completed in %dms", reqID, result.DurationMs)
	} else {
		logging.Dispatch("request %s failed: %v", reqID, result.Error)
	}
	return result
}

func (d *Dispatcher) executeReferenceLookup(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	maxResults := 20
	if mr, ok := args["max_results"].(float64); ok {
		maxResults = int(mr)
	}
	var tags []string
	if raw, ok := args["tags"].([]any); ok {
		for _, t := range raw {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
	}
	results := d.index.Lookup(query, tags, maxResults)
	entries := make([]referenceEntry, len(results))
	for i, r := range results {
		entries[i] = referenceEntry{Title: r.Entry.Title, Content: r.Entry.Content, Examples: r.Entry.Examples}
	}
	out, err := json.Marshal(referenceResponse{Query: query, Results: entries, TotalFound: len(entries)})
	if err != nil {
		return "", fmt.Errorf("dispatch: marshal reference_lookup result: %w", err)
	}
	return string(out), nil
}

// referenceResponse is the reference_lookup tool's fixed JSON shape
// (spec.md §6).
type referenceResponse struct {
	Query      string           `json:"query"`
	Results    []referenceEntry `json:"results"`
	TotalFound int              `json:"total_found"`
}

type referenceEntry struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Examples []string `json:"examples"`
}

func (d *Dispatcher) executeCodeReview(ctx context.Context, args map[string]any) (string, error) {
	source, hasSource := args["source"].(string)
	path, hasPath := args["path"].(string)
	dirPath, hasDir := args["directory_path"].(string)
	hasSource = hasSource && source != ""
	hasPath = hasPath && path != ""
	hasDir = hasDir && dirPath != ""

	count := 0
	for _, b := range []bool{hasSource, hasPath, hasDir} {
		if b {
			count++
		}
	}
	if count != 1 {
		return "", fmt.Errorf("dispatch: code_review requires exactly one of source, path, or directory_path")
	}

	opts := d.reviewOptionsFrom(args)

	if hasDir {
		return d.executeDirectoryReview(ctx, dirPath, opts, args)
	}

	if hasPath {
		resolved := path
		if d.root != "" {
			resolved = d.root + "/" + path
		}
		ok, err := scan.WithinRoot(d.root, resolved)
		if err != nil {
			return "", fmt.Errorf("dispatch: resolve path: %w", err)
		}
		if !ok {
			return "", fmt.Errorf("dispatch: path %q escapes scan root", path)
		}
		data, err := readFile(resolved)
		if err != nil {
			return "", fmt.Errorf("dispatch: read %q: %w", path, err)
		}
		source = data
	}

	res := d.engine.Review(ctx, source, opts)
	if hasPath {
		res.FilePath = path
	}
	return encodeReviewResult(res, opts)
}

// reviewOptionsFrom overlays per-call severity/format/chunk_size arguments
// on top of the dispatcher's configured defaults.
func (d *Dispatcher) reviewOptionsFrom(args map[string]any) review.Options {
	opts := d.defaultOptions
	if severity, ok := args["severity"].(string); ok && severity != "" {
		opts.Severity = severity
	}
	if format, ok := args["format"].(string); ok && format != "" {
		opts.Format = format
	}
	if cs, ok := args["chunk_size"].(float64); ok && cs > 0 {
		opts.ChunkSize = int(cs)
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 20
	}
	return opts
}

// encodeReviewResult marshals a single review.Result per spec.md §6,
// switching to the chunked stream encoding when opts.Format is "stream".
func encodeReviewResult(res review.Result, opts review.Options) (string, error) {
	if opts.Format != "stream" {
		out, err := json.Marshal(res)
		if err != nil {
			return "", fmt.Errorf("dispatch: marshal code_review result: %w", err)
		}
		return string(out), nil
	}
	out, err := json.Marshal(streamChunks(res, opts.ChunkSize))
	if err != nil {
		return "", fmt.Errorf("dispatch: marshal code_review stream result: %w", err)
	}
	return string(out), nil
}

// streamChunk is one element of the stream-format JSON array (spec.md §6).
type streamChunk struct {
	ChunkIndex int                  `json:"chunk_index"`
	Violations []catalog.Diagnostic `json:"violations,omitempty"`
	Summary    *review.Summary      `json:"summary,omitempty"`
	Done       bool                 `json:"done,omitempty"`
}

// streamChunks splits a review result's violations into chunks of at most
// chunkSize, each internally already sorted, followed by a terminal
// chunk_index=-1 summary chunk.
func streamChunks(res review.Result, chunkSize int) []streamChunk {
	if chunkSize <= 0 {
		chunkSize = 20
	}
	var chunks []streamChunk
	violations := res.Violations
	for i := 0; i < len(violations); i += chunkSize {
		end := i + chunkSize
		if end > len(violations) {
			end = len(violations)
		}
		chunks = append(chunks, streamChunk{ChunkIndex: i / chunkSize, Violations: violations[i:end]})
	}
	summary := res.Summary
	chunks = append(chunks, streamChunk{ChunkIndex: -1, Summary: &summary, Done: true})
	return chunks
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"pinelint/internal/dispatch"
	"pinelint/internal/docs"
	"pinelint/internal/refindex"
	"pinelint/internal/review"
	"pinelint/internal/scan"
)

var (
	reviewSeverity string
	reviewWatch    bool
)

var reviewCmd = &cobra.Command{
	Use:   "review [path]",
	Short: "Run static analysis over a Pine Script file or directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewSeverity, "severity", "all", "filter by severity: all, error, warning, suggestion")
	reviewCmd.Flags().BoolVar(&reviewWatch, "watch", false, "re-run on file changes")
}

func runReview(cmd *cobra.Command, args []string) error {
	root := args[0]
	idx := refindex.Build(docs.Default())
	d := dispatch.NewWithOptions(idx, review.NewEngine(), root, reviewOptions())

	if !cmd.Flags().Changed("severity") && cfg != nil {
		reviewSeverity = cfg.Review.DefaultSeverity
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("review: %w", err)
	}

	if info.IsDir() {
		return reviewDirectory(cmd, d, root)
	}
	if err := reviewFile(cmd, d, root); err != nil {
		return err
	}
	if reviewWatch {
		return watchAndReview(cmd, d, root)
	}
	return nil
}

// reviewOptions builds review.Options from the loaded config and the
// --timeout flag, falling back to review.DefaultOptions() when no config
// file was found.
func reviewOptions() review.Options {
	opts := review.DefaultOptions()
	if cfg != nil {
		opts.ValidatorBudget = cfg.ValidatorTimeout()
	}
	if timeout > 0 {
		opts.WallClockBudget = timeout
	}
	return opts
}

func reviewFile(cmd *cobra.Command, d *dispatch.Dispatcher, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("review: %w", err)
	}
	result := d.Dispatch(cmd.Context(), "code_review", map[string]any{
		"source":   string(data),
		"severity": reviewSeverity,
	})
	return printResult(result.Result, result.Error)
}

// reviewDirectory delegates to the code_review tool's directory_path mode
// (spec.md §4.7); root is both the dispatcher's scan root and the
// directory to review, so directory_path is always ".".
func reviewDirectory(cmd *cobra.Command, d *dispatch.Dispatcher, root string) error {
	args := map[string]any{
		"directory_path": ".",
		"severity":       reviewSeverity,
	}
	if cfg != nil && len(cfg.Scan.Extensions) > 0 {
		exts := make([]any, len(cfg.Scan.Extensions))
		for i, e := range cfg.Scan.Extensions {
			exts[i] = e
		}
		args["file_extensions"] = exts
	}
	result := d.Dispatch(cmd.Context(), "code_review", args)
	return printDirectoryResult(result.Result, result.Error)
}

func watchAndReview(cmd *cobra.Command, d *dispatch.Dispatcher, path string) error {
	root := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		root = "."
	}
	extensions := []string{".pine"}
	if cfg != nil && len(cfg.Scan.Extensions) > 0 {
		extensions = cfg.Scan.Extensions
	}
	w, err := scan.NewWatcher(root, extensions)
	if err != nil {
		return fmt.Errorf("review --watch: %w", err)
	}
	changes, err := w.Start(cmd.Context())
	if err != nil {
		return fmt.Errorf("review --watch: %w", err)
	}
	defer w.Stop()
	for changed := range changes {
		fmt.Printf("--- %s changed ---\n", changed)
		if err := reviewFile(cmd, d, changed); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return nil
}

func printResult(raw string, execErr error) error {
	if execErr != nil {
		return execErr
	}
	switch format {
	case "markdown":
		return printMarkdown(raw)
	case "text":
		return printText(raw)
	default:
		fmt.Println(raw)
		return nil
	}
}

// printDirectoryResult renders a directory code_review response. For the
// default json format it prints the raw payload; text and markdown
// formats render one file section per entry.
func printDirectoryResult(raw string, execErr error) error {
	if execErr != nil {
		return execErr
	}
	if format != "markdown" && format != "text" {
		fmt.Println(raw)
		return nil
	}
	var dirRes dispatch.DirectoryResult
	if err := json.Unmarshal([]byte(raw), &dirRes); err != nil {
		fmt.Println(raw)
		return nil
	}
	for _, f := range dirRes.Files {
		fmt.Printf("--- %s ---\n", f.Path)
		if f.Error != "" {
			fmt.Println(f.Error)
			continue
		}
		encoded, err := json.Marshal(f.Result)
		if err != nil {
			continue
		}
		if err := printResult(string(encoded), nil); err != nil {
			return err
		}
	}
	fmt.Printf("%d files, %d total issues, %d files with issues\n",
		dirRes.Summary.TotalFiles, dirRes.Summary.TotalIssues, dirRes.Summary.FilesWithIssues)
	return nil
}

// printText renders a review result as colorized plain-text lines, one
// violation per line, using the severity styles in style.go.
func printText(raw string) error {
	var res review.Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		fmt.Println(raw)
		return nil
	}
	for _, v := range res.Violations {
		fmt.Printf("%s %s:%d:%d %s\n", renderSeverity(string(v.Severity)), locationStyle.Render(string(v.Code)), v.Line, v.Column, v.Message)
	}
	fmt.Printf("%d total, %d errors, %d warnings, %d suggestions\n",
		res.Summary.TotalIssues, res.Summary.Errors, res.Summary.Warnings, res.Summary.Suggestions)
	return nil
}

// printMarkdown renders a review result as a readable report via glamour.
func printMarkdown(raw string) error {
	var res review.Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		fmt.Println(raw)
		return nil
	}
	md := fmt.Sprintf("# Review summary\n\n%d total, %d errors, %d warnings, %d suggestions\n\n",
		res.Summary.TotalIssues, res.Summary.Errors, res.Summary.Warnings, res.Summary.Suggestions)
	for _, v := range res.Violations {
		md += fmt.Sprintf("- **%s** (%s) line %d:%d - %s\n", v.Code, v.Severity, v.Line, v.Column, v.Message)
	}
	rendered, err := glamour.Render(md, "dark")
	if err != nil {
		fmt.Println(md)
		return nil
	}
	fmt.Print(rendered)
	return nil
}

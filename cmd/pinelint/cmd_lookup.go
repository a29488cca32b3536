package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pinelint/internal/dispatch"
	"pinelint/internal/docs"
	"pinelint/internal/refindex"
	"pinelint/internal/review"
)

var lookupTags string

var lookupCmd = &cobra.Command{
	Use:   "lookup [query]",
	Short: "Search Pine Script v6 reference documentation",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().StringVar(&lookupTags, "tags", "", "comma-separated tags to filter by")
}

func runLookup(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	var tags []any
	if lookupTags != "" {
		for _, t := range strings.Split(lookupTags, ",") {
			tags = append(tags, strings.TrimSpace(t))
		}
	}

	idx := refindex.Build(docs.Default())
	d := dispatch.New(idx, review.NewEngine(), "")
	result := d.Dispatch(cmd.Context(), "reference_lookup", map[string]any{"query": query, "tags": tags})
	if result.Error != nil {
		return result.Error
	}
	fmt.Println(result.Result)
	return nil
}

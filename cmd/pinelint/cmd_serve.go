package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pinelint/internal/dispatch"
	"pinelint/internal/docs"
	"pinelint/internal/logging"
	"pinelint/internal/refindex"
	"pinelint/internal/review"
)

var serveRoot string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the stdio JSON-RPC loop exposing reference_lookup and code_review",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveRoot, "root", ".", "scan root for path-based code_review calls")
}

// rpcRequest is one line of stdin: a tool call by name and arguments.
type rpcRequest struct {
	ID   string         `json:"id"`
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// rpcResponse is one line of stdout.
type rpcResponse struct {
	ID     string `json:"id"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func runServe(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("root") && cfg != nil && cfg.Scan.Root != "" {
		serveRoot = cfg.Scan.Root
	}
	idx := refindex.Build(docs.Default())
	d := dispatch.NewWithOptions(idx, review.NewEngine(), serveRoot, reviewOptions())

	logging.Dispatch("serve: listening on stdio, root=%s", serveRoot)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	encoder := json.NewEncoder(os.Stdout)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req rpcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			encoder.Encode(rpcResponse{Error: fmt.Sprintf("invalid request: %v", err)})
			continue
		}
		result := d.Dispatch(cmd.Context(), req.Tool, req.Args)
		resp := rpcResponse{ID: req.ID, Result: result.Result}
		if result.Error != nil {
			resp.Error = result.Error.Error()
		}
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("serve: write response: %w", err)
		}
	}
	return scanner.Err()
}

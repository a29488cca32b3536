package dispatch

import (
	"fmt"
	"os"

	"pinelint/internal/scan"
)

// readFile loads a single file for a path-based code_review call,
// applying the same size cap the directory scanner uses.
func readFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > scan.MaxFileBytes {
		return "", fmt.Errorf("file exceeds %d byte cap", scan.MaxFileBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

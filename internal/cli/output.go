package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kolah/oasdoc/internal/loader"
)

// writeOutput prints to stdout when path is empty, otherwise writes the file
// and reports the location on stderr.
func writeOutput(cmd *cobra.Command, path, content string) error {
	if path == "" {
		cmd.Println(content)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	cmd.PrintErrf("Written: %s\n", path)
	return nil
}

// loadSpec loads the document and forwards loader warnings to stderr.
func loadSpec(cmd *cobra.Command, path string) (*loader.Result, error) {
	result, err := loader.LoadSpec(path)
	if err != nil {
		return nil, fmt.Errorf("loading spec: %w", err)
	}
	for _, w := range result.Warnings {
		cmd.PrintErrf("Warning: %s\n", w)
	}
	return result, nil
}

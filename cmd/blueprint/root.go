package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "blueprint",
		Short: "Generate project blueprints with an LLM",
		Long: `blueprint turns plain-language project requirements into a structured
project blueprint (tech stack, workflow graph, per-node details) using an
LLM, and recovers valid blueprints from malformed model output.

Commands:
  generate    Generate a blueprint from requirements
  recover     Recover a blueprint or JSON value from raw model output
  serve       Run the HTTP API
  version     Show version info

Configuration is read from blueprint.yaml (or --config), then BLUEPRINT_*
environment variables. A .env file in the working directory is loaded first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default blueprint.yaml when present)")

	root.AddCommand(
		newGenerateCmd(&configPath),
		newRecoverCmd(&configPath),
		newServeCmd(&configPath),
		newVersionCmd(),
	)
	return root
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// readInput reads path, or the command's stdin when path is "" or "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

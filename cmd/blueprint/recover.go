package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leofalp/blueprint/core/blueprint"
	"github.com/leofalp/blueprint/core/parse"
	"github.com/leofalp/blueprint/internal/app"
	"github.com/leofalp/blueprint/internal/config"
)

type recoverOutput struct {
	Strategy  string               `json:"strategy"`
	Blueprint *blueprint.Blueprint `json:"blueprint"`
	Warnings  []string             `json:"warnings,omitempty"`
}

func newRecoverCmd(configPath *string) *cobra.Command {
	var (
		as     string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "recover [file]",
		Short: "Recover a blueprint or JSON value from raw model output",
		Long: `Run the recovery pipeline over raw model output read from a file or stdin.

  --as blueprint   run the blueprint strategies and validation (default)
  --as json        leniently decode any JSON value (fences, prose, trailing
                   commas and truncation are tolerated)

Examples:
  blueprint recover response.txt
  pbpaste | blueprint recover --as json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			raw, err := readInput(cmd, path)
			if err != nil {
				return err
			}

			switch as {
			case "json":
				v, err := parse.ParseStringAs[any](raw)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), v)
			case "blueprint":
				return recoverBlueprint(cmd, *configPath, strict, raw)
			default:
				return fmt.Errorf("--as must be blueprint or json, got %q", as)
			}
		},
	}

	cmd.Flags().StringVar(&as, "as", "blueprint", "what to recover: blueprint or json")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject blueprints with integrity issues")
	return cmd
}

func recoverBlueprint(cmd *cobra.Command, configPath string, strict bool, raw string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if strict {
		cfg.Recovery.StrictIntegrity = true
	}

	recovery, err := app.NewPipeline(cfg.Recovery).Recover(cmd.Context(), raw)
	if err != nil {
		var recErr *parse.RecoveryError
		if errors.As(err, &recErr) {
			for _, attempt := range recErr.Attempts {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %-14s %-9s %v\n", attempt.Strategy, attempt.Stage, attempt.Err)
			}
		}
		return err
	}

	out := recoverOutput{Strategy: recovery.Strategy, Blueprint: recovery.Blueprint}
	for _, issue := range recovery.Issues {
		out.Warnings = append(out.Warnings, issue.String())
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leofalp/blueprint/internal/app"
	"github.com/leofalp/blueprint/internal/config"
	"github.com/leofalp/blueprint/internal/reqdoc"
)

type generateOptions struct {
	file         string
	fromURL      string
	output       string
	blueprint    bool
	fetchTimeout time.Duration
}

func newGenerateCmd(configPath *string) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate [requirements...]",
		Short: "Generate a blueprint from requirements",
		Long: `Generate a project blueprint. Requirements come from the arguments, a file
(--file, "-" for stdin) or a web page (--from-url, HTML is converted to
Markdown). The response envelope is printed as JSON; the command fails when
the envelope reports an error.

Examples:
  blueprint generate "a booking app for a small dental clinic"
  blueprint generate -f requirements.md -o blueprint.json
  blueprint generate --from-url example.com/brief --blueprint`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, *configPath, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", `read requirements from a file ("-" for stdin)`)
	f.StringVar(&opts.fromURL, "from-url", "", "fetch requirements from a web page")
	f.StringVarP(&opts.output, "output", "o", "", "write JSON to a file instead of stdout")
	f.BoolVar(&opts.blueprint, "blueprint", false, "print only the blueprint, not the envelope")
	f.DurationVar(&opts.fetchTimeout, "fetch-timeout", reqdoc.DefaultTimeout, "timeout for --from-url")
	cmd.MarkFlagsMutuallyExclusive("file", "from-url")
	return cmd
}

func runGenerate(cmd *cobra.Command, configPath string, args []string, opts generateOptions) error {
	requirements, err := requirementsFrom(cmd, args, opts)
	if err != nil {
		return err
	}
	if strings.TrimSpace(requirements) == "" {
		return errors.New("requirements are required")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a, err := app.New(cfg, app.WithLogOutput(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	resp := a.Service.Generate(a.Context(cmd.Context()), requirements)

	out := cmd.OutOrStdout()
	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer func() { _ = file.Close() }()
		out = file
	}

	var payload any = resp
	if opts.blueprint && resp.Success {
		payload = resp.Data.Blueprint
	}
	if err := writeJSON(out, payload); err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("generation failed: %s", resp.Error)
	}
	return nil
}

func requirementsFrom(cmd *cobra.Command, args []string, opts generateOptions) (string, error) {
	sources := 0
	for _, set := range []bool{len(args) > 0, opts.file != "", opts.fromURL != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return "", errors.New("give requirements as arguments, --file or --from-url (exactly one)")
	}

	switch {
	case opts.file != "":
		return readInput(cmd, opts.file)
	case opts.fromURL != "":
		return reqdoc.Fetch(cmd.Context(), reqdoc.NewHTTPClient(opts.fetchTimeout), opts.fromURL)
	default:
		return strings.Join(args, " "), nil
	}
}

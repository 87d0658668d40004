package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/docchat-go/internal/app"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if opts.logLevel == "" {
				cfg.Logging.Level = "warn"
			}
			if jsonOutput {
				// Keep stdout parseable: log lines go to the log file only.
				cfg.Logging.Output = []string{"file"}
			}

			ctx := cmd.Context()
			a, err := app.New(ctx, cfg, newLogger(cfg))
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Service.Initialize(ctx); err != nil {
				return err
			}

			result, err := a.Service.Answer(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"answer":           result.Text,
					"source_documents": result.Sources,
				})
			}

			fmt.Fprintln(out, result.Text)
			if len(result.Sources) > 0 {
				fmt.Fprintf(out, "\nSources: %s\n", strings.Join(result.Sources, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the answer as JSON")
	return cmd
}

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/docchat-go/internal/adapters/auditlog"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently answered questions from the audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			audit, err := auditlog.NewSQLiteAuditLog(cfg.Audit.Path)
			if err != nil {
				return err
			}
			defer audit.Close()

			entries, err := audit.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No answers recorded.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tSTATUS\tPROVIDER\tDURATION\tQUERY\tSOURCES")
			for _, e := range entries {
				status := "ok"
				if !e.Success {
					status = "error"
				}
				query := e.Query
				if query == "" {
					query = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.CreatedAt.Local().Format(time.DateTime),
					status,
					e.Provider,
					e.Duration.Round(time.Millisecond),
					truncate(query, 60),
					strings.Join(e.Sources, ","),
				)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			total, err := audit.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nShowing %d of %d answers.\n", len(entries), total)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	return cmd
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

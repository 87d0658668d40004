package main

import (
	"github.com/spf13/cobra"
	"github.com/ternarybob/banner"

	"github.com/0xcro3dile/docchat-go/internal/app"
	"github.com/0xcro3dile/docchat-go/internal/infrastructure/http"
	"github.com/0xcro3dile/docchat-go/internal/version"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		host  string
		port  int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Loads the documents directory, then serves:
  GET  /                     health message
  POST /chat/                {"query": "..."} -> {"answer", "source_documents"}
  POST /documents/refresh/   reload the documents directory
  GET  /documents/           list loaded documents`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("watch") {
				cfg.Documents.Watch = watch
			}

			banner.PrintSimple("DocChat", version.Version)
			logger := newLogger(cfg)
			ctx := cmd.Context()

			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Service.Initialize(ctx); err != nil {
				return err
			}
			if err := a.StartBackground(ctx); err != nil {
				return err
			}

			return http.NewServer(a.Service, cfg.Server, version.Version, logger).Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Bind address (overrides HOST)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Bind port (overrides PORT)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Refresh automatically when the documents directory changes")
	return cmd
}

package cli

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"docsmith/internal/config"
	"docsmith/internal/logging"
	"docsmith/internal/server"
	"docsmith/internal/sidebar"
	"docsmith/internal/site"

	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site and serve it locally, rebuilding on changes",
	Long: `Serve performs an initial build, starts a local HTTP server over the
output directory, and watches the docs and static directories plus
site.yaml and sidebar.yaml. Changes trigger a debounced rebuild; a
rebuild failure keeps the previous output in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetDefault()

		cfg, err := config.Load(siteDir)
		if err != nil {
			return err
		}

		rebuild := func() error {
			model, err := site.Load(siteDir, logger)
			if err != nil {
				return err
			}
			builder, err := site.NewBuilder(model, logger)
			if err != nil {
				return err
			}
			_, err = builder.Build()
			return err
		}

		srv := server.New(
			filepath.Join(siteDir, cfg.OutputDir),
			servePort,
			rebuild,
			logger,
		)
		srv.WatchDirs = []string{
			filepath.Join(siteDir, cfg.DocsDir),
			filepath.Join(siteDir, cfg.StaticDir),
		}
		srv.WatchFiles = []string{
			filepath.Join(siteDir, config.DefaultFileName),
			filepath.Join(siteDir, cfg.DocsDir, sidebar.FileName),
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 3000, "port to serve on")
	rootCmd.AddCommand(serveCmd)
}

package cli

import (
	"fmt"

	"docsmith/internal/config"
	"docsmith/internal/logging"
	"docsmith/internal/source"

	"github.com/spf13/cobra"
)

var (
	syncToken       string
	syncDeleteToken bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch remote content sources into the local cache",
	Long: `Sync clones or updates every remote source declared in site.yaml into
the per-user cache. Builds read from the cache and never touch the
network, so sync is the only command that needs connectivity.

Private repositories need a GitHub token; store one with --token. The
token is kept in the system keyring, never on disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetDefault()

		if syncDeleteToken {
			if err := source.DeleteToken(); err != nil {
				return err
			}
			fmt.Println("Token removed from the system keyring.")
			return nil
		}
		if syncToken != "" {
			if err := source.StoreToken(syncToken); err != nil {
				return err
			}
			fmt.Println("Token stored in the system keyring.")
		}

		cfg, err := config.Load(siteDir)
		if err != nil {
			return err
		}

		var remotes []config.ContentSource
		for _, decl := range cfg.Sources {
			if decl.IsRemote() {
				remotes = append(remotes, decl)
			}
		}
		if len(remotes) == 0 {
			fmt.Println("No remote sources declared; nothing to sync.")
			return nil
		}

		var failed int
		for _, decl := range remotes {
			logger.Info("Syncing source", "name", decl.Name, "url", decl.RemoteURL)
			docsPath, err := source.NewGitSource(decl).Prepare(logger)
			if err != nil {
				logger.Error("Sync failed", "name", decl.Name, "error", err)
				failed++
				continue
			}
			fmt.Printf("Synced %s -> %s\n", decl.Name, docsPath)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d source(s) failed to sync", failed, len(remotes))
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncToken, "token", "", "store a GitHub token for private sources")
	syncCmd.Flags().BoolVar(&syncDeleteToken, "delete-token", false, "remove the stored GitHub token")
	rootCmd.AddCommand(syncCmd)
}

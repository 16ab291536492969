// Package cli wires the docsmith commands together.
package cli

import (
	"fmt"
	"os"

	"docsmith/internal/logging"
	"docsmith/internal/site"

	"github.com/spf13/cobra"
)

var (
	siteDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docsmith",
	Short: "docsmith builds documentation websites from markdown",
	Long: `docsmith turns a directory of markdown documents, a sidebar definition
and a site configuration into a static documentation website.

Run it from a site directory containing site.yaml, or point it at one
with --site-dir.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.GetDefault().SetVerbose()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&siteDir, "site-dir", "d", ".", "site directory containing site.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadModel loads the site rooted at --site-dir.
func loadModel() (*site.Model, error) {
	return site.Load(siteDir, logging.GetDefault())
}

package cli

import (
	"fmt"
	"time"

	"docsmith/internal/logging"
	"docsmith/internal/site"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site into the output directory",
	Long: `Build renders every non-draft document to HTML, copies static files,
and writes the navigation, search index and build manifest. The output
directory is replaced wholesale, so repeated builds of unchanged input
produce identical output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		logger := logging.GetDefault()

		model, err := loadModel()
		if err != nil {
			return err
		}

		builder, err := site.NewBuilder(model, logger)
		if err != nil {
			return err
		}

		report, err := builder.Build()
		if err != nil {
			return err
		}

		logger.LogPerformance("build", start)
		fmt.Printf("Built %d page(s) and %d static file(s) into %s\n",
			report.Pages, report.StaticFiles, report.OutputDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

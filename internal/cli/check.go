package cli

import (
	"fmt"

	"docsmith/internal/site"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate content, sidebar and internal links without building",
	Long: `Check parses every document, validates the sidebar against the scanned
documents, and verifies that internal links resolve. All problems are
reported at once; the command exits non-zero when any are found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadModel()
		if err != nil {
			return err
		}

		report := site.Check(model)
		for _, line := range report.Summary() {
			fmt.Println(line)
		}
		if !report.Clean() {
			return fmt.Errorf("check found %d problem(s)", report.Total())
		}
		fmt.Println("No problems found.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

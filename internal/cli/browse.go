package cli

import (
	"fmt"

	"docsmith/internal/logging"
	"docsmith/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the documentation in the terminal",
	Long: `Browse opens an interactive terminal reader: documents in sidebar
order on the left, a rendered preview on the right.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadModel()
		if err != nil {
			return err
		}
		if len(model.Docs.Docs) == 0 {
			return fmt.Errorf("no documents found under the docs directory")
		}

		browser := tui.NewBrowser(model, logging.GetDefault())
		p := tea.NewProgram(browser, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("browser error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

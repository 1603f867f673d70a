package cli

import (
	"fmt"

	"github.com/felixgeelhaar/reviewdesk/internal/infrastructure/config"
	"github.com/felixgeelhaar/reviewdesk/pkg/storage"
	"github.com/spf13/cobra"
)

var initBusinessName string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a reviewdesk workspace in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}

		ws := storage.NewFilesystemWorkspace(root)
		if err := ws.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize workspace: %w", err)
		}

		settings := config.DefaultSettings()
		if initBusinessName != "" {
			settings.BusinessName = initBusinessName
		}
		if err := config.SaveSettings(root, settings); err != nil {
			return fmt.Errorf("failed to write settings: %w", err)
		}

		fmt.Printf("Initialized reviewdesk workspace in %s\n", ws.Dir())
		fmt.Println("Drop review feeds there as seed.yaml, or run 'reviewdesk ingest <file>'.")
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initBusinessName, "business", "", "Business name used in generated replies")
	RootCmd.AddCommand(initCmd)
}

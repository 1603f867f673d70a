package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var suggestAll bool

var suggestCmd = &cobra.Command{
	Use:   "suggest [id]",
	Short: "Generate an AI reply suggestion for a pending review",
	Long: `Generate an AI reply suggestion for a pending review.

The provider and tone come from the workspace settings. With --all, every
pending review without a suggestion gets one.

Examples:
  reviewdesk suggest rev-1
  reviewdesk suggest --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		if suggestAll {
			ids, err := services.Suggest.GenerateMissing(cmd.Context())
			if err != nil {
				return MapError(err)
			}
			if len(ids) == 0 {
				fmt.Println("Every pending review already has a suggestion.")
				return nil
			}
			fmt.Printf("Generated suggestions for %d review(s):\n", len(ids))
			for _, id := range ids {
				fmt.Printf("  %s\n", id)
			}
			return nil
		}

		if len(args) != 1 {
			return fmt.Errorf("expected a review id or --all")
		}

		text, err := services.Suggest.Generate(cmd.Context(), args[0])
		if err != nil {
			return MapError(err)
		}

		fmt.Printf("Suggested reply for %s:\n  %s\n", args[0], text)
		fmt.Printf("\nPublish it with 'reviewdesk reviews approve %s'.\n", args[0])
		return nil
	},
}

func init() {
	suggestCmd.Flags().BoolVar(&suggestAll, "all", false, "Generate suggestions for every pending review without one")
	RootCmd.AddCommand(suggestCmd)
}

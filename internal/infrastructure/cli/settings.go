package cli

import (
	"fmt"
	"strconv"

	"github.com/felixgeelhaar/reviewdesk/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change workspace settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current workspace settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		settings, err := config.LoadSettings(root)
		if err != nil {
			return err
		}

		fmt.Printf("business_name:  %s\n", settings.BusinessName)
		fmt.Printf("reply_tone:     %s\n", settings.ReplyTone)
		fmt.Printf("auto_approve:   %v\n", settings.AutoApprove)
		fmt.Printf("ai_provider:    %s\n", settings.AIProvider)
		fmt.Printf("ai_model:       %s\n", settings.AIModel)
		if settings.Template != "" {
			fmt.Printf("template:       %s\n", settings.Template)
		}
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a workspace setting",
	Long: `Change a workspace setting.

Keys:
  business_name  Business name used in generated replies
  reply_tone     professional, friendly or casual
  auto_approve   true or false
  template       Custom reply template ({reviewer} and {business} are substituted)
  ai_provider    template or openai
  ai_model       Model name for the openai provider

Examples:
  reviewdesk settings set reply_tone friendly
  reviewdesk settings set business_name "Cafe Milano"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		settings, err := config.LoadSettings(root)
		if err != nil {
			return err
		}

		key, value := args[0], args[1]
		switch key {
		case "business_name":
			settings.BusinessName = value
		case "reply_tone":
			settings.ReplyTone = value
		case "auto_approve":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("auto_approve wants true or false, got %q", value)
			}
			settings.AutoApprove = b
		case "template":
			settings.Template = value
		case "ai_provider":
			settings.AIProvider = value
		case "ai_model":
			settings.AIModel = value
		default:
			return fmt.Errorf("unknown setting %q", key)
		}

		if err := config.SaveSettings(root, settings); err != nil {
			return MapError(err)
		}

		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	RootCmd.AddCommand(settingsCmd)
}

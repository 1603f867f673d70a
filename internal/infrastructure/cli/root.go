package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var projectPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "reviewdesk",
	Version: Version,
	Short:   "Manage and answer customer reviews from one inbox",
	Long: `Reviewdesk keeps every customer review of your business profiles in one place.
It helps owners answer:
1. Which reviews are still waiting for a reply?
2. What should the reply say?
3. How is the business rated over time?`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&projectPath, "workspace", "", "Workspace directory (defaults to the current directory)")
}

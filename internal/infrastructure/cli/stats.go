package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the headline dashboard statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		stats := services.Insights.Stats()

		if statsJSON {
			return json.NewEncoder(os.Stdout).Encode(stats)
		}

		fmt.Printf("Total reviews:   %d\n", stats.TotalReviews)
		fmt.Printf("Average rating:  %.1f\n", stats.AverageRating)
		fmt.Printf("Response rate:   %d%%\n", stats.ResponseRate)
		fmt.Printf("Awaiting reply:  %d\n", stats.PendingCount)
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the full analytics report",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		report := services.Insights.FullReport()

		if statsJSON {
			return json.NewEncoder(os.Stdout).Encode(report)
		}

		fmt.Printf("Total reviews:   %d\n", report.Stats.TotalReviews)
		fmt.Printf("Average rating:  %.1f\n", report.Stats.AverageRating)
		fmt.Printf("Response rate:   %d%%\n", report.Stats.ResponseRate)
		fmt.Printf("Awaiting reply:  %d\n", report.Stats.PendingCount)
		if report.AvgResponseTime > 0 {
			fmt.Printf("Avg response:    %.1fh\n", report.AvgResponseTime.Hours())
		}

		fmt.Println("\nRating distribution:")
		for _, b := range report.ByRating {
			bar := strings.Repeat("#", b.Percentage/5)
			fmt.Printf("  %d star  %-20s %d (%d%%)\n", b.Rating, bar, b.Count, b.Percentage)
		}

		fmt.Println("\nSentiment:")
		for _, s := range report.BySentiment {
			fmt.Printf("  %-9s %d\n", s.Sentiment, s.Count)
		}

		if len(report.TopKeywords) > 0 {
			fmt.Println("\nTop keywords:")
			for _, k := range report.TopKeywords {
				fmt.Printf("  %-15s %3d mentions (%s)\n", k.Keyword, k.Count, k.Sentiment)
			}
		}

		if len(report.Monthly) > 0 {
			fmt.Println("\nMonthly volume:")
			for _, m := range report.Monthly {
				fmt.Printf("  %s  %3d reviews, avg %.1f\n", m.Month, m.Reviews, m.Rating)
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output in JSON format")
	reportCmd.Flags().BoolVar(&statsJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(statsCmd)
	RootCmd.AddCommand(reportCmd)
}

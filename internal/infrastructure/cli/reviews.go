package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
	"github.com/spf13/cobra"
)

// Flag variables for review commands
var (
	reviewsTab   string
	reviewsQuery string
	reviewsJSON  bool
	replyText    string
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "List and answer customer reviews",
}

var reviewsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reviews filtered by tab and search query",
	Long: `List reviews filtered by tab and search query.

Tabs:
  all       Every review
  pending   Reviews still awaiting a reply
  replied   Reviews that already have a reply
  positive  Reviews with positive sentiment
  negative  Reviews with negative sentiment

Examples:
  reviewdesk reviews list
  reviewdesk reviews list --tab pending
  reviewdesk reviews list --tab negative --query "delivery"
  reviewdesk reviews list --json`,
	RunE: runReviewsList,
}

var reviewsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single review in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviewsShow,
}

var reviewsApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Publish the AI-suggested reply of a pending review",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviewsApprove,
}

var reviewsReplyCmd = &cobra.Command{
	Use:   "reply <id>",
	Short: "Write and publish a reply to a pending review",
	Long: `Write and publish a reply to a pending review.

The reply text comes from --text, or is read interactively. When the review
carries an AI suggestion it is offered as the starting draft.

Examples:
  reviewdesk reviews reply rev-1 --text "Thank you for the kind words!"
  reviewdesk reviews reply rev-1`,
	Args: cobra.ExactArgs(1),
	RunE: runReviewsReply,
}

var reviewsIgnoreCmd = &cobra.Command{
	Use:   "ignore <id>",
	Short: "Mark a pending review as ignored",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviewsIgnore,
}

func runReviewsList(cmd *cobra.Command, args []string) error {
	services, err := loadServicesForCurrentDir()
	if err != nil {
		return err
	}

	tag, err := review.ParseFilterTag(reviewsTab)
	if err != nil {
		return MapError(err)
	}

	reviews := services.Review.ListVisible(reviewsQuery, tag)

	if reviewsJSON {
		return json.NewEncoder(os.Stdout).Encode(reviews)
	}

	if len(reviews) == 0 {
		fmt.Println("No reviews match the current filter.")
		return nil
	}

	fmt.Printf("%-12s %-6s %-9s %-8s %-16s %s\n", "ID", "STARS", "MOOD", "STATUS", "REVIEWER", "TEXT")
	for _, r := range reviews {
		fmt.Printf("%-12s %-6d %-9s %-8s %-16s %s\n",
			truncate(r.ID, 12), r.Rating, r.Sentiment, r.Status, truncate(r.ReviewerName, 16), truncate(r.Text, 50))
	}
	fmt.Printf("\n%d review(s)\n", len(reviews))
	return nil
}

func runReviewsShow(cmd *cobra.Command, args []string) error {
	services, err := loadServicesForCurrentDir()
	if err != nil {
		return err
	}

	r, err := services.Review.Get(args[0])
	if err != nil {
		return MapError(err)
	}

	if reviewsJSON {
		return json.NewEncoder(os.Stdout).Encode(r)
	}

	fmt.Printf("Review %s\n", r.ID)
	fmt.Printf("  Reviewer:  %s\n", r.ReviewerName)
	fmt.Printf("  Rating:    %d/5 (%s)\n", r.Rating, r.Sentiment)
	fmt.Printf("  Status:    %s\n", r.Status.DisplayName())
	fmt.Printf("  Received:  %s\n", r.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("  Text:      %s\n", r.Text)
	if r.AISuggestion != "" {
		fmt.Printf("  Suggested: %s\n", r.AISuggestion)
	}
	if r.HasReply {
		fmt.Printf("  Reply:     %s\n", r.ReplyText)
		if r.ReplyCreatedAt != nil {
			fmt.Printf("  Replied:   %s\n", r.ReplyCreatedAt.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

func runReviewsApprove(cmd *cobra.Command, args []string) error {
	services, err := loadServicesForCurrentDir()
	if err != nil {
		return err
	}

	r, err := services.Review.Approve(args[0], "cli")
	if err != nil {
		return MapError(err)
	}

	fmt.Printf("Published suggested reply to review %s:\n  %s\n", r.ID, r.ReplyText)
	return nil
}

func runReviewsReply(cmd *cobra.Command, args []string) error {
	services, err := loadServicesForCurrentDir()
	if err != nil {
		return err
	}
	id := args[0]

	draft, err := services.Review.BeginEdit(id)
	if err != nil {
		return MapError(err)
	}

	text := replyText
	if text == "" {
		if draft != "" {
			fmt.Printf("Suggested draft:\n  %s\n\n", draft)
			fmt.Println("Press enter to use the draft, or type a reply:")
		} else {
			fmt.Println("Type a reply:")
		}
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			text = scanner.Text()
		}
		if strings.TrimSpace(text) == "" {
			text = draft
		}
	}

	r, err := services.Review.SaveEdit(id, text, "cli")
	if err != nil {
		// Abandon the buffer so the review stays cleanly pending.
		_ = services.Review.CancelEdit(id)
		return MapError(err)
	}

	fmt.Printf("Published reply to review %s:\n  %s\n", r.ID, r.ReplyText)
	return nil
}

func runReviewsIgnore(cmd *cobra.Command, args []string) error {
	services, err := loadServicesForCurrentDir()
	if err != nil {
		return err
	}

	r, err := services.Review.Ignore(args[0], "cli")
	if err != nil {
		return MapError(err)
	}

	fmt.Printf("Review %s ignored.\n", r.ID)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func init() {
	reviewsListCmd.Flags().StringVarP(&reviewsTab, "tab", "t", "all", "Filter tab (all, pending, replied, positive, negative)")
	reviewsListCmd.Flags().StringVarP(&reviewsQuery, "query", "q", "", "Search reviewer name and review text")
	reviewsListCmd.Flags().BoolVar(&reviewsJSON, "json", false, "Output in JSON format")
	reviewsShowCmd.Flags().BoolVar(&reviewsJSON, "json", false, "Output in JSON format")
	reviewsReplyCmd.Flags().StringVar(&replyText, "text", "", "Reply text (skips the interactive prompt)")

	reviewsCmd.AddCommand(reviewsListCmd)
	reviewsCmd.AddCommand(reviewsShowCmd)
	reviewsCmd.AddCommand(reviewsApproveCmd)
	reviewsCmd.AddCommand(reviewsReplyCmd)
	reviewsCmd.AddCommand(reviewsIgnoreCmd)
	RootCmd.AddCommand(reviewsCmd)
}

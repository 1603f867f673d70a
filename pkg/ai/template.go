package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/suggest"
)

// TemplateProvider drafts replies offline from canned tone templates. It is the
// default backend so the tool works without an API key.
type TemplateProvider struct{}

func NewTemplateProvider() *TemplateProvider {
	return &TemplateProvider{}
}

func (p *TemplateProvider) ID() string {
	return "template"
}

// openers keyed by tone, then by sentiment.
var openers = map[suggest.Tone]map[review.Sentiment]string{
	suggest.ToneProfessional: {
		review.SentimentPositive: "Thank you for your kind review, {reviewer}. We are delighted that you had a good experience at {business}.",
		review.SentimentNeutral:  "Thank you for your feedback, {reviewer}. We appreciate you taking the time to share your experience with {business}.",
		review.SentimentNegative: "Thank you for your feedback, {reviewer}. We sincerely apologize that your experience at {business} fell short, and we would welcome the chance to make it right.",
	},
	suggest.ToneFriendly: {
		review.SentimentPositive: "Thanks so much, {reviewer}! We're thrilled you enjoyed your visit to {business} and can't wait to see you again.",
		review.SentimentNeutral:  "Thanks for the honest feedback, {reviewer}! We're always working to make {business} better and really appreciate you sharing.",
		review.SentimentNegative: "We're really sorry to hear this, {reviewer}. That's not the experience we want anyone to have at {business} - please reach out so we can fix it.",
	},
	suggest.ToneCasual: {
		review.SentimentPositive: "Thanks {reviewer}, you made our day! Come back to {business} anytime.",
		review.SentimentNeutral:  "Appreciate the feedback, {reviewer} - noted, and we'll keep working on it.",
		review.SentimentNegative: "Sorry we dropped the ball, {reviewer}. Give {business} another shot and we'll do better.",
	},
}

func (p *TemplateProvider) Suggest(ctx context.Context, req suggest.Request) (*suggest.Response, error) {
	if req.Review == nil {
		return nil, fmt.Errorf("request has no review")
	}

	tone := req.Tone
	if !tone.IsValid() {
		tone = suggest.ToneProfessional
	}

	text := req.Template
	if text == "" {
		text = openers[tone][req.Review.Sentiment]
	}
	if text == "" {
		text = openers[tone][review.SentimentNeutral]
	}

	business := req.BusinessName
	if business == "" {
		business = "our business"
	}
	text = strings.ReplaceAll(text, "{reviewer}", req.Review.ReviewerName)
	text = strings.ReplaceAll(text, "{business}", business)

	return &suggest.Response{
		Text:  text,
		Model: "template",
	}, nil
}

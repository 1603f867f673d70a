package application

import (
	"time"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain/analytics"
	"github.com/felixgeelhaar/reviewdesk/pkg/storage"
)

// InsightsService derives dashboard and analytics metrics on demand from store
// snapshots. It holds no state of its own.
type InsightsService struct {
	store *storage.MemoryStore
}

func NewInsightsService(store *storage.MemoryStore) *InsightsService {
	return &InsightsService{store: store}
}

// Stats returns the four headline dashboard numbers.
func (s *InsightsService) Stats() analytics.DashboardStats {
	return analytics.Compute(s.store.ListProfiles(), s.store.List())
}

// topKeywordLimit bounds the keyword breakdown to what the analytics page shows.
const topKeywordLimit = 10

// Report is the full analytics page payload.
type Report struct {
	Stats           analytics.DashboardStats   `json:"stats"`
	ByRating        []analytics.RatingBucket   `json:"by_rating"`
	Monthly         []analytics.MonthPoint     `json:"monthly"`
	BySentiment     []analytics.SentimentCount `json:"by_sentiment"`
	TopKeywords     []analytics.KeywordCount   `json:"top_keywords"`
	AvgResponseTime time.Duration              `json:"avg_response_time"`
}

// FullReport computes every analytics breakdown from one consistent snapshot.
func (s *InsightsService) FullReport() Report {
	reviews := s.store.List()
	profiles := s.store.ListProfiles()

	return Report{
		Stats:           analytics.Compute(profiles, reviews),
		ByRating:        analytics.RatingDistribution(reviews),
		Monthly:         analytics.MonthlyTrend(reviews),
		BySentiment:     analytics.SentimentBreakdown(reviews),
		TopKeywords:     analytics.TopKeywords(reviews, topKeywordLimit),
		AvgResponseTime: analytics.AverageResponseTime(reviews),
	}
}

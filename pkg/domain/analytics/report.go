// Package analytics derives dashboard and analytics metrics from snapshots of the
// review and profile stores. All computations are pure and recomputed on demand;
// data volumes are small enough that caching would buy nothing.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain/profile"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
)

// DashboardStats are the four headline numbers on the dashboard.
type DashboardStats struct {
	// TotalReviews sums the profile-level counters, not the live review store.
	// The two can diverge when ingestion lags profile sync; that divergence is
	// intentional and preserved.
	TotalReviews int `json:"total_reviews"`
	// AverageRating is the arithmetic mean of each profile's average, 0 when no
	// profiles exist.
	AverageRating float64 `json:"average_rating"`
	// ResponseRate is the percentage of reviews with a reply, rounded to the
	// nearest integer, 0 when no reviews exist.
	ResponseRate int `json:"response_rate"`
	// PendingCount is the number of reviews still awaiting a response.
	PendingCount int `json:"pending_count"`
}

// Compute derives the headline stats from store snapshots.
func Compute(profiles []*profile.BusinessProfile, reviews []*review.Review) DashboardStats {
	stats := DashboardStats{}

	var ratingSum float64
	for _, p := range profiles {
		stats.TotalReviews += p.ReviewCount
		ratingSum += p.AverageRating
	}
	if len(profiles) > 0 {
		stats.AverageRating = ratingSum / float64(len(profiles))
	}

	replied := 0
	for _, r := range reviews {
		if r.HasReply {
			replied++
		}
		if r.Status == review.StatusPending {
			stats.PendingCount++
		}
	}
	if len(reviews) > 0 {
		stats.ResponseRate = int(math.Round(float64(replied) / float64(len(reviews)) * 100))
	}

	return stats
}

// RatingBucket is one row of the reviews-by-rating breakdown.
type RatingBucket struct {
	Rating     int `json:"rating"`
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

// RatingDistribution buckets reviews by star rating, highest first. Percentages are
// rounded to the nearest integer of the total review count.
func RatingDistribution(reviews []*review.Review) []RatingBucket {
	buckets := make([]RatingBucket, 0, review.MaxRating)
	counts := make(map[int]int)
	for _, r := range reviews {
		counts[r.Rating]++
	}
	for rating := review.MaxRating; rating >= review.MinRating; rating-- {
		b := RatingBucket{Rating: rating, Count: counts[rating]}
		if len(reviews) > 0 {
			b.Percentage = int(math.Round(float64(b.Count) / float64(len(reviews)) * 100))
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// MonthPoint is one month of review volume and average rating.
type MonthPoint struct {
	Month   string  `json:"month"` // "2026-01"
	Reviews int     `json:"reviews"`
	Rating  float64 `json:"rating"`
}

// MonthlyTrend groups reviews by calendar month of CreatedAt, oldest first.
func MonthlyTrend(reviews []*review.Review) []MonthPoint {
	type acc struct {
		count int
		sum   int
	}
	byMonth := make(map[string]*acc)
	for _, r := range reviews {
		key := r.CreatedAt.Format("2006-01")
		a, ok := byMonth[key]
		if !ok {
			a = &acc{}
			byMonth[key] = a
		}
		a.count++
		a.sum += r.Rating
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]MonthPoint, 0, len(keys))
	for _, k := range keys {
		a := byMonth[k]
		points = append(points, MonthPoint{
			Month:   k,
			Reviews: a.count,
			Rating:  float64(a.sum) / float64(a.count),
		})
	}
	return points
}

// AverageResponseTime is the mean delay between a review arriving and its reply
// being posted, over replied reviews only. Zero when nothing has been replied to.
func AverageResponseTime(reviews []*review.Review) time.Duration {
	var total time.Duration
	replied := 0
	for _, r := range reviews {
		if !r.HasReply || r.ReplyCreatedAt == nil {
			continue
		}
		d := r.ReplyCreatedAt.Sub(r.CreatedAt)
		if d < 0 {
			continue
		}
		total += d
		replied++
	}
	if replied == 0 {
		return 0
	}
	return total / time.Duration(replied)
}

// KeywordCount is one row of the top-keywords breakdown.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	// Count is the number of reviews mentioning the keyword.
	Count int `json:"count"`
	// Sentiment is the most common sentiment among those reviews.
	Sentiment review.Sentiment `json:"sentiment"`
}

// keywordStopwords are filler words excluded from the keyword counts.
var keywordStopwords = map[string]bool{
	"the": true, "and": true, "was": true, "were": true, "this": true,
	"that": true, "with": true, "for": true, "but": true, "had": true,
	"has": true, "have": true, "not": true, "are": true, "our": true,
	"you": true, "your": true, "they": true, "their": true, "there": true,
	"here": true, "very": true, "too": true, "got": true, "get": true,
	"just": true, "out": true, "all": true, "would": true, "will": true,
	"been": true, "from": true, "when": true, "what": true, "really": true,
}

// TopKeywords counts keyword mentions across review text, most mentioned first
// (ties alphabetical), truncated to limit. A keyword counts once per review; its
// sentiment is the dominant sentiment of the reviews mentioning it.
func TopKeywords(reviews []*review.Review, limit int) []KeywordCount {
	type tally struct {
		count       int
		bySentiment map[review.Sentiment]int
	}
	tallies := make(map[string]*tally)

	for _, r := range reviews {
		words := strings.FieldsFunc(strings.ToLower(r.Text), func(c rune) bool {
			return !unicode.IsLetter(c) && !unicode.IsNumber(c)
		})
		seen := make(map[string]bool)
		for _, w := range words {
			if len(w) < 3 || keywordStopwords[w] || seen[w] {
				continue
			}
			seen[w] = true
			t, ok := tallies[w]
			if !ok {
				t = &tally{bySentiment: make(map[review.Sentiment]int)}
				tallies[w] = t
			}
			t.count++
			t.bySentiment[r.Sentiment]++
		}
	}

	out := make([]KeywordCount, 0, len(tallies))
	for w, t := range tallies {
		dominant := review.SentimentNeutral
		best := -1
		for _, s := range review.AllSentiments() {
			if t.bySentiment[s] > best {
				best = t.bySentiment[s]
				dominant = s
			}
		}
		out = append(out, KeywordCount{Keyword: w, Count: t.count, Sentiment: dominant})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SentimentCount is the review volume per sentiment.
type SentimentCount struct {
	Sentiment review.Sentiment `json:"sentiment"`
	Count     int              `json:"count"`
}

// SentimentBreakdown counts reviews per sentiment in fixed positive/neutral/negative
// order.
func SentimentBreakdown(reviews []*review.Review) []SentimentCount {
	counts := make(map[review.Sentiment]int)
	for _, r := range reviews {
		counts[r.Sentiment]++
	}
	out := make([]SentimentCount, 0, 3)
	for _, s := range review.AllSentiments() {
		out = append(out, SentimentCount{Sentiment: s, Count: counts[s]})
	}
	return out
}

package analytics

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain/profile"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
)

func mkReview(id string, rating int, sentiment review.Sentiment, created time.Time) *review.Review {
	return &review.Review{
		ID:                id,
		BusinessProfileID: "prof-1",
		ReviewerName:      "Reviewer " + id,
		Rating:            rating,
		Text:              "text " + id,
		CreatedAt:         created,
		Sentiment:         sentiment,
		Status:            review.StatusPending,
	}
}

func replied(r *review.Review, after time.Duration) *review.Review {
	r.PostReply("Thanks!", r.CreatedAt.Add(after))
	return r
}

func TestComputeHeadlineStats(t *testing.T) {
	profiles := []*profile.BusinessProfile{
		{ID: "p1", Name: "Cafe Milano", ReviewCount: 127, AverageRating: 4.3},
		{ID: "p2", Name: "Cafe Roma", ReviewCount: 89, AverageRating: 4.7},
	}

	now := time.Now()
	reviews := []*review.Review{
		replied(mkReview("r1", 5, review.SentimentPositive, now), time.Hour),
		mkReview("r2", 2, review.SentimentNegative, now),
		mkReview("r3", 4, review.SentimentPositive, now),
		replied(mkReview("r4", 3, review.SentimentNeutral, now), 2*time.Hour),
	}

	stats := Compute(profiles, reviews)

	// Total comes from the profile counters, not the live store: 127 + 89.
	if stats.TotalReviews != 216 {
		t.Errorf("TotalReviews = %d, want 216", stats.TotalReviews)
	}
	if diff := stats.AverageRating - 4.5; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("AverageRating = %.2f, want 4.5", stats.AverageRating)
	}
	if stats.ResponseRate != 50 {
		t.Errorf("ResponseRate = %d, want 50", stats.ResponseRate)
	}
	if stats.PendingCount != 2 {
		t.Errorf("PendingCount = %d, want 2", stats.PendingCount)
	}
}

func TestComputeEmpty(t *testing.T) {
	stats := Compute(nil, nil)
	if stats.TotalReviews != 0 || stats.AverageRating != 0 || stats.ResponseRate != 0 || stats.PendingCount != 0 {
		t.Errorf("empty stats = %+v, want zeros", stats)
	}
}

func TestComputeResponseRateRounding(t *testing.T) {
	now := time.Now()
	reviews := []*review.Review{
		replied(mkReview("r1", 5, review.SentimentPositive, now), time.Hour),
		mkReview("r2", 4, review.SentimentPositive, now),
		mkReview("r3", 3, review.SentimentNeutral, now),
	}
	// 1/3 = 33.33 -> rounds to 33
	if got := Compute(nil, reviews).ResponseRate; got != 33 {
		t.Errorf("ResponseRate = %d, want 33", got)
	}
}

func TestComputeResponseRateAllReplied(t *testing.T) {
	now := time.Now()
	reviews := []*review.Review{
		replied(mkReview("r1", 5, review.SentimentPositive, now), time.Hour),
		replied(mkReview("r2", 4, review.SentimentPositive, now), time.Hour),
	}
	if got := Compute(nil, reviews).ResponseRate; got != 100 {
		t.Errorf("ResponseRate = %d, want 100 when every review has a reply", got)
	}
}

func TestRatingDistribution(t *testing.T) {
	now := time.Now()
	reviews := []*review.Review{
		mkReview("r1", 5, review.SentimentPositive, now),
		mkReview("r2", 5, review.SentimentPositive, now),
		mkReview("r3", 4, review.SentimentPositive, now),
		mkReview("r4", 1, review.SentimentNegative, now),
	}

	buckets := RatingDistribution(reviews)
	if len(buckets) != 5 {
		t.Fatalf("got %d buckets, want 5", len(buckets))
	}

	// Highest rating first.
	if buckets[0].Rating != 5 || buckets[4].Rating != 1 {
		t.Errorf("bucket order: first=%d last=%d, want 5..1", buckets[0].Rating, buckets[4].Rating)
	}
	if buckets[0].Count != 2 || buckets[0].Percentage != 50 {
		t.Errorf("5-star bucket = %+v, want count 2, 50%%", buckets[0])
	}
	if buckets[1].Count != 1 || buckets[1].Percentage != 25 {
		t.Errorf("4-star bucket = %+v", buckets[1])
	}
	if buckets[2].Count != 0 || buckets[2].Percentage != 0 {
		t.Errorf("3-star bucket = %+v, want empty", buckets[2])
	}
}

func TestMonthlyTrend(t *testing.T) {
	reviews := []*review.Review{
		mkReview("r1", 5, review.SentimentPositive, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)),
		mkReview("r2", 3, review.SentimentNeutral, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)),
		mkReview("r3", 4, review.SentimentPositive, time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)),
	}

	points := MonthlyTrend(reviews)
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Month != "2026-01" || points[1].Month != "2026-02" {
		t.Errorf("months = %s, %s; want oldest first", points[0].Month, points[1].Month)
	}
	if points[0].Reviews != 2 || points[0].Rating != 3.5 {
		t.Errorf("2026-01 = %+v, want 2 reviews avg 3.5", points[0])
	}
	if points[1].Reviews != 1 || points[1].Rating != 5 {
		t.Errorf("2026-02 = %+v", points[1])
	}
}

func TestAverageResponseTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("averages replied reviews only", func(t *testing.T) {
		reviews := []*review.Review{
			replied(mkReview("r1", 5, review.SentimentPositive, now), 2*time.Hour),
			replied(mkReview("r2", 4, review.SentimentPositive, now), 4*time.Hour),
			mkReview("r3", 3, review.SentimentNeutral, now),
		}
		if got := AverageResponseTime(reviews); got != 3*time.Hour {
			t.Errorf("AverageResponseTime = %v, want 3h", got)
		}
	})

	t.Run("zero when nothing replied", func(t *testing.T) {
		reviews := []*review.Review{mkReview("r1", 5, review.SentimentPositive, now)}
		if got := AverageResponseTime(reviews); got != 0 {
			t.Errorf("AverageResponseTime = %v, want 0", got)
		}
	})
}

func TestSentimentBreakdown(t *testing.T) {
	now := time.Now()
	reviews := []*review.Review{
		mkReview("r1", 5, review.SentimentPositive, now),
		mkReview("r2", 5, review.SentimentPositive, now),
		mkReview("r3", 1, review.SentimentNegative, now),
	}

	counts := SentimentBreakdown(reviews)
	if len(counts) != 3 {
		t.Fatalf("got %d sentiments, want 3", len(counts))
	}
	if counts[0].Sentiment != review.SentimentPositive || counts[0].Count != 2 {
		t.Errorf("positive = %+v", counts[0])
	}
	if counts[1].Sentiment != review.SentimentNeutral || counts[1].Count != 0 {
		t.Errorf("neutral = %+v", counts[1])
	}
	if counts[2].Sentiment != review.SentimentNegative || counts[2].Count != 1 {
		t.Errorf("negative = %+v", counts[2])
	}
}

func textReview(id, text string, sentiment review.Sentiment) *review.Review {
	r := mkReview(id, 4, sentiment, time.Now())
	r.Text = text
	return r
}

func TestTopKeywords(t *testing.T) {
	reviews := []*review.Review{
		textReview("r1", "Great coffee and great atmosphere", review.SentimentPositive),
		textReview("r2", "The coffee was cold", review.SentimentNegative),
		textReview("r3", "Coffee is my go to", review.SentimentPositive),
	}

	got := TopKeywords(reviews, 10)
	if len(got) == 0 {
		t.Fatal("got no keywords")
	}
	if got[0].Keyword != "coffee" || got[0].Count != 3 {
		t.Errorf("top keyword = %+v, want coffee x3", got[0])
	}
	if got[0].Sentiment != review.SentimentPositive {
		t.Errorf("coffee sentiment = %s, want positive", got[0].Sentiment)
	}
	for _, k := range got {
		if k.Keyword == "the" || k.Keyword == "and" || k.Keyword == "was" {
			t.Errorf("stopword %q in keywords", k.Keyword)
		}
		if len(k.Keyword) < 3 {
			t.Errorf("short word %q in keywords", k.Keyword)
		}
	}
}

func TestTopKeywordsCountsOncePerReview(t *testing.T) {
	reviews := []*review.Review{
		textReview("r1", "Pizza pizza pizza", review.SentimentPositive),
		textReview("r2", "Decent pizza", review.SentimentNeutral),
	}

	got := TopKeywords(reviews, 10)
	if len(got) == 0 || got[0].Keyword != "pizza" {
		t.Fatalf("keywords = %+v, want pizza first", got)
	}
	if got[0].Count != 2 {
		t.Errorf("pizza count = %d, want 2 (once per review)", got[0].Count)
	}
}

func TestTopKeywordsOrderAndLimit(t *testing.T) {
	reviews := []*review.Review{
		textReview("r1", "Lovely service lovely staff", review.SentimentPositive),
		textReview("r2", "Slow service", review.SentimentNegative),
		textReview("r3", "Service again", review.SentimentNeutral),
	}

	got := TopKeywords(reviews, 2)
	if len(got) != 2 {
		t.Fatalf("got %d keywords, want limit 2", len(got))
	}
	if got[0].Keyword != "service" || got[0].Count != 3 {
		t.Errorf("first = %+v, want service x3", got[0])
	}
	// Count ties break alphabetically.
	all := TopKeywords(reviews, 0)
	for i := 1; i < len(all); i++ {
		if all[i-1].Count == all[i].Count && all[i-1].Keyword > all[i].Keyword {
			t.Errorf("tie order: %q before %q", all[i-1].Keyword, all[i].Keyword)
		}
	}
}

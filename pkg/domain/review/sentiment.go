package review

import (
	"encoding/json"
	"fmt"
)

// Sentiment classifies a review's tone. It is supplied by the ingestion feed, never
// derived in-core.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// AllSentiments returns all valid sentiments.
func AllSentiments() []Sentiment {
	return []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}
}

// IsValid returns true if the sentiment is a valid value.
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sentiment.
func (s Sentiment) String() string {
	return string(s)
}

// ParseSentiment parses a string into a Sentiment.
func ParseSentiment(s string) (Sentiment, error) {
	sentiment := Sentiment(s)
	if !sentiment.IsValid() {
		return "", fmt.Errorf("invalid sentiment: %s", s)
	}
	return sentiment, nil
}

// MarshalJSON implements json.Marshaler interface.
func (s Sentiment) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (s *Sentiment) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	// Ingestion feeds that omit sentiment default to neutral
	if str == "" {
		*s = SentimentNeutral
		return nil
	}

	sentiment := Sentiment(str)
	if !sentiment.IsValid() {
		return fmt.Errorf("invalid sentiment: %s", str)
	}

	*s = sentiment
	return nil
}

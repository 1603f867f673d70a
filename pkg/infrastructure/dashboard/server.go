// Package dashboard provides a web-based UI for review management.
package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/reviewdesk/pkg/application"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/analytics"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/profile"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
)

//go:embed templates/*
var templatesFS embed.FS

// ReviewProvider exposes the review operations the dashboard needs.
type ReviewProvider interface {
	ListVisible(query string, tag review.FilterTag) []*review.Review
	Get(id string) (*review.Review, error)
	Approve(id, actor string) (*review.Review, error)
	BeginEdit(id string) (string, error)
	SaveEdit(id, text, actor string) (*review.Review, error)
	CancelEdit(id string) error
	Ignore(id, actor string) (*review.Review, error)
}

// InsightsProvider exposes aggregate statistics for the dashboard.
type InsightsProvider interface {
	Stats() analytics.DashboardStats
	FullReport() application.Report
}

// ProfileProvider lists the connected business profiles.
type ProfileProvider interface {
	List() []*profile.BusinessProfile
}

// Server is the dashboard HTTP server.
type Server struct {
	addr     string
	reviews  ReviewProvider
	insights InsightsProvider
	profiles ProfileProvider
	events   http.Handler
	server   *http.Server
	tmpl     *template.Template
}

// NewServer creates a new dashboard server. The events handler is optional;
// when non-nil it is mounted at /events for live updates.
func NewServer(addr string, reviews ReviewProvider, insights InsightsProvider, profiles ProfileProvider, events http.Handler) (*Server, error) {
	funcMap := template.FuncMap{
		"statusClass":    statusClass,
		"sentimentClass": sentimentClass,
		"stars":          stars,
		"formatTime":     formatTime,
		"json":           toJSON,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Server{
		addr:     addr,
		reviews:  reviews,
		insights: insights,
		profiles: profiles,
		events:   events,
		tmpl:     tmpl,
	}, nil
}

// Handler builds the HTTP mux so tests can exercise routes without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /reviews", s.handleReviews)
	mux.HandleFunc("GET /analytics", s.handleAnalytics)
	mux.HandleFunc("GET /api/stats", s.handleAPIStats)
	mux.HandleFunc("GET /api/report", s.handleAPIReport)
	mux.HandleFunc("GET /api/reviews", s.handleAPIReviews)
	mux.HandleFunc("GET /api/profiles", s.handleAPIProfiles)
	mux.HandleFunc("POST /api/reviews/{id}/approve", s.handleApprove)
	mux.HandleFunc("POST /api/reviews/{id}/reply", s.handleReply)
	mux.HandleFunc("POST /api/reviews/{id}/ignore", s.handleIgnore)

	if s.events != nil {
		mux.Handle("GET /events", s.events)
	}

	return mux
}

// Start starts the dashboard server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
	}

	log.Printf("Dashboard server starting on %s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// PageData holds data for template rendering.
type PageData struct {
	Title    string
	Query    string
	Tab      review.FilterTag
	Tabs     []review.FilterTag
	Reviews  []*review.Review
	Stats    analytics.DashboardStats
	Report   application.Report
	Response string
	Profiles []*profile.BusinessProfile
	Error    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := PageData{
		Title:    "Dashboard",
		Stats:    s.insights.Stats(),
		Reviews:  s.reviews.ListVisible("", review.FilterPending),
		Profiles: s.profiles.List(),
	}
	s.render(w, "index.html", data)
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	tag, err := review.ParseFilterTag(r.URL.Query().Get("tab"))
	if err != nil {
		tag = review.FilterAll
	}
	query := r.URL.Query().Get("q")

	data := PageData{
		Title:   "Reviews",
		Query:   query,
		Tab:     tag,
		Tabs:    review.AllFilterTags(),
		Reviews: s.reviews.ListVisible(query, tag),
	}
	s.render(w, "reviews.html", data)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	report := s.insights.FullReport()
	data := PageData{
		Title:    "Analytics",
		Stats:    report.Stats,
		Report:   report,
		Response: formatDuration(report.AvgResponseTime),
	}
	s.render(w, "analytics.html", data)
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.insights.Stats())
}

func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.insights.FullReport())
}

func (s *Server) handleAPIReviews(w http.ResponseWriter, r *http.Request) {
	tag, err := review.ParseFilterTag(r.URL.Query().Get("tab"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, s.reviews.ListVisible(r.URL.Query().Get("q"), tag))
}

func (s *Server) handleAPIProfiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.profiles.List())
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	updated, err := s.reviews.Approve(r.PathValue("id"), actorFor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, updated)
}

func (s *Server) handleReply(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	text := r.FormValue("text")

	if _, err := s.reviews.BeginEdit(id); err != nil {
		writeError(w, err)
		return
	}
	updated, err := s.reviews.SaveEdit(id, text, actorFor(r))
	if err != nil {
		// Drop the draft opened above so a retry starts clean.
		_ = s.reviews.CancelEdit(id)
		writeError(w, err)
		return
	}
	writeJSON(w, updated)
}

func (s *Server) handleIgnore(w http.ResponseWriter, r *http.Request) {
	updated, err := s.reviews.Ignore(r.PathValue("id"), actorFor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, updated)
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func actorFor(r *http.Request) string {
	if actor := r.Header.Get("X-Actor"); actor != "" {
		return actor
	}
	return "dashboard"
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState):
		status = http.StatusConflict
	}
	http.Error(w, err.Error(), status)
}

// Template helper functions
func statusClass(status review.ReviewStatus) string {
	switch status {
	case review.StatusPending:
		return "status-pending"
	case review.StatusReplied:
		return "status-replied"
	case review.StatusIgnored:
		return "status-ignored"
	default:
		return "status-unknown"
	}
}

func sentimentClass(s review.Sentiment) string {
	switch s {
	case review.SentimentPositive:
		return "mood-positive"
	case review.SentimentNegative:
		return "mood-negative"
	default:
		return "mood-neutral"
	}
}

func stars(rating int) string {
	if rating < review.MinRating || rating > review.MaxRating {
		return "-"
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", review.MaxRating-rating)
}

func formatTime(v interface{}) string {
	var t time.Time
	switch ts := v.(type) {
	case time.Time:
		t = ts
	case *time.Time:
		if ts == nil {
			return "-"
		}
		t = *ts
	default:
		return "-"
	}
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d >= 24*time.Hour {
		return fmt.Sprintf("%.1fd", d.Hours()/24)
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}

func toJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

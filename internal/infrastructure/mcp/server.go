// Package mcp exposes review management over the Model Context Protocol so
// agent clients can triage and answer reviews programmatically.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/reviewdesk/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/reviewdesk/pkg/application"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
)

type Server struct {
	mcpServer  *mcp.Server
	reviewSvc  *application.ReviewService
	ingestSvc  *application.IngestService
	insightSvc *application.InsightsService
	suggestSvc *application.SuggestService
	root       string
}

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// mcpErr returns a user-friendly error for MCP clients.
// Internal details are omitted; only the friendly message is returned.
func mcpErr(friendly string) error {
	return fmt.Errorf("%s", friendly)
}

func NewServer(root string) (*Server, error) {
	services, err := wiring.BuildAppServices(root)
	if err != nil {
		return nil, fmt.Errorf("build services: %w", err)
	}

	info := mcp.ServerInfo{
		Name:    "reviewdesk",
		Version: Version,
	}

	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("Reviewdesk MCP Server"),
			mcp.WithDescription("Reviewdesk exposes customer reviews, reply workflows, and aggregate statistics to MCP clients."),
			mcp.WithWebsiteURL("https://github.com/felixgeelhaar/reviewdesk"),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Use tools to list reviews, approve or edit suggested replies, ignore reviews, and read analytics."),
		),
		reviewSvc:  services.Review,
		ingestSvc:  services.Ingest,
		insightSvc: services.Insights,
		suggestSvc: services.Suggest,
		root:       root,
	}

	s.registerTools()
	s.registerSchemaResource()
	return s, nil
}

type ListReviewsArgs struct {
	Query string `json:"query" jsonschema:"description=Case-insensitive substring matched against reviewer name and review text"`
	Tab   string `json:"tab" jsonschema:"description=Filter tab: all, pending, replied, positive or negative"`
}

type ReviewIDArgs struct {
	ID string `json:"id" jsonschema:"description=The review identifier"`
}

type ReplyArgs struct {
	ID   string `json:"id" jsonschema:"description=The review identifier"`
	Text string `json:"text" jsonschema:"description=The reply text to publish"`
}

type IngestArgs struct {
	YAML string `json:"yaml" jsonschema:"description=A YAML batch of profiles and reviews to load"`
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("reviewdesk_list_reviews").
		Description("List reviews, optionally filtered by search query and tab").
		Handler(s.handleListReviews)

	s.mcpServer.Tool("reviewdesk_get_review").
		Description("Fetch a single review by id").
		Handler(s.handleGetReview)

	s.mcpServer.Tool("reviewdesk_approve").
		Description("Approve the AI-suggested reply of a pending review and publish it").
		Handler(s.handleApprove)

	s.mcpServer.Tool("reviewdesk_reply").
		Description("Publish a custom reply to a pending review").
		Handler(s.handleReply)

	s.mcpServer.Tool("reviewdesk_ignore").
		Description("Mark a pending review as ignored").
		Handler(s.handleIgnore)

	s.mcpServer.Tool("reviewdesk_suggest").
		Description("Generate an AI reply suggestion for a pending review").
		Handler(s.handleSuggest)

	s.mcpServer.Tool("reviewdesk_stats").
		Description("Retrieve the headline dashboard statistics").
		Handler(s.handleStats)

	s.mcpServer.Tool("reviewdesk_report").
		Description("Retrieve the full analytics report with rating, sentiment and monthly breakdowns").
		Handler(s.handleReport)

	s.mcpServer.Tool("reviewdesk_list_profiles").
		Description("List connected business profiles").
		Handler(s.handleListProfiles)

	s.mcpServer.Tool("reviewdesk_ingest").
		Description("Load a YAML batch of profiles and reviews into the store").
		Handler(s.handleIngest)
}

func (s *Server) handleListReviews(ctx context.Context, args ListReviewsArgs) (any, error) {
	tag, err := review.ParseFilterTag(args.Tab)
	if err != nil {
		return nil, mcpErr("Unknown tab. Valid tabs: all, pending, replied, positive, negative.")
	}
	return s.reviewSvc.ListVisible(args.Query, tag), nil
}

func (s *Server) handleGetReview(ctx context.Context, args ReviewIDArgs) (any, error) {
	r, err := s.reviewSvc.Get(args.ID)
	if err != nil {
		return nil, mcpErr("Review not found.")
	}
	return r, nil
}

func (s *Server) handleApprove(ctx context.Context, args ReviewIDArgs) (any, error) {
	r, err := s.reviewSvc.Approve(args.ID, "mcp")
	if err != nil {
		return nil, mcpErr("Failed to approve. The review must be pending and carry an AI suggestion.")
	}
	return r, nil
}

func (s *Server) handleReply(ctx context.Context, args ReplyArgs) (any, error) {
	if _, err := s.reviewSvc.BeginEdit(args.ID); err != nil {
		return nil, mcpErr("Failed to open the reply editor. The review must exist and be pending.")
	}
	r, err := s.reviewSvc.SaveEdit(args.ID, args.Text, "mcp")
	if err != nil {
		return nil, mcpErr("Failed to publish the reply. Reply text cannot be empty.")
	}
	return r, nil
}

func (s *Server) handleIgnore(ctx context.Context, args ReviewIDArgs) (any, error) {
	r, err := s.reviewSvc.Ignore(args.ID, "mcp")
	if err != nil {
		return nil, mcpErr("Failed to ignore. The review must exist and be pending.")
	}
	return r, nil
}

func (s *Server) handleSuggest(ctx context.Context, args ReviewIDArgs) (string, error) {
	text, err := s.suggestSvc.Generate(ctx, args.ID)
	if err != nil {
		return "", mcpErr("Failed to generate a suggestion. Check the AI provider configuration.")
	}
	return text, nil
}

func (s *Server) handleStats(ctx context.Context, args struct{}) (any, error) {
	return s.insightSvc.Stats(), nil
}

func (s *Server) handleReport(ctx context.Context, args struct{}) (any, error) {
	return s.insightSvc.FullReport(), nil
}

func (s *Server) handleListProfiles(ctx context.Context, args struct{}) (any, error) {
	return s.ingestSvc.ListProfiles(), nil
}

func (s *Server) handleIngest(ctx context.Context, args IngestArgs) (string, error) {
	if args.YAML == "" {
		return "", mcpErr("A YAML batch is required.")
	}
	n, err := s.ingestSvc.IngestYAML([]byte(args.YAML), "mcp")
	if err != nil {
		return "", mcpErr("Failed to ingest batch. Check the YAML structure against the feed schema.")
	}
	return fmt.Sprintf("Ingested %d records.", n), nil
}

func (s *Server) Start() error {
	return s.StartStdio()
}

func (s *Server) StartStdio() error {
	return s.ServeStdio(context.Background())
}

func (s *Server) StartHTTP(addr string) error {
	return s.ServeHTTP(context.Background(), addr)
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}

// SchemaVersion is the current MCP tool schema version (semver).
const SchemaVersion = "1.0.0"

type schemaResponse struct {
	SchemaVersion string `json:"schema_version"`
	ServerVersion string `json:"server_version"`
}

func (s *Server) registerSchemaResource() {
	s.mcpServer.Resource("reviewdesk://schema").
		Name("reviewdesk://schema").
		Description("MCP tool schema version info").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcp.ResourceContent, error) {
			data, err := json.Marshal(schemaResponse{
				SchemaVersion: SchemaVersion,
				ServerVersion: Version,
			})
			if err != nil {
				return nil, err
			}
			return &mcp.ResourceContent{
				URI:      "reviewdesk://schema",
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})
}

package wiring

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/reviewdesk/internal/infrastructure/config"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
	"github.com/felixgeelhaar/reviewdesk/pkg/storage"
)

const seedDoc = `
profiles:
  - id: prof-1
    name: Corner Cafe
    review_count: 2
    average_rating: 4.5
reviews:
  - id: rev-1
    business_profile_id: prof-1
    reviewer_name: Sarah Johnson
    rating: 5
    text: Best coffee in town.
    sentiment: positive
`

func writeSeed(t *testing.T, root string) {
	t.Helper()
	dir := filepath.Join(root, storage.WorkspaceDir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, storage.SeedFile), []byte(seedDoc), 0600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
}

func TestBuildAppServices(t *testing.T) {
	root := t.TempDir()
	writeSeed(t, root)

	services, err := BuildAppServices(root)
	if err != nil {
		t.Fatalf("BuildAppServices: %v", err)
	}

	if len(services.Store.List()) != 1 || len(services.Store.ListProfiles()) != 1 {
		t.Error("seed document was not loaded")
	}
	if services.Settings.AIProvider != "template" {
		t.Errorf("AIProvider = %q, want default", services.Settings.AIProvider)
	}

	// The event log lives inside the workspace dir
	if _, err := os.Stat(filepath.Join(root, storage.WorkspaceDir)); err != nil {
		t.Errorf("workspace dir missing: %v", err)
	}
}

func TestBuildAppServicesEmptyWorkspace(t *testing.T) {
	services, err := BuildAppServices(t.TempDir())
	if err != nil {
		t.Fatalf("BuildAppServices: %v", err)
	}
	if len(services.Store.List()) != 0 {
		t.Error("empty workspace should start with no reviews")
	}
}

func TestAutoApprove(t *testing.T) {
	root := t.TempDir()
	writeSeed(t, root)

	cfg := config.DefaultSettings()
	cfg.AutoApprove = true
	if err := config.SaveSettings(root, cfg); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	services, err := BuildAppServices(root)
	if err != nil {
		t.Fatalf("BuildAppServices: %v", err)
	}

	if _, err := services.Suggest.Generate(context.Background(), "rev-1"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	r, err := services.Store.Get("rev-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if r.Status != review.StatusReplied {
		t.Errorf("status = %s, want auto-approved reply", r.Status)
	}
	if r.ReplyText == "" || r.ReplyText != r.AISuggestion {
		t.Errorf("reply text = %q, suggestion = %q", r.ReplyText, r.AISuggestion)
	}
}

func TestAutoApproveOffByDefault(t *testing.T) {
	root := t.TempDir()
	writeSeed(t, root)

	services, err := BuildAppServices(root)
	if err != nil {
		t.Fatalf("BuildAppServices: %v", err)
	}

	if _, err := services.Suggest.Generate(context.Background(), "rev-1"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	r, _ := services.Store.Get("rev-1")
	if r.Status != review.StatusPending {
		t.Errorf("status = %s, want pending without auto-approve", r.Status)
	}
	if r.AISuggestion == "" {
		t.Error("suggestion should be attached")
	}
}

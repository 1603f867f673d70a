package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHint string
	}{
		{
			"invalid state",
			&domain.InvalidStateError{ReviewID: "rev-1", Status: "replied", Event: "approve"},
			"only pending reviews",
		},
		{
			"not found",
			&domain.NotFoundError{Kind: "review", ID: "ghost"},
			"reviewdesk reviews list",
		},
		{
			"validation",
			&domain.ValidationError{Field: "reply_text", Reason: "cannot be empty"},
			"Fix the flagged field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			var cliErr *CLIError
			if !errors.As(mapped, &cliErr) {
				t.Fatalf("MapError(%v) = %T, want *CLIError", tt.err, mapped)
			}
			if !strings.Contains(cliErr.Hint, tt.wantHint) {
				t.Errorf("hint = %q, want it to contain %q", cliErr.Hint, tt.wantHint)
			}
			if cliErr.ExitCode != 1 {
				t.Errorf("exit code = %d", cliErr.ExitCode)
			}
			if !errors.Is(mapped, tt.err) {
				t.Error("mapped error should wrap the original")
			}
		})
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	if MapError(nil) != nil {
		t.Error("MapError(nil) should be nil")
	}

	plain := errors.New("disk on fire")
	if got := MapError(plain); got != plain {
		t.Errorf("unmapped error = %v, want passthrough", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a much longer piece of text", 10, "a much ..."},
		{"abcdef", 3, "abc"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

// Package config loads and saves workspace settings files.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain/messaging"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/suggest"
	"github.com/felixgeelhaar/reviewdesk/pkg/storage"
)

// Settings stores reply preferences outside the domain: how suggestions are
// generated and whether approvals need a human.
type Settings struct {
	BusinessName string `yaml:"business_name"`
	ReplyTone    string `yaml:"reply_tone"`
	// AutoApprove approves fresh suggestions without review. Off by default;
	// nobody wants an unread reply posted to an angry customer.
	AutoApprove bool   `yaml:"auto_approve"`
	Template    string `yaml:"template"`
	AIProvider  string `yaml:"ai_provider"`
	AIModel     string `yaml:"ai_model"`

	Messaging *messaging.MessagingConfig `yaml:"messaging,omitempty"`
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() *Settings {
	return &Settings{
		ReplyTone:  string(suggest.ToneProfessional),
		AIProvider: "template",
	}
}

// Tone parses the configured reply tone, falling back to professional.
func (s *Settings) Tone() suggest.Tone {
	tone, err := suggest.ParseTone(s.ReplyTone)
	if err != nil {
		return suggest.ToneProfessional
	}
	return tone
}

// LoadSettings reads settings.yaml from the workspace. Returns defaults when the
// file does not exist yet.
func LoadSettings(root string) (*Settings, error) {
	ws := storage.NewFilesystemWorkspace(root)
	data, err := ws.ReadFile(storage.SettingsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if data == nil {
		return DefaultSettings(), nil
	}

	var cfg Settings
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if cfg.ReplyTone == "" {
		cfg.ReplyTone = string(suggest.ToneProfessional)
	}
	return &cfg, nil
}

// SaveSettings writes settings.yaml to the workspace.
func SaveSettings(root string, cfg *Settings) error {
	if cfg == nil {
		return fmt.Errorf("settings is nil")
	}
	if _, err := suggest.ParseTone(cfg.ReplyTone); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	ws := storage.NewFilesystemWorkspace(root)
	return ws.WriteFile(storage.SettingsFile, data)
}

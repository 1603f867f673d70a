package ai

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/reviewdesk/pkg/domain/suggest"
)

// NewProvider builds a suggestion backend by name. The empty name selects the
// offline template engine so the tool works without credentials.
func NewProvider(providerName string, modelName string) (suggest.Provider, error) {
	switch providerName {
	case "template", "":
		return NewTemplateProvider(), nil
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		return NewOpenAIProvider(modelName, apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", providerName)
	}
}

// GetDefaultProvider returns a provider based on environment variables or settings
// defaults, wrapped with retry and timeout.
func GetDefaultProvider(providerName, modelName string) (suggest.Provider, error) {
	if env := os.Getenv("REVIEWDESK_AI_PROVIDER"); env != "" {
		providerName = env
	}
	if env := os.Getenv("REVIEWDESK_AI_MODEL"); env != "" {
		modelName = env
	}

	inner, err := NewProvider(providerName, modelName)
	if err != nil {
		return nil, err
	}
	return NewResilientProvider(inner), nil
}

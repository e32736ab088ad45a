package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// ModerationGate classifies query text via the OpenAI Moderations API.
// The search orchestrator treats a gate error as a rejection (fail closed).
type ModerationGate struct {
	client *openai.Client
	model  string
}

// ModerationConfig holds content gate settings.
type ModerationConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewModerationGate creates a content gate over the Moderations API.
func NewModerationGate(cfg *ModerationConfig) *ModerationGate {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.ModerationOmniLatest
	}
	return &ModerationGate{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// IsExplicit reports whether the text is flagged by the moderation model.
func (g *ModerationGate) IsExplicit(ctx context.Context, text string) (bool, error) {
	resp, err := g.client.Moderations(ctx, openai.ModerationRequest{
		Input: text,
		Model: g.model,
	})
	if err != nil {
		return false, fmt.Errorf("moderation request: %w", err)
	}
	for _, res := range resp.Results {
		if res.Flagged {
			return true, nil
		}
	}
	return false, nil
}

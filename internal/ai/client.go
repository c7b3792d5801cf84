package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/uisketch/uisketch/internal/config"
	"github.com/uisketch/uisketch/internal/models"
)

// ErrEmptyCompletion is returned when the upstream model replies with no
// usable message content.
var ErrEmptyCompletion = errors.New("ai: empty completion")

// Completion is a single model reply plus its token accounting.
type Completion struct {
	Text        string
	TokensUsed  int
	Model       string
	FinishEmpty bool
}

// TextGenerator produces chat completions. The production implementation
// talks to an OpenAI-compatible endpoint; tests substitute a fake.
type TextGenerator interface {
	Complete(ctx context.Context, tier models.ModelTier, system, user string, temperature float32) (Completion, error)
}

// Client routes completion requests to the configured model preset for
// each tier.
type Client struct {
	mini      *openai.Client
	pro       *openai.Client
	miniModel string
	proModel  string
}

// NewClient builds a Client from the preset configuration. Each preset
// gets its own underlying connection so the tiers can point at different
// providers.
func NewClient(cfg config.AIConfig) *Client {
	return &Client{
		mini:      newPresetClient(cfg.Mini),
		pro:       newPresetClient(cfg.Pro),
		miniModel: cfg.Mini.Model,
		proModel:  cfg.Pro.Model,
	}
}

func newPresetClient(preset config.ModelPreset) *openai.Client {
	c := openai.DefaultConfig(preset.APIKey)
	if strings.TrimSpace(preset.BaseURL) != "" {
		c.BaseURL = preset.BaseURL
	}
	return openai.NewClientWithConfig(c)
}

// Complete sends one system+user exchange to the preset for the given
// tier and returns the reply text with its token usage.
func (c *Client) Complete(ctx context.Context, tier models.ModelTier, system, user string, temperature float32) (Completion, error) {
	cli, model := c.mini, c.miniModel
	if tier == models.TierPro {
		cli, model = c.pro, c.proModel
	}

	resp, errCreate := cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if errCreate != nil {
		return Completion{}, fmt.Errorf("ai: chat completion: %w", errCreate)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return Completion{Model: model, TokensUsed: resp.Usage.TotalTokens, FinishEmpty: true}, ErrEmptyCompletion
	}
	return Completion{
		Text:       resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
		Model:      model,
	}, nil
}

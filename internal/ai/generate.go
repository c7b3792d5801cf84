package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/uisketch/uisketch/internal/models"
)

const (
	singleTemperature     = 0.7
	variationsTemperature = 0.8
	editTemperature       = 0.5
)

// ErrNoValidVariations is returned when a variations completion yields
// no fragment that passes validation.
var ErrNoValidVariations = errors.New("ai: no valid variations were generated")

// Variation is one validated design alternative from a variations run.
type Variation struct {
	Index int    `json:"index"`
	Code  string `json:"code"`
}

// VariationsResult carries the usable variations plus token accounting
// for the whole completion.
type VariationsResult struct {
	Variations []Variation `json:"variations"`
	TokensUsed int         `json:"tokensUsed"`
}

// EditResult carries a validated edit of an existing fragment.
type EditResult struct {
	Code       string `json:"code"`
	TokensUsed int    `json:"tokensUsed"`
}

// GenerateVariations asks the model for three design alternatives and
// keeps only the fragments that extract and validate cleanly. Indexes
// are assigned by position among the survivors, starting at 1.
func GenerateVariations(ctx context.Context, gen TextGenerator, prompt string, library models.UILibrary, device models.DeviceType, tier models.ModelTier) (VariationsResult, error) {
	completion, errComplete := gen.Complete(ctx, tier,
		VariationsSystemPrompt(library, device),
		VariationsUserPrompt(prompt),
		variationsTemperature)
	if errComplete != nil {
		return VariationsResult{TokensUsed: completion.TokensUsed}, errComplete
	}

	result := VariationsResult{TokensUsed: completion.TokensUsed}
	for _, code := range ExtractVariations(completion.Text) {
		if v := ValidateCode(code); !v.Valid {
			continue
		}
		result.Variations = append(result.Variations, Variation{
			Index: len(result.Variations) + 1,
			Code:  code,
		})
	}
	if len(result.Variations) == 0 {
		return result, ErrNoValidVariations
	}
	return result, nil
}

// GenerateSingle asks the model for one mockup fragment and validates it.
func GenerateSingle(ctx context.Context, gen TextGenerator, prompt string, library models.UILibrary, device models.DeviceType, tier models.ModelTier) (EditResult, error) {
	completion, errComplete := gen.Complete(ctx, tier,
		SystemPrompt(library, device),
		UserPrompt(prompt),
		singleTemperature)
	if errComplete != nil {
		return EditResult{TokensUsed: completion.TokensUsed}, errComplete
	}

	code := ExtractCode(completion.Text)
	if v := ValidateCode(code); !v.Valid {
		return EditResult{TokensUsed: completion.TokensUsed}, fmt.Errorf("ai: generated code rejected: %v", v.Issues)
	}
	return EditResult{Code: code, TokensUsed: completion.TokensUsed}, nil
}

// EditCode asks the model to apply the requested modifications to an
// existing fragment and validates the result.
func EditCode(ctx context.Context, gen TextGenerator, currentHTML, instructions string, tier models.ModelTier) (EditResult, error) {
	completion, errComplete := gen.Complete(ctx, tier,
		EditSystemPrompt(),
		EditUserPrompt(currentHTML, instructions),
		editTemperature)
	if errComplete != nil {
		return EditResult{TokensUsed: completion.TokensUsed}, errComplete
	}

	code := ExtractCode(completion.Text)
	if v := ValidateCode(code); !v.Valid {
		return EditResult{TokensUsed: completion.TokensUsed}, fmt.Errorf("ai: edited code rejected: %v", v.Issues)
	}
	return EditResult{Code: code, TokensUsed: completion.TokensUsed}, nil
}

package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/uisketch/uisketch/internal/models"
)

type fakeGenerator struct {
	reply  string
	tokens int
	err    error

	lastSystem string
	lastUser   string
	lastTemp   float32
	lastTier   models.ModelTier
}

func (f *fakeGenerator) Complete(_ context.Context, tier models.ModelTier, system, user string, temperature float32) (Completion, error) {
	f.lastSystem = system
	f.lastUser = user
	f.lastTemp = temperature
	f.lastTier = tier
	if f.err != nil {
		return Completion{TokensUsed: f.tokens}, f.err
	}
	return Completion{Text: f.reply, TokensUsed: f.tokens}, nil
}

func TestGenerateVariations_KeepsValidOnly(t *testing.T) {
	gen := &fakeGenerator{
		reply: "```html variation-1\n<div class=\"a\">one</div>\n```\n" +
			"```html variation-2\n<p>no container</p>\n```\n" +
			"```html variation-3\n<div class=\"c\">three</div>\n```",
		tokens: 321,
	}
	res, errGen := GenerateVariations(context.Background(), gen, "a dashboard", models.LibraryShadcn, models.DeviceDesktop, models.TierMini)
	if errGen != nil {
		t.Fatalf("unexpected error: %v", errGen)
	}
	if len(res.Variations) != 2 {
		t.Fatalf("expected 2 surviving variations, got %d", len(res.Variations))
	}
	if res.Variations[0].Index != 1 || res.Variations[1].Index != 2 {
		t.Fatalf("indexes not compacted: %+v", res.Variations)
	}
	if res.TokensUsed != 321 {
		t.Fatalf("tokens not propagated: %d", res.TokensUsed)
	}
	if gen.lastTemp != variationsTemperature {
		t.Fatalf("unexpected temperature: %v", gen.lastTemp)
	}
	if !strings.Contains(gen.lastUser, "a dashboard") {
		t.Fatal("prompt missing from user message")
	}
}

func TestGenerateVariations_NoneValid(t *testing.T) {
	gen := &fakeGenerator{reply: "sorry, I cannot help with that"}
	_, errGen := GenerateVariations(context.Background(), gen, "x", models.LibraryShadcn, models.DeviceMobile, models.TierMini)
	if !errors.Is(errGen, ErrNoValidVariations) {
		t.Fatalf("expected ErrNoValidVariations, got %v", errGen)
	}
}

func TestGenerateVariations_UpstreamError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("rate limited"), tokens: 7}
	res, errGen := GenerateVariations(context.Background(), gen, "x", models.LibraryShadcn, models.DeviceMobile, models.TierPro)
	if errGen == nil {
		t.Fatal("expected error")
	}
	if res.TokensUsed != 7 {
		t.Fatalf("tokens not propagated on error: %d", res.TokensUsed)
	}
	if gen.lastTier != models.TierPro {
		t.Fatalf("tier not forwarded: %s", gen.lastTier)
	}
}

func TestEditCode_Valid(t *testing.T) {
	gen := &fakeGenerator{
		reply:  "```html\n<div class=\"edited\">done</div>\n```",
		tokens: 55,
	}
	res, errEdit := EditCode(context.Background(), gen, `<div class="old">x</div>`, "change text", models.TierMini)
	if errEdit != nil {
		t.Fatalf("unexpected error: %v", errEdit)
	}
	if res.Code != `<div class="edited">done</div>` {
		t.Fatalf("unexpected code: %q", res.Code)
	}
	if gen.lastTemp != editTemperature {
		t.Fatalf("unexpected temperature: %v", gen.lastTemp)
	}
	if !strings.Contains(gen.lastUser, `<div class="old">x</div>`) {
		t.Fatal("current HTML missing from edit prompt")
	}
}

func TestEditCode_RejectsInvalid(t *testing.T) {
	gen := &fakeGenerator{reply: "```html\n<div class=\"x\"><script>boom</script></div>\n```"}
	_, errEdit := EditCode(context.Background(), gen, "<div class=\"a\">a</div>", "add tracking", models.TierMini)
	if errEdit == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(errEdit.Error(), "Script tags not allowed") {
		t.Fatalf("unexpected error: %v", errEdit)
	}
}

func TestGenerateSingle_Valid(t *testing.T) {
	gen := &fakeGenerator{reply: "```html\n<div class=\"solo\">one</div>\n```"}
	res, errGen := GenerateSingle(context.Background(), gen, "a login page", models.LibraryMaterial, models.DeviceTablet, models.TierMini)
	if errGen != nil {
		t.Fatalf("unexpected error: %v", errGen)
	}
	if res.Code != `<div class="solo">one</div>` {
		t.Fatalf("unexpected code: %q", res.Code)
	}
	if gen.lastTemp != singleTemperature {
		t.Fatalf("unexpected temperature: %v", gen.lastTemp)
	}
	if !strings.Contains(gen.lastSystem, "768px") {
		t.Fatal("tablet canvas width missing from system prompt")
	}
}

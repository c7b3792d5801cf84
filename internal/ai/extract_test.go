package ai

import "testing"

func TestExtractCode_FencedBlock(t *testing.T) {
	response := "Here you go:\n```html\n<div class=\"p-4\">hi</div>\n```\nEnjoy."
	got := ExtractCode(response)
	if got != `<div class="p-4">hi</div>` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractCode_PlainFence(t *testing.T) {
	response := "```\n<div>bare</div>\n```"
	if got := ExtractCode(response); got != "<div>bare</div>" {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractCode_NoFence(t *testing.T) {
	response := "  <div class=\"x\">loose</div>\n"
	if got := ExtractCode(response); got != `<div class="x">loose</div>` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractVariations_Labeled(t *testing.T) {
	response := "```html variation-1\n<div class=\"a\">one</div>\n```\n" +
		"text between\n" +
		"```html variation-2\n<div class=\"b\">two</div>\n```\n" +
		"```html variation-3\n<div class=\"c\">three</div>\n```"
	got := ExtractVariations(response)
	if len(got) != 3 {
		t.Fatalf("expected 3 variations, got %d", len(got))
	}
	if got[0] != `<div class="a">one</div>` || got[2] != `<div class="c">three</div>` {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestExtractVariations_LabeledOutOfOrder(t *testing.T) {
	response := "```html variation-3\n<div>c</div>\n```\n" +
		"```html variation-1\n<div>a</div>\n```\n" +
		"```html variation-2\n<div>b</div>\n```"
	got := ExtractVariations(response)
	if len(got) != 3 {
		t.Fatalf("expected 3 variations, got %d", len(got))
	}
	if got[0] != "<div>a</div>" || got[1] != "<div>b</div>" || got[2] != "<div>c</div>" {
		t.Fatalf("labels not honored: %v", got)
	}
}

func TestExtractVariations_LabelWhitespace(t *testing.T) {
	response := "```html  variation-1\n<div>a</div>\n```\n" +
		"```html\tvariation-2\n<div>b</div>\n```"
	got := ExtractVariations(response)
	if len(got) != 2 {
		t.Fatalf("expected 2 variations, got %d: %v", len(got), got)
	}
	if got[0] != "<div>a</div>" || got[1] != "<div>b</div>" {
		t.Fatalf("labels not honored: %v", got)
	}
}

func TestExtractVariations_GenericFallback(t *testing.T) {
	response := "```html\n<div class=\"a\">one</div>\n```\n" +
		"```html\nnot markup at all\n```\n" +
		"```html\n<div class=\"b\">two</div>\n```"
	got := ExtractVariations(response)
	if len(got) != 2 {
		t.Fatalf("expected 2 variations, got %d", len(got))
	}
	if got[0] != `<div class="a">one</div>` {
		t.Fatalf("unexpected first variation: %q", got[0])
	}
}

func TestExtractVariations_CapsAtThree(t *testing.T) {
	response := ""
	for i := 1; i <= 5; i++ {
		response += "```html\n<div>block</div>\n```\n"
	}
	if got := ExtractVariations(response); len(got) != 3 {
		t.Fatalf("expected cap at 3, got %d", len(got))
	}
}

func TestExtractVariations_Empty(t *testing.T) {
	if got := ExtractVariations("no code here"); len(got) != 0 {
		t.Fatalf("expected no variations, got %v", got)
	}
}

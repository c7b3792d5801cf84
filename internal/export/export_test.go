package export

import (
	"strings"
	"testing"
)

func TestBuildDocument(t *testing.T) {
	doc := BuildDocument("Mockup - landing page...", `<div class="p-4">hi</div>`)
	if !strings.HasPrefix(doc, "<!DOCTYPE html>") {
		t.Fatal("missing doctype")
	}
	for _, want := range []string{
		"<title>Mockup - landing page...</title>",
		"https://cdn.tailwindcss.com",
		"family=Inter",
		`<div class="p-4">hi</div>`,
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document missing %q", want)
		}
	}
	if doc != BuildDocument("Mockup - landing page...", `<div class="p-4">hi</div>`) {
		t.Fatal("output not deterministic")
	}
}

func TestBuildPreviewDocument(t *testing.T) {
	doc := BuildPreviewDocument(`<div class="x">y</div>`)
	for _, want := range []string{
		`"primary": "#135bec"`,
		"Material+Symbols+Outlined",
		"plugins=forms,container-queries",
		"max-width: 100%;",
		`<div class="x">y</div>`,
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("preview missing %q", want)
		}
	}
}

func TestFileName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Mockup - Pricing Page", "mockup---pricing-page.html"},
		{"  Landing  Page  ", "landing-page.html"},
		{"", "mockup.html"},
	}
	for _, c := range cases {
		if got := FileName(c.in); got != c.want {
			t.Fatalf("%q: got %q want %q", c.in, got, c.want)
		}
	}
}

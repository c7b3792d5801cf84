package ai

import "testing"

func TestValidateCode_Valid(t *testing.T) {
	res := ValidateCode(`<div class="min-h-screen bg-white"><p class="text-lg">ok</p></div>`)
	if !res.Valid {
		t.Fatalf("expected valid, got issues %v", res.Issues)
	}
	if len(res.Issues) != 0 {
		t.Fatalf("expected no issues, got %v", res.Issues)
	}
}

func TestValidateCode_ContainerTags(t *testing.T) {
	for _, code := range []string{
		`<div class="p-4">Hello</div>`,
		`<section class="p-4">Hello</section>`,
		`<main class="p-4">Hello</main>`,
	} {
		res := ValidateCode(code)
		if !res.Valid {
			t.Fatalf("expected valid for %q, got issues %v", code, res.Issues)
		}
	}
}

func TestValidateCode_MissingContainer(t *testing.T) {
	res := ValidateCode(`<p class="x">no container</p>`)
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if res.Issues[0] != "Missing container element" {
		t.Fatalf("unexpected issue: %q", res.Issues[0])
	}
}

func TestValidateCode_NoClasses(t *testing.T) {
	res := ValidateCode(`<div><span>plain</span></div>`)
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if res.Issues[0] != "No CSS classes found" {
		t.Fatalf("unexpected issue: %q", res.Issues[0])
	}
}

func TestValidateCode_PlaceholderComments(t *testing.T) {
	for _, marker := range []string{"// TODO fill in", "/* TODO later */"} {
		res := ValidateCode(`<div class="x">` + marker + `</div>`)
		if res.Valid {
			t.Fatalf("expected invalid for %q", marker)
		}
		if res.Issues[0] != "Contains placeholder comments" {
			t.Fatalf("unexpected issue: %q", res.Issues[0])
		}
	}
}

func TestValidateCode_ScriptTag(t *testing.T) {
	res := ValidateCode(`<div class="x"><script>alert(1)</script></div>`)
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if res.Issues[0] != "Script tags not allowed" {
		t.Fatalf("unexpected issue: %q", res.Issues[0])
	}
}

func TestValidateCode_IssueOrderStable(t *testing.T) {
	res := ValidateCode(`<script>x</script>`)
	want := []string{"Missing container element", "No CSS classes found", "Script tags not allowed"}
	if len(res.Issues) != len(want) {
		t.Fatalf("expected %d issues, got %v", len(want), res.Issues)
	}
	for i := range want {
		if res.Issues[i] != want[i] {
			t.Fatalf("issue %d: got %q want %q", i, res.Issues[i], want[i])
		}
	}
}

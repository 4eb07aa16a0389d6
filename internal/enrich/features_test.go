package enrich

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestFeaturesPrefersListItems(t *testing.T) {
	t.Parallel()

	html := `
	<ul>
		<li>Automatic review comments on every pull request</li>
		<li>Inline fix suggestions you can apply directly</li>
	</ul>
	<p>Also adds <strong>organization-wide policies</strong> for admins.</p>`

	got := Features(html)
	want := []string{
		"Automatic review comments on every pull request",
		"Inline fix suggestions you can apply directly",
		"organization-wide policies",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Features = %v, want %v", got, want)
	}
}

func TestFeaturesCapsAtFour(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("<ul>")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "<li>Capability number %d in a long list</li>", i)
	}
	b.WriteString("</ul>")

	got := Features(b.String())
	if len(got) != 4 {
		t.Fatalf("expected 4 features, got %d: %v", len(got), got)
	}
	if got[0] != "Capability number 0 in a long list" {
		t.Fatalf("document order not preserved: %v", got)
	}
}

func TestFeaturesLengthBounds(t *testing.T) {
	t.Parallel()

	html := `
	<ul>
		<li>Too short</li>
		<li>` + strings.Repeat("x", 150) + `</li>
		<li>Just right for a feature phrase</li>
	</ul>
	<p><strong>tiny</strong> and <b>` + strings.Repeat("y", 80) + `</b></p>`

	got := Features(html)
	want := []string{"Just right for a feature phrase"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Features = %v, want %v", got, want)
	}
}

func TestFeaturesDeduplicatesBoldAgainstList(t *testing.T) {
	t.Parallel()

	html := `
	<ul><li>Push protection for all repositories</li></ul>
	<p><strong>Push protection for all repositories</strong> is now default.</p>`

	got := Features(html)
	if len(got) != 1 {
		t.Fatalf("expected deduplicated single feature, got %v", got)
	}
}

func TestFeaturesEmptyInput(t *testing.T) {
	t.Parallel()

	if got := Features(""); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
	if got := Features("<p>plain prose, no lists or emphasis</p>"); got != nil {
		t.Fatalf("expected nil when nothing qualifies, got %v", got)
	}
}

package enrich

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"ChangelogDigest/internal/domain"
)

func TestEnrichAllFullPass(t *testing.T) {
	t.Parallel()

	f := newResolverFixture(t)
	f.pages["/en/copilot/code-review"] = `<html><head><title>Copilot code review</title></head>
		<body><p>To get started, navigate to Settings &gt; Copilot &gt; Code review
		and request a code review from Copilot on any pull request.</p></body></html>`

	content := fmt.Sprintf(`
		<p>Copilot can now review pull requests for you on any repository plan.</p>
		<ul><li>Automatic review comments on pull requests</li></ul>
		<p>See <a href="%s/en/copilot/code-review">the documentation</a>.</p>`, f.srv.URL)

	entries := []domain.Entry{{
		Title:       "Copilot code review is now generally available",
		URL:         "https://github.blog/changelog/2026-08-25-copilot-code-review/",
		ContentHTML: content,
		Category:    domain.CategoryRelease,
	}}

	enricher := New(f.cfg, f.srv.Client(), nil)
	enriched := enricher.EnrichAll(context.Background(), entries)

	if len(enriched) != 1 {
		t.Fatalf("expected 1 enriched entry, got %d", len(enriched))
	}
	e := enriched[0].Enrichment

	if e.DocsURL != f.srv.URL+"/en/copilot/code-review" {
		t.Fatalf("unexpected docs URL: %s", e.DocsURL)
	}
	if e.DetailedSummary == "" {
		t.Fatal("expected a detailed summary")
	}
	if len(e.KeyFeatures) != 1 || e.KeyFeatures[0] != "Automatic review comments on pull requests" {
		t.Fatalf("unexpected features: %v", e.KeyFeatures)
	}
	if e.Demo.Area != "copilot" {
		t.Fatalf("unexpected demo area: %s", e.Demo.Area)
	}
	// Release entries get a scraped navigation path and a demo outline.
	if e.NavigationPath != "Settings → Copilot → Code review" {
		t.Fatalf("unexpected navigation path: %q", e.NavigationPath)
	}
	if !strings.Contains(e.DemoOutline, "## Copilot code review is now generally available") {
		t.Fatalf("unexpected outline:\n%s", e.DemoOutline)
	}
}

func TestEnrichNonReleaseSkipsScrapeAndOutline(t *testing.T) {
	t.Parallel()

	f := newResolverFixture(t)

	entries := []domain.Entry{{
		Title:       "Improved billing dashboard layout",
		URL:         "https://github.blog/changelog/2026-08-25-billing/",
		ContentHTML: "<p>The billing page loads faster now and groups charges by product.</p>",
		Category:    domain.CategoryImprovement,
	}}

	enricher := New(f.cfg, f.srv.Client(), nil)
	e := enricher.EnrichAll(context.Background(), entries)[0].Enrichment

	if e.DemoOutline != "" {
		t.Fatalf("improvements should not carry an outline: %q", e.DemoOutline)
	}
	// Without a scraped path the demo navigation hint stands in.
	if e.NavigationPath != e.Demo.Navigation {
		t.Fatalf("expected demo navigation fallback, got %q", e.NavigationPath)
	}
}

func TestEnrichDegradesWhenNothingResolves(t *testing.T) {
	t.Parallel()

	f := newResolverFixture(t)
	f.searchHTML = "<html><body>no results</body></html>"

	entries := []domain.Entry{{
		Title:       "Copilot code review is now generally available",
		URL:         "https://github.blog/changelog/2026-08-25-copilot-code-review/",
		ContentHTML: "<p>Copilot can now review pull requests for you.</p>",
		Category:    domain.CategoryRelease,
	}}

	enricher := New(f.cfg, f.srv.Client(), nil)
	e := enricher.EnrichAll(context.Background(), entries)[0].Enrichment

	if e.DocsURL != "" {
		t.Fatalf("expected unresolved docs URL, got %s", e.DocsURL)
	}
	if e.DetailedSummary == "" || len(e.Demo.Steps) == 0 {
		t.Fatal("local enrichment must survive network degradation")
	}
	if e.DemoOutline == "" {
		t.Fatal("releases keep their outline even without a docs link")
	}
}

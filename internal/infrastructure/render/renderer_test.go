package render

import (
	"strings"
	"testing"
	"time"

	"ChangelogDigest/internal/domain"
)

func sampleDigest() domain.Digest {
	published := time.Date(2026, 8, 25, 17, 0, 0, 0, time.UTC)
	return domain.Digest{
		Releases: []domain.EnrichedEntry{{
			Entry: domain.Entry{
				Title:     "Copilot code review is now generally available",
				URL:       "https://github.blog/changelog/2026-08-25-copilot-code-review/",
				Published: published,
				Category:  domain.CategoryRelease,
				Labels:    []string{"copilot"},
			},
			Enrichment: domain.Enrichment{
				DocsURL:         "https://docs.github.com/en/copilot/code-review",
				NavigationPath:  "Settings → Copilot → Code review",
				DetailedSummary: "Copilot reviews pull requests automatically.",
				KeyFeatures:     []string{"Automatic review comments"},
				Demo: domain.DemoContext{
					Area: "copilot",
					Steps: []domain.DemoStep{
						{Action: "Open a PR", Narration: "This is the feature."},
					},
				},
				Links: domain.ReferenceLinks{
					Blog:        "https://github.blog/2026/08/deep-dive/",
					FeaturePage: "https://github.com/features/copilot",
				},
			},
		}},
		Improvements: []domain.EnrichedEntry{{
			Entry: domain.Entry{
				Title:     "Improved billing dashboard layout",
				URL:       "https://github.blog/changelog/2026-08-26-billing/",
				Published: published,
				Category:  domain.CategoryImprovement,
			},
			Enrichment: domain.Enrichment{
				DetailedSummary: "The billing page groups charges by product.",
				Demo: domain.DemoContext{
					Steps: []domain.DemoStep{
						{Action: "Should not render", Narration: "Improvements carry no demo."},
					},
				},
			},
		}},
		Retirements: []domain.EnrichedEntry{{
			Entry: domain.Entry{
				Title:     "Legacy API versions retired",
				URL:       "https://github.blog/changelog/2026-08-26-legacy/",
				Published: published,
				Category:  domain.CategoryRetired,
			},
		}},
	}
}

func TestRenderFullDigest(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatal(err)
	}
	renderer, err := NewHTMLRenderer(loc)
	if err != nil {
		t.Fatalf("NewHTMLRenderer: %v", err)
	}

	html, err := renderer.Render(sampleDigest(), "August 28, 2026 PT")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		"August 28, 2026 PT",
		"Copilot code review is now generally available",
		"https://docs.github.com/en/copilot/code-review",
		"Settings → Copilot → Code review",
		"Automatic review comments",
		"Open a PR",
		"This is the feature.",
		"https://github.blog/2026/08/deep-dive/",
		"https://github.com/features/copilot",
		"Improved billing dashboard layout",
		"Legacy API versions retired",
		// Pacific rendering of the 17:00 UTC publish time.
		"Aug 25, 2026 at 10:00 AM PT",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered digest missing %q", want)
		}
	}

	if strings.Contains(html, "Should not render") {
		t.Fatal("demo steps must only render for releases")
	}
}

func TestRenderEmptyDigest(t *testing.T) {
	t.Parallel()

	renderer, err := NewHTMLRenderer(time.UTC)
	if err != nil {
		t.Fatalf("NewHTMLRenderer: %v", err)
	}

	html, err := renderer.Render(domain.Digest{}, "August 28, 2026 PT")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if html == "" {
		t.Fatal("expected a rendered shell even with no entries")
	}
}

func TestRenderEscapesEntryText(t *testing.T) {
	t.Parallel()

	renderer, err := NewHTMLRenderer(time.UTC)
	if err != nil {
		t.Fatalf("NewHTMLRenderer: %v", err)
	}

	digest := domain.Digest{
		Improvements: []domain.EnrichedEntry{{
			Entry: domain.Entry{
				Title: "Title with <script>alert(1)</script>",
				URL:   "https://github.blog/changelog/x/",
			},
		}},
	}

	html, err := renderer.Render(digest, "August 28, 2026 PT")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Fatal("entry text must be HTML-escaped")
	}
}

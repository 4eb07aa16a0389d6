package enrich

import (
	"strings"
	"testing"

	"ChangelogDigest/internal/domain"
)

func classifyTitle(title string) domain.DemoContext {
	return Classify(domain.Entry{Title: title}, "", nil)
}

func TestClassifyCopilotAgentFlow(t *testing.T) {
	t.Parallel()

	ctx := Classify(domain.Entry{Title: "Copilot coding agent now generally available"},
		"Copilot can take on whole tasks by itself.", nil)

	if ctx.Area != "copilot" {
		t.Fatalf("unexpected area: %s", ctx.Area)
	}
	if ctx.Navigation != "VS Code → Copilot Chat → Agent Mode" {
		t.Fatalf("unexpected navigation: %s", ctx.Navigation)
	}
	if len(ctx.Steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(ctx.Steps))
	}
	opening := ctx.Steps[0].Narration
	if !strings.Contains(opening, "Copilot coding agent now generally available") {
		t.Fatalf("opening narration should name the entry: %q", opening)
	}
	if !strings.Contains(opening, "Copilot can take on whole tasks by itself.") {
		t.Fatalf("opening narration should fold in the summary: %q", opening)
	}
}

func TestClassifyCopilotWinsOverSecurity(t *testing.T) {
	t.Parallel()

	ctx := classifyTitle("Copilot secret scanning integration")
	if ctx.Area != "copilot" {
		t.Fatalf("expected copilot to take priority, got %s", ctx.Area)
	}
}

func TestClassifyActionsRunnerBranch(t *testing.T) {
	t.Parallel()

	ctx := classifyTitle("Larger hosted runners for Actions")
	if ctx.Area != "actions" {
		t.Fatalf("unexpected area: %s", ctx.Area)
	}
	if ctx.Navigation != "Repository → Settings → Actions → Runners" {
		t.Fatalf("unexpected navigation: %s", ctx.Navigation)
	}
}

func TestClassifySecurityDependabotBranch(t *testing.T) {
	t.Parallel()

	ctx := classifyTitle("Dependabot alerts grouping by package")
	if ctx.Area != "security" {
		t.Fatalf("unexpected area: %s", ctx.Area)
	}
	if ctx.Navigation != "Repository → Security → Dependabot" {
		t.Fatalf("unexpected navigation: %s", ctx.Navigation)
	}
}

func TestClassifyUsesLabels(t *testing.T) {
	t.Parallel()

	entry := domain.Entry{
		Title:  "Prebuild performance improvements",
		Labels: []string{"codespaces"},
	}
	ctx := Classify(entry, "", nil)
	if ctx.Area != "codespaces" {
		t.Fatalf("expected label to drive classification, got %s", ctx.Area)
	}
}

func TestClassifyRemainingAreas(t *testing.T) {
	t.Parallel()

	cases := []struct {
		title string
		area  string
	}{
		{"Merge queue rollout continues", "pull_requests"},
		{"Sub-issues and project fields", "projects"},
		{"REST API fine-grained token endpoints", "api"},
	}
	for _, tc := range cases {
		if got := classifyTitle(tc.title).Area; got != tc.area {
			t.Fatalf("%q classified as %s, want %s", tc.title, got, tc.area)
		}
	}
}

func TestClassifyDefaultFlow(t *testing.T) {
	t.Parallel()

	ctx := classifyTitle("Improved billing dashboard layout")
	if ctx.Area != "general" {
		t.Fatalf("unexpected area: %s", ctx.Area)
	}
	if ctx.Navigation != "GitHub.com" {
		t.Fatalf("unexpected navigation: %s", ctx.Navigation)
	}
	if len(ctx.Steps) == 0 {
		t.Fatal("default flow must produce steps")
	}
	for i, step := range ctx.Steps {
		if step.Action == "" || step.Narration == "" {
			t.Fatalf("step %d incomplete: %+v", i, step)
		}
	}
}

func TestClassifyFeatureInterpolation(t *testing.T) {
	t.Parallel()

	features := []string{"Automatic fix suggestions", "Org-wide policy controls"}
	ctx := Classify(domain.Entry{Title: "Improved billing dashboard layout"}, "", features)

	var interpolated bool
	for _, step := range ctx.Steps {
		if strings.Contains(step.Narration, "For example: Automatic fix suggestions.") {
			interpolated = true
		}
	}
	if !interpolated {
		t.Fatalf("expected first feature folded into narration: %+v", ctx.Steps)
	}

	// Without features the fixed fallback stands alone.
	plain := Classify(domain.Entry{Title: "Improved billing dashboard layout"}, "", nil)
	for _, step := range plain.Steps {
		if strings.Contains(step.Narration, "For example:") {
			t.Fatalf("unexpected interpolation without features: %q", step.Narration)
		}
	}
}

func TestClassifyTruncatesLongSummaries(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("s", 200)
	ctx := Classify(domain.Entry{Title: "Improved billing dashboard layout"}, long, nil)

	opening := ctx.Steps[0].Narration
	if !strings.Contains(opening, strings.Repeat("s", 150)+"...") {
		t.Fatalf("expected truncated highlight in narration: %q", opening)
	}
	if strings.Contains(opening, strings.Repeat("s", 151)) {
		t.Fatalf("highlight not truncated: %q", opening)
	}
}

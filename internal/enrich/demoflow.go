package enrich

import (
	"fmt"
	"strings"

	"ChangelogDigest/internal/domain"
)

const highlightLimit = 150

// flowInput is everything a branch needs to phrase its narration: the entry
// title, a truncated summary excerpt, and the extracted feature phrases.
type flowInput struct {
	Title     string
	Highlight string
	Features  []string
}

// flowRule pairs a keyword predicate with the handler that builds the demo
// context. Rules are evaluated in order and the first match wins, so the
// slice ordering encodes topic priority.
type flowRule struct {
	match func(hay string) bool
	build func(hay string, in flowInput) domain.DemoContext
}

var flowRules = []flowRule{
	{match: func(h string) bool { return has(h, "copilot") }, build: copilotFlow},
	{match: func(h string) bool { return has(h, "actions", "workflow") }, build: actionsFlow},
	{match: func(h string) bool {
		return has(h, "security", "dependabot", "secret", "vulnerability", "ghas", "codeql")
	}, build: securityFlow},
	{match: func(h string) bool { return has(h, "issues", "projects", "project") }, build: projectsFlow},
	{match: func(h string) bool { return has(h, "pull request", "merge") }, build: pullRequestFlow},
	{match: func(h string) bool { return has(h, "codespace") }, build: codespacesFlow},
	{match: func(h string) bool { return has(h, "api", "graphql", "rest") }, build: apiFlow},
}

// Classify infers a topical area from the entry text and emits an ordered
// demo flow. The default branch guarantees a navigation hint and a non-empty
// step sequence for every entry.
func Classify(entry domain.Entry, detailedSummary string, features []string) domain.DemoContext {
	hay := strings.ToLower(strings.Join([]string{
		entry.Title,
		strings.Join(entry.Labels, " "),
		entry.ContentHTML,
		entry.Summary,
	}, " "))

	in := flowInput{
		Title:     entry.Title,
		Highlight: truncateHighlight(detailedSummary),
		Features:  features,
	}

	for _, rule := range flowRules {
		if rule.match(hay) {
			return rule.build(hay, in)
		}
	}
	return generalFlow(hay, in)
}

func copilotFlow(hay string, in flowInput) domain.DemoContext {
	ctx := domain.DemoContext{Area: "copilot"}

	switch {
	case has(hay, "agent", "agentic"):
		ctx.Navigation = "VS Code → Copilot Chat → Agent Mode"
		ctx.Steps = []domain.DemoStep{
			{Action: "Open VS Code with a real project",
				Narration: in.showing()},
			{Action: "Open Copilot Chat with Cmd+Shift+I",
				Narration: "This is Copilot Chat - your AI pair programmer that understands your entire codebase."},
			{Action: "Toggle on 'Agent' mode at the top",
				Narration: in.withFeature(0, "Agent mode lets Copilot work across multiple files autonomously - not just answer questions.")},
			{Action: "Give it a multi-step task relevant to the new feature",
				Narration: in.withFeature(1, "Watch what happens - I'm giving it a real task that would normally take 30+ minutes.")},
			{Action: "Review the proposed changes",
				Narration: "You're still in control. Nothing changes until you review and accept. It's like having a junior dev who does the work, but you sign off."},
		}
	case has(hay, "chat"):
		ctx.Navigation = "VS Code → Copilot Chat"
		ctx.Steps = []domain.DemoStep{
			{Action: "Open a complex file in VS Code",
				Narration: in.demoing()},
			{Action: "Select code and open Copilot Chat",
				Narration: "Instead of hunting down the original author, just ask Copilot."},
			{Action: "Ask about the selected code",
				Narration: in.withFeature(0, "Plain English explanation. And it's not surface-level - it understands context.")},
			{Action: "Use @workspace to ask about the project",
				Narration: in.withFeature(1, "Here's the real power - ask about the entire project, not just one file.")},
		}
	case has(hay, "code review", "review"):
		ctx.Navigation = "github.com → Pull Request → Files Changed"
		ctx.Steps = []domain.DemoStep{
			{Action: "Open a PR with substantial changes",
				Narration: in.presenting()},
			{Action: "Click the Copilot icon → 'Review changes'",
				Narration: "One click to get AI-powered code review."},
			{Action: "Review the summary and suggestions",
				Narration: in.withFeature(0, "It catches security issues, performance problems, bugs - things that might slip through manual review.")},
			{Action: "Apply a suggestion with one click",
				Narration: in.withFeature(1, "Developer doesn't have to figure out the fix - it's done for them.")},
		}
	case has(hay, "extension"):
		ctx.Navigation = "github.com → Marketplace → Copilot Extensions"
		ctx.Steps = []domain.DemoStep{
			{Action: "Open Copilot Chat in your IDE or on github.com",
				Narration: in.presenting()},
			{Action: "Invoke an extension with @ in the chat prompt",
				Narration: "Extensions bring external tools straight into the Copilot conversation - no context switching."},
			{Action: "Walk through the extension's response",
				Narration: in.withFeature(0, "Your existing tooling answers inside the chat, with full project context.")},
			{Action: "Show where to install more from the Marketplace",
				Narration: in.withFeature(1, "Teams can build private extensions for internal systems too.")},
		}
	default:
		ctx.Navigation = "Settings → Copilot"
		ctx.Steps = []domain.DemoStep{
			{Action: "Navigate to Copilot settings",
				Narration: in.showing()},
			{Action: "Walk through the new feature",
				Narration: in.withFeature(0, "Here's the key capability and how it fits into developer workflow.")},
			{Action: "Demo it in action",
				Narration: in.withFeature(1, "Let me show you what this looks like when a developer actually uses it.")},
		}
	}

	return ctx
}

func actionsFlow(hay string, in flowInput) domain.DemoContext {
	ctx := domain.DemoContext{Area: "actions"}

	switch {
	case has(hay, "runner"):
		ctx.Navigation = "Repository → Settings → Actions → Runners"
		ctx.Steps = []domain.DemoStep{
			{Action: "Go to Settings → Actions → Runners",
				Narration: in.presenting()},
			{Action: "Show the runner configuration",
				Narration: "You've got hosted runners (we manage everything) or self-hosted for compliance or specialized hardware."},
			{Action: "Configure the new capability",
				Narration: in.withFeature(0, "Here's the new feature - this directly addresses common pain points.")},
			{Action: "Trigger a workflow to demonstrate",
				Narration: in.withFeature(1, "Let me run something so you can see it in action.")},
		}
	case has(hay, "reusable", "composite"):
		ctx.Navigation = "Repository → .github/workflows"
		ctx.Steps = []domain.DemoStep{
			{Action: "Open a workflow file that calls a reusable workflow",
				Narration: in.presenting()},
			{Action: "Show the 'uses:' reference and its inputs",
				Narration: "One team maintains the workflow, every repo consumes it. Standardization without copy-paste."},
			{Action: "Demo the new capability",
				Narration: in.withFeature(0, "Here's what just changed and why platform teams asked for it.")},
			{Action: "Run the calling workflow",
				Narration: in.withFeature(1, "The caller stays tiny; the shared logic does the work.")},
		}
	default:
		ctx.Navigation = "Repository → Actions"
		ctx.Steps = []domain.DemoStep{
			{Action: "Click the 'Actions' tab",
				Narration: in.presenting()},
			{Action: "Show the workflow configuration",
				Narration: "Actions is GitHub's native CI/CD - one less tool to manage."},
			{Action: "Demo the new capability",
				Narration: in.withFeature(0, "Here's what this means for your team's workflow.")},
			{Action: "Show the results",
				Narration: in.withFeature(1, "Full visibility, all in one place.")},
		}
	}

	return ctx
}

func securityFlow(hay string, in flowInput) domain.DemoContext {
	ctx := domain.DemoContext{Area: "security"}

	switch {
	case has(hay, "dependabot"):
		ctx.Navigation = "Repository → Security → Dependabot"
		ctx.Steps = []domain.DemoStep{
			{Action: "Go to Security tab → Dependabot alerts",
				Narration: in.presenting()},
			{Action: "Show vulnerability alerts",
				Narration: "Dependabot scans dependencies continuously. When something's vulnerable, you know immediately."},
			{Action: "Show the auto-generated fix PR",
				Narration: in.withFeature(0, "It doesn't just report problems - it opens PRs with fixes. Your team just reviews and merges.")},
			{Action: "Show the dependency graph",
				Narration: in.withFeature(1, "Full visibility into your dependency tree.")},
		}
	case has(hay, "secret"):
		ctx.Navigation = "Repository → Settings → Code security → Secret scanning"
		ctx.Steps = []domain.DemoStep{
			{Action: "Go to Settings → Code security",
				Narration: in.presenting()},
			{Action: "Show Secret scanning and Push protection",
				Narration: "Secret scanning finds leaked credentials. Push protection blocks them before they land."},
			{Action: "Demo the detection and blocking",
				Narration: in.withFeature(0, "Let me show you what happens when someone tries to commit a secret.")},
			{Action: "Show the alerts dashboard",
				Narration: in.withFeature(1, "Full audit trail. Your security team has complete visibility.")},
		}
	case has(hay, "code scanning", "codeql"):
		ctx.Navigation = "Repository → Security → Code scanning"
		ctx.Steps = []domain.DemoStep{
			{Action: "Go to Security → Code scanning",
				Narration: in.presenting()},
			{Action: "Show the alerts",
				Narration: "CodeQL does semantic analysis - it finds vulnerabilities that pattern matching misses."},
			{Action: "Click into a finding",
				Narration: in.withFeature(0, "Full data flow visualization. See exactly how user input reaches the vulnerable code.")},
			{Action: "Show PR integration",
				Narration: in.withFeature(1, "This runs on every PR - vulnerabilities caught before they merge.")},
		}
	default:
		ctx.Navigation = "Repository → Security"
		ctx.Steps = []domain.DemoStep{
			{Action: "Go to the Security tab",
				Narration: in.presenting()},
			{Action: "Walk through the overview",
				Narration: in.withFeature(0, "This is your security command center.")},
			{Action: "Demo the new capability",
				Narration: in.withFeature(1, "Here's the new feature in action.")},
		}
	}

	return ctx
}

func projectsFlow(_ string, in flowInput) domain.DemoContext {
	return domain.DemoContext{
		Area:       "projects",
		Navigation: "Organization or Repository → Projects",
		Steps: []domain.DemoStep{
			{Action: "Go to Projects tab",
				Narration: in.presenting()},
			{Action: "Open or create a project",
				Narration: "GitHub Projects is built-in planning that lives where your code lives."},
			{Action: "Demo the new capability",
				Narration: in.withFeature(0, "Here's the new feature and how it improves workflow.")},
			{Action: "Show automation options",
				Narration: in.withFeature(1, "Automations keep things moving without manual work.")},
		},
	}
}

func pullRequestFlow(_ string, in flowInput) domain.DemoContext {
	return domain.DemoContext{
		Area:       "pull_requests",
		Navigation: "Repository → Pull requests",
		Steps: []domain.DemoStep{
			{Action: "Go to Pull requests tab",
				Narration: in.presenting()},
			{Action: "Open or create a PR",
				Narration: "Pull requests are the heart of code collaboration on GitHub."},
			{Action: "Demo the new feature",
				Narration: in.withFeature(0, "Here's what just shipped and how it helps your team.")},
			{Action: "Show it in a review workflow",
				Narration: in.withFeature(1, "See how it fits naturally into the process.")},
		},
	}
}

func codespacesFlow(_ string, in flowInput) domain.DemoContext {
	return domain.DemoContext{
		Area:       "codespaces",
		Navigation: "Repository → Code → Codespaces",
		Steps: []domain.DemoStep{
			{Action: "Click the green 'Code' button",
				Narration: in.presenting()},
			{Action: "Create a new Codespace",
				Narration: "Full dev environment spinning up. Compare this to setting up a new laptop."},
			{Action: "Show VS Code in the browser",
				Narration: in.withFeature(0, "Real environment. Real terminal. Ready to code on any device.")},
			{Action: "Demo the new capability",
				Narration: in.withFeature(1, "Here's the improvement and what it means for developers.")},
		},
	}
}

func apiFlow(_ string, in flowInput) domain.DemoContext {
	return domain.DemoContext{
		Area:       "api",
		Navigation: "docs.github.com/rest or GraphQL Explorer",
		Steps: []domain.DemoStep{
			{Action: "Open the API documentation",
				Narration: in.presenting()},
			{Action: "Find the relevant endpoint",
				Narration: "GitHub is API-first. Anything in the UI can be automated."},
			{Action: "Demo with curl or gh CLI",
				Narration: in.withFeature(0, "Quick demo from the command line.")},
			{Action: "Show the response",
				Narration: in.withFeature(1, "Everything you need to build automation or custom tooling.")},
		},
	}
}

func generalFlow(_ string, in flowInput) domain.DemoContext {
	return domain.DemoContext{
		Area:       "general",
		Navigation: "GitHub.com",
		Steps: []domain.DemoStep{
			{Action: "Navigate to the feature area",
				Narration: in.showing()},
			{Action: "Locate the new capability",
				Narration: "Here's where this lives in GitHub."},
			{Action: "Demo the feature",
				Narration: in.withFeature(0, "Let me show you what it looks like in practice.")},
			{Action: "Highlight the key benefit",
				Narration: in.withFeature(1, "This is how it improves your team's workflow.")},
		},
	}
}

// showing/demoing/presenting open a flow by naming the feature and folding
// in the summary excerpt.
func (in flowInput) showing() string {
	return strings.TrimSpace(fmt.Sprintf("Let me show you %s. %s", in.Title, in.Highlight))
}

func (in flowInput) demoing() string {
	return strings.TrimSpace(fmt.Sprintf("Let me demo %s. %s", in.Title, in.Highlight))
}

func (in flowInput) presenting() string {
	return strings.TrimSpace(fmt.Sprintf("This is %s. %s", in.Title, in.Highlight))
}

// withFeature folds the i-th extracted feature into the narration; when no
// such feature exists the fixed fallback stands alone.
func (in flowInput) withFeature(i int, fallback string) string {
	if i >= len(in.Features) {
		return fallback
	}
	return fmt.Sprintf("%s For example: %s.", fallback, strings.TrimRight(in.Features[i], "."))
}

func truncateHighlight(summary string) string {
	runes := []rune(summary)
	if len(runes) <= highlightLimit {
		return summary
	}
	return string(runes[:highlightLimit]) + "..."
}

// has reports whether the haystack contains any of the terms.
func has(hay string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(hay, term) {
			return true
		}
	}
	return false
}

package enrich

import (
	"fmt"
	"strings"

	"ChangelogDigest/internal/domain"
)

// Outline renders the demo flow as a markdown walkthrough for the digest.
func Outline(entry domain.Entry, enrichment domain.Enrichment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", entry.Title)

	start := enrichment.NavigationPath
	if start == "" {
		start = enrichment.Demo.Navigation
	}
	if start != "" {
		fmt.Fprintf(&b, "**Start:** `%s`\n\n", start)
	}

	b.WriteString("**Demo Flow:**\n")
	for i, step := range enrichment.Demo.Steps {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, step.Action)
		fmt.Fprintf(&b, "   _\"%s\"_\n", step.Narration)
	}
	b.WriteString("\n")

	if enrichment.DocsURL != "" {
		fmt.Fprintf(&b, "**Documentation:** [View full docs](%s)\n", enrichment.DocsURL)
	}
	fmt.Fprintf(&b, "**Changelog:** [Read more](%s)\n", entry.URL)

	return b.String()
}

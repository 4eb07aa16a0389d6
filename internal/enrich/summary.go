package enrich

import (
	"regexp"
	"strings"
)

const (
	summaryBudget      = 350
	minSentenceLength  = 15
	summaryPunctuation = ".!?"
)

// Feed bodies end with syndication boilerplate that adds nothing to a
// summary.
var boilerplateExprs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)The post .+ appeared first on The GitHub Blog\.`),
	regexp.MustCompile(`(?i)The post .+ appeared first on GitHub Blog\.`),
	regexp.MustCompile(`(?i)appeared first on The GitHub Blog\.`),
	regexp.MustCompile(`(?i)appeared first on GitHub Blog\.`),
	regexp.MustCompile(`(?i)Learn more\s*$`),
}

// Summarize produces a bounded, sentence-respecting excerpt of the entry
// body. It prefers the HTML content; when that yields nothing it falls back
// to the RSS summary with boilerplate stripped but no length cap. Pure
// function of its inputs.
func Summarize(contentHTML, rssSummary string) string {
	if contentHTML != "" {
		if excerpt := excerptFromHTML(contentHTML); excerpt != "" {
			return excerpt
		}
	}

	if rssSummary != "" {
		return stripBoilerplate(plainText(rssSummary))
	}

	return ""
}

func excerptFromHTML(contentHTML string) string {
	doc := parseFragment(contentHTML)
	if doc == nil {
		return ""
	}
	doc.Find("script, style").Remove()

	text := stripBoilerplate(flattenText(doc.Selection))

	var kept []string
	used := 0
	for _, sentence := range splitSentences(text) {
		if len(sentence) < minSentenceLength {
			continue
		}
		if used+len(sentence) > summaryBudget {
			break
		}
		kept = append(kept, sentence)
		used += len(sentence)
	}

	return strings.Join(kept, " ")
}

// splitSentences breaks text on terminal punctuation followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes)-1; i++ {
		if strings.ContainsRune(summaryPunctuation, runes[i]) && runes[i+1] == ' ' {
			sentence := strings.TrimSpace(string(runes[start : i+1]))
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func stripBoilerplate(text string) string {
	for _, expr := range boilerplateExprs {
		text = expr.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

func plainText(fragment string) string {
	doc := parseFragment(fragment)
	if doc == nil {
		return ""
	}
	return flattenText(doc.Selection)
}

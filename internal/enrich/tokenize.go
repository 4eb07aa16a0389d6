package enrich

import (
	"regexp"
	"strings"
)

var wordExpr = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+#-]*`)

// searchStopwords are common English words that never help a docs search.
var searchStopwords = wordSet(
	"the", "a", "an", "is", "are", "was", "were", "be", "been",
	"being", "have", "has", "had", "do", "does", "did", "will",
	"would", "could", "should", "may", "might", "must", "shall",
	"can", "need", "dare", "ought", "used", "to", "of", "in",
	"for", "on", "with", "at", "by", "from", "as", "into",
	"through", "during", "before", "after", "above", "below",
	"between", "under", "again", "further", "then", "once",
	"now", "generally", "available", "new", "and", "or", "but",
	"if", "because", "until", "while", "this", "that", "these",
	"those", "am", "it", "its", "it's", "they", "them", "their",
	"what", "which", "who", "whom", "where", "when", "why", "how",
	"all", "each", "every", "both", "few", "more", "most", "other",
	"some", "such", "no", "nor", "not", "only", "own", "same",
	"so", "than", "too", "very", "just", "also",
)

// genericStopwords extends the search list with vocabulary that appears in
// nearly every changelog title; matching on these terms says nothing about
// whether a docs page is actually related.
var genericStopwords = wordSet(
	"github", "update", "updates", "updated", "feature", "features",
	"preview", "public", "beta", "release", "released", "releases",
	"improvement", "improvements", "improved", "announcing", "announcement",
	"changelog", "support", "supported",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// keywords tokenizes text into lowercase word tokens, dropping stopwords and
// tokens shorter than three characters. Extra sets extend the stopword list.
func keywords(text string, extra ...map[string]struct{}) []string {
	var out []string
	for _, token := range wordExpr.FindAllString(strings.ToLower(text), -1) {
		if len(token) <= 2 {
			continue
		}
		if _, stop := searchStopwords[token]; stop {
			continue
		}
		skipped := false
		for _, set := range extra {
			if _, stop := set[token]; stop {
				skipped = true
				break
			}
		}
		if skipped {
			continue
		}
		out = append(out, token)
	}
	return out
}

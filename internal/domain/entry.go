package domain

import "time"

// Category classifies a changelog entry by its feed-supplied type tag.
type Category string

const (
	CategoryRelease     Category = "Release"
	CategoryImprovement Category = "Improvement"
	CategoryRetired     Category = "Retired"
)

// Entry is a single changelog feed item. The URL is the identity key used
// for deduplication; none of these fields change after construction.
type Entry struct {
	Title       string
	URL         string
	Published   time.Time
	ContentHTML string
	Summary     string
	Category    Category
	Labels      []string
}

// DemoStep pairs a click-level action with its spoken narration. Step order
// is the walkthrough order.
type DemoStep struct {
	Action    string
	Narration string
}

// DemoContext is the classifier output for one entry: a topical area, a
// "start here" navigation hint, and an ordered demo flow.
type DemoContext struct {
	Area       string
	Navigation string
	Steps      []DemoStep
}

// ReferenceLinks holds at most one link per reference category, extracted
// from the entry body for the digest's link section.
type ReferenceLinks struct {
	Docs        string
	Blog        string
	FeaturePage string
}

// Enrichment carries everything the pipeline derives from an entry. It is
// built separately and paired with the immutable Entry so re-running
// enrichment replaces the whole record instead of mutating feed data.
type Enrichment struct {
	DocsURL         string
	NavigationPath  string
	DetailedSummary string
	KeyFeatures     []string
	Demo            DemoContext
	DemoOutline     string
	Links           ReferenceLinks
}

// EnrichedEntry pairs an entry with its derived fields for rendering.
type EnrichedEntry struct {
	Entry      Entry
	Enrichment Enrichment
}

// Digest groups enriched entries by category for one email.
type Digest struct {
	Releases     []EnrichedEntry
	Improvements []EnrichedEntry
	Retirements  []EnrichedEntry
}

// Total returns the number of entries across all categories.
func (d Digest) Total() int {
	return len(d.Releases) + len(d.Improvements) + len(d.Retirements)
}

// Empty reports whether the digest carries no entries at all.
func (d Digest) Empty() bool {
	return d.Total() == 0
}

// EmailMessage is a fully prepared outbound email.
type EmailMessage struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Delivery records the outcome for a single recipient.
type Delivery struct {
	Recipient string
	Err       error
}

// AnyDelivered reports whether at least one recipient succeeded, which the
// pipeline treats as overall send success.
func AnyDelivered(deliveries []Delivery) bool {
	for _, d := range deliveries {
		if d.Err == nil {
			return true
		}
	}
	return false
}

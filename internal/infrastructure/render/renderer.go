package render

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"ChangelogDigest/internal/domain"
	"ChangelogDigest/internal/ports"
)

//go:embed templates/digest_email.html
var templateFS embed.FS

const publishedLayout = "Jan 2, 2006 at 3:04 PM PT"

// HTMLRenderer produces the self-contained digest email from the embedded
// template.
type HTMLRenderer struct {
	tmpl     *template.Template
	location *time.Location
}

var _ ports.DigestRenderer = (*HTMLRenderer)(nil)

// NewHTMLRenderer parses the embedded template once.
func NewHTMLRenderer(location *time.Location) (*HTMLRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/digest_email.html")
	if err != nil {
		return nil, fmt.Errorf("parse digest template: %w", err)
	}
	if location == nil {
		location = time.UTC
	}
	return &HTMLRenderer{tmpl: tmpl, location: location}, nil
}

type digestView struct {
	DigestDate   string
	TotalCount   int
	Releases     []entryView
	Improvements []entryView
	Retirements  []entryView
}

type entryView struct {
	Title          string
	URL            string
	Published      string
	Summary        string
	Labels         []string
	DocsURL        string
	NavigationPath string
	KeyFeatures    []string
	Steps          []domain.DemoStep
	BlogURL        string
	FeaturePageURL string
}

// Render executes the template over the digest.
func (r *HTMLRenderer) Render(digest domain.Digest, digestDate string) (string, error) {
	view := digestView{
		DigestDate:   digestDate,
		TotalCount:   digest.Total(),
		Releases:     r.entryViews(digest.Releases, true),
		Improvements: r.entryViews(digest.Improvements, false),
		Retirements:  r.entryViews(digest.Retirements, false),
	}

	var b strings.Builder
	if err := r.tmpl.Execute(&b, view); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return b.String(), nil
}

func (r *HTMLRenderer) entryViews(entries []domain.EnrichedEntry, withDemo bool) []entryView {
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		view := entryView{
			Title:          e.Entry.Title,
			URL:            e.Entry.URL,
			Published:      e.Entry.Published.In(r.location).Format(publishedLayout),
			Summary:        e.Enrichment.DetailedSummary,
			Labels:         e.Entry.Labels,
			DocsURL:        e.Enrichment.DocsURL,
			NavigationPath: e.Enrichment.NavigationPath,
			KeyFeatures:    e.Enrichment.KeyFeatures,
			BlogURL:        e.Enrichment.Links.Blog,
			FeaturePageURL: e.Enrichment.Links.FeaturePage,
		}
		if withDemo {
			view.Steps = e.Enrichment.Demo.Steps
		}
		views = append(views, view)
	}
	return views
}

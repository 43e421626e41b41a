package scraper

import (
	"fmt"
	"io"
	"strings"

	"xembed/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed post page queried through a Selectors set. It is
// the only place that knows about upstream markup.
type Document struct {
	doc *goquery.Document
	sel Selectors
}

// ParseDocument parses an HTML page.
func ParseDocument(r io.Reader, sel Selectors) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc, sel: sel}, nil
}

// Fields extracts every canonical field the page carries. Absent regions
// yield empty values, never errors.
func (d *Document) Fields() domain.ExtractedFields {
	stats := d.Stats()
	tier := domain.TierNone
	if d.Verified() {
		tier = domain.TierVerified
	}

	return domain.ExtractedFields{
		Source:           domain.SourceHTML,
		DisplayName:      d.DisplayName(),
		Handle:           d.Handle(),
		Tier:             tier,
		BodyText:         d.BodyText(),
		CreatedAtDisplay: d.Timestamp(),
		Photos:           d.Photos(),
		CommunityNote:    d.CommunityNote(),
		Stats:            &stats,
	}
}

// nameChild returns the n-th child across all user-name regions.
func (d *Document) nameChild(n int) string {
	return strings.TrimSpace(d.doc.Find(d.sel.NameRegion).Children().Eq(n).Text())
}

// DisplayName is the first child of the user-name region.
func (d *Document) DisplayName() string {
	return d.nameChild(0)
}

// Handle is the second child of the user-name region, with a leading "@".
func (d *Document) Handle() string {
	return domain.NormalizeHandle(d.nameChild(1))
}

// Verified reports whether a verification badge sits in the user-name region.
func (d *Document) Verified() bool {
	return d.doc.Find(d.sel.NameRegion).Find(d.sel.VerifiedBadge).Length() > 0
}

// BodyText is the text of the first post body region. Later regions
// belong to quoted posts.
func (d *Document) BodyText() string {
	return d.doc.Find(d.sel.Text).First().Text()
}

// Timestamp reads the last time element, e.g. "6:04 PM · May 11, 2023",
// and reorders its fragments to "May 11, 2023 - 6:04 PM".
func (d *Document) Timestamp() string {
	raw := d.doc.Find(d.sel.Time).Last().Text()
	if raw == "" {
		return ""
	}

	var parts []string
	for _, p := range strings.Split(raw, d.sel.TimeSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " - ")
}

// CommunityNote is present only when the note region exists.
func (d *Document) CommunityNote() *domain.CommunityNote {
	region := d.doc.Find(d.sel.NoteRegion)
	if region.Length() == 0 {
		return nil
	}
	return &domain.CommunityNote{
		Title: strings.TrimSpace(region.Children().Eq(d.sel.NoteTextChild).Text()),
	}
}

// Photos collects one full-size URL per photo region: the last child's
// src with its query string replaced by the configured suffix.
func (d *Document) Photos() []string {
	var urls []string
	d.doc.Find(d.sel.Photo).Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Children().Last().Attr("src")
		if !ok || src == "" {
			return
		}
		base, _, _ := strings.Cut(src, "?")
		urls = append(urls, base+d.sel.PhotoSuffix)
	})
	return urls
}

// Stats reads the engagement counters by position. A missing position
// yields an empty string.
func (d *Document) Stats() domain.Stats {
	children := d.doc.Find(d.sel.StatsContainer).Children()
	at := func(i int) string {
		return strings.TrimSpace(children.Eq(i).Text())
	}

	idx := d.sel.StatIndex
	return domain.Stats{
		Views:     at(idx.Views),
		Reposts:   at(idx.Reposts),
		Replies:   at(idx.Replies),
		Likes:     at(idx.Likes),
		Bookmarks: at(idx.Bookmarks),
	}
}

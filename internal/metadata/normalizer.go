// Package metadata turns extracted post fields into the preview document
// link-unfurling clients read.
package metadata

import (
	"net/url"
	"strings"
	"time"

	"xembed/internal/domain"
)

// Badge glyphs prefixed to the card title.
const (
	BadgeVerified     = "✅ "
	BadgeBlueVerified = "🟦 "
	BadgeBusiness     = "🟨 "
)

// NoteHeading introduces an appended community note.
const NoteHeading = "👪 Community Notes"

// DefaultThemeColor is the embed accent colour.
const DefaultThemeColor = "#2B2D31"

// displayTimeLayout mirrors the en-US locale string clients are used to,
// e.g. "5/11/2023, 6:04:09 PM".
const displayTimeLayout = "1/2/2006, 3:04:05 PM"

// Options holds the branding and endpoints the normalizer stamps into
// every document.
type Options struct {
	SiteLabel    string
	CompositeURL string
	OEmbedURL    string
	ProviderURL  string
	ThemeColor   string
	Location     *time.Location
}

// Normalizer builds EmbedMetadata. It is stateless apart from its options.
type Normalizer struct {
	opts Options
}

// New creates a Normalizer.
func New(opts Options) *Normalizer {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.ThemeColor == "" {
		opts.ThemeColor = DefaultThemeColor
	}
	return &Normalizer{opts: opts}
}

// Build assembles the preview document for f.
func (n *Normalizer) Build(f domain.ExtractedFields) domain.EmbedMetadata {
	handle := domain.NormalizeHandle(f.Handle)
	description := Description(f.BodyText, f.CommunityNote)
	siteName := n.SiteName(f)

	return domain.EmbedMetadata{
		ThemeColor: n.opts.ThemeColor,
		OpenGraph: domain.OpenGraph{
			SiteName:    siteName,
			Description: description,
			Video:       f.Video,
		},
		Card: domain.Card{
			Type:    CardType(f.Video),
			Title:   CardTitle(f.DisplayName, handle, f.Tier),
			Site:    handle,
			Creator: handle,
			Image:   Image(f.Photos, n.opts.CompositeURL),
		},
		OEmbedURL: n.OEmbedLink(handle, f.Stats, f.Video != nil, description),
	}
}

// Badge maps a tier to its glyph, or "" for unverified authors.
func Badge(tier domain.VerificationTier) string {
	switch tier {
	case domain.TierVerified:
		return BadgeVerified
	case domain.TierBlueVerified:
		return BadgeBlueVerified
	case domain.TierBusiness:
		return BadgeBusiness
	default:
		return ""
	}
}

// CardTitle renders "Name ✅ (@handle)".
func CardTitle(displayName, handle string, tier domain.VerificationTier) string {
	return displayName + " " + Badge(tier) + "(" + handle + ")"
}

// SiteName is the brand label followed by the humanized creation time.
func (n *Normalizer) SiteName(f domain.ExtractedFields) string {
	var when string
	switch {
	case f.CreatedAtDisplay != "":
		when = f.CreatedAtDisplay
	case !f.CreatedAt.IsZero():
		when = f.CreatedAt.In(n.opts.Location).Format(displayTimeLayout)
	}

	if when == "" {
		return n.opts.SiteLabel
	}
	return n.opts.SiteLabel + " · " + when
}

// Description is the body text with the community note appended when
// there is one.
func Description(body string, note *domain.CommunityNote) string {
	if note == nil {
		return body
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(NoteHeading)
	b.WriteString("\n\n")
	b.WriteString(note.Title)
	if note.Subtitle != "" {
		b.WriteString("\n\n")
		b.WriteString(note.Subtitle)
	}
	return b.String()
}

// CardType is "player" when the post carries a video.
func CardType(video *domain.Video) string {
	if video != nil {
		return domain.CardPlayer
	}
	return domain.CardSummaryLargeImage
}

// Image picks the card image: nothing, the only photo, or a composite
// rendering of all of them.
func Image(photos []string, compositeURL string) string {
	switch len(photos) {
	case 0:
		return ""
	case 1:
		return photos[0]
	default:
		return compositeURL + "?imgs=" + strings.Join(photos, ",")
	}
}

// StatsLine renders the counters in their fixed order.
func StatsLine(s domain.Stats) string {
	return "👀 " + s.Views +
		" ♻️ " + s.Reposts +
		" 💬 " + s.Replies +
		" 👍 " + s.Likes +
		" 🔖 " + s.Bookmarks
}

// OEmbedLink builds the discovery URL. Clients show author_name above the
// embed, so it carries the counters and, for videos, the description the
// player would otherwise hide.
func (n *Normalizer) OEmbedLink(handle string, stats *domain.Stats, hasVideo bool, description string) string {
	var parts []string
	if stats != nil {
		parts = append(parts, StatsLine(*stats))
	}
	if hasVideo {
		parts = append(parts, description)
	}

	q := []string{
		"author_name=" + encodeComponent(strings.Join(parts, "\n\n")),
		"author_url=" + "https://twitter.com/" + handle,
		"provider_name=" + encodeComponent(n.opts.SiteLabel),
		"provider_url=" + n.opts.ProviderURL,
	}
	return n.opts.OEmbedURL + "?" + strings.Join(q, "&")
}

// encodeComponent percent-encodes s for use as a query value, spaces
// included.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

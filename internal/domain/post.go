// Package domain contains the core entities of a post preview and the rules
// that hold regardless of which upstream representation produced them.
package domain

import (
	"regexp"
	"strings"
	"time"
)

// PostIdentifier addresses a single post as it appears in the route
// /{username}/status/{id}.
type PostIdentifier struct {
	Username string
	ID       string
}

// CanonicalURL returns the upstream web URL of the post.
func (p PostIdentifier) CanonicalURL() string {
	return "https://twitter.com/" + p.Username + "/status/" + p.ID
}

// VerificationTier is the badge class of a post author.
type VerificationTier string

const (
	TierNone         VerificationTier = "none"
	TierVerified     VerificationTier = "verified"
	TierBlueVerified VerificationTier = "blue_verified"
	TierBusiness     VerificationTier = "business"
)

// TierFromFlags resolves the upstream verification flags into a single tier.
// Legacy verification outranks the paid badge, which outranks business.
func TierFromFlags(verified, blueVerified, business bool) VerificationTier {
	switch {
	case verified:
		return TierVerified
	case blueVerified:
		return TierBlueVerified
	case business:
		return TierBusiness
	default:
		return TierNone
	}
}

// SourceKind identifies the representation fields were extracted from.
type SourceKind string

const (
	SourceJSON SourceKind = "json"
	SourceHTML SourceKind = "html"
)

// Video is the first playable variant attached to a post.
type Video struct {
	URL      string
	MimeType string
}

// CommunityNote is the crowd-sourced annotation shown under a post.
type CommunityNote struct {
	Title    string
	Subtitle string
}

// Stats holds the engagement counters exactly as the upstream UI renders
// them ("1.2K", "304"...). Any counter may be empty.
type Stats struct {
	Views     string
	Reposts   string
	Replies   string
	Likes     string
	Bookmarks string
}

// ExtractedFields is the source-agnostic record every extractor produces.
type ExtractedFields struct {
	Source      SourceKind
	DisplayName string
	Handle      string
	Tier        VerificationTier
	BodyText    string

	// CreatedAt is set for JSON sources; CreatedAtDisplay carries the
	// pre-formatted "date - time" string read from HTML.
	CreatedAt        time.Time
	CreatedAtDisplay string

	Photos        []string
	Video         *Video
	CommunityNote *CommunityNote
	Stats         *Stats
}

// NormalizeHandle guarantees the leading "@".
func NormalizeHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	if handle == "" || strings.HasPrefix(handle, "@") {
		return handle
	}
	return "@" + handle
}

// SourceStrategy selects which upstream representations a request uses.
type SourceStrategy string

const (
	// StrategyHybrid reads text, media and timestamp from the JSON payload
	// and engagement counters from the HTML document.
	StrategyHybrid SourceStrategy = "hybrid"
	// StrategyHTMLOnly reads every field from the HTML document.
	StrategyHTMLOnly SourceStrategy = "html_only"
)

// ParseSourceStrategy maps a configuration value to a strategy.
func ParseSourceStrategy(s string) (SourceStrategy, error) {
	switch SourceStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyHybrid, "":
		return StrategyHybrid, nil
	case StrategyHTMLOnly, "html":
		return StrategyHTMLOnly, nil
	default:
		return "", ErrUnknownStrategy
	}
}

// NeedsJSON reports whether the strategy fetches the syndication payload.
func (s SourceStrategy) NeedsJSON() bool {
	return s == StrategyHybrid
}

// OpenGraph is the og:* block of the preview.
type OpenGraph struct {
	SiteName    string
	Description string
	Video       *Video
}

// Card types understood by link-unfurling clients.
const (
	CardSummaryLargeImage = "summary_large_image"
	CardPlayer            = "player"
)

// Card is the twitter:* block of the preview.
type Card struct {
	Type    string
	Title   string
	Site    string
	Creator string
	Image   string
}

// EmbedMetadata is the finished preview document for one post.
type EmbedMetadata struct {
	Title       string
	Description string
	ThemeColor  string
	OpenGraph   OpenGraph
	Card        Card
	OEmbedURL   string
}

var mobileUserAgent = regexp.MustCompile(`(?i)iPhone|iPad|iPod|Android`)

// RedirectDirective tells the rendered page where to send the visitor.
type RedirectDirective struct {
	DeepLink string
	WebURL   string
}

// IsMobileUserAgent reports whether ua belongs to a phone or tablet.
func IsMobileUserAgent(ua string) bool {
	return mobileUserAgent.MatchString(ua)
}

// Target picks the deep link for mobile devices and the web URL otherwise.
func (d RedirectDirective) Target(userAgent string) string {
	if IsMobileUserAgent(userAgent) {
		return d.DeepLink
	}
	return d.WebURL
}

// Package redirect builds the client-side hand-off from the preview page to
// the post itself.
package redirect

import (
	"net/url"

	"xembed/internal/domain"
)

// Builder produces redirect directives. Enabled is false outside
// production so local previews can be inspected in a browser.
type Builder struct {
	Enabled bool
	WebBase string
}

// NewBuilder creates a Builder. An empty webBase targets twitter.com.
func NewBuilder(enabled bool, webBase string) *Builder {
	if webBase == "" {
		webBase = "https://twitter.com"
	}
	return &Builder{Enabled: enabled, WebBase: webBase}
}

// Build returns the directive for post, or false when redirects are off.
func (b *Builder) Build(post domain.PostIdentifier) (domain.RedirectDirective, bool) {
	if !b.Enabled {
		return domain.RedirectDirective{}, false
	}
	return domain.RedirectDirective{
		DeepLink: "twitter://status?id=" + url.QueryEscape(post.ID),
		WebURL:   b.WebBase + "/" + url.PathEscape(post.Username) + "/status/" + url.PathEscape(post.ID),
	}, true
}

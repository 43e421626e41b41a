// Package pages holds the templ pages served to link-preview crawlers.
package pages

import "xembed/internal/domain"

// EmbedView is everything the preview page renders.
type EmbedView struct {
	Metadata domain.EmbedMetadata
	// Redirect is nil when the page must not navigate away.
	Redirect *domain.RedirectDirective
}

// redirectTargets is read by the inline redirect script.
type redirectTargets struct {
	DeepLink string `json:"deep_link"`
	WebURL   string `json:"web_url"`
}

func targetsOf(d domain.RedirectDirective) redirectTargets {
	return redirectTargets{DeepLink: d.DeepLink, WebURL: d.WebURL}
}

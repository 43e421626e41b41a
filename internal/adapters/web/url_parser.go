package web

import (
	"regexp"

	"xembed/internal/domain"
)

// postURLRegex accepts twitter.com, x.com and mobile.twitter.com links as
// well as links pointing back at this service. Query strings are ignored.
var postURLRegex = regexp.MustCompile(
	`^https?://[^/]+/(\w{1,15})/status(?:es)?/(\d+)`,
)

// ParsePostURL extracts the post identifier from a post link. The id is
// checked with domain.ValidatePostID.
func ParsePostURL(raw string) (domain.PostIdentifier, error) {
	m := postURLRegex.FindStringSubmatch(raw)
	if m == nil {
		return domain.PostIdentifier{}, domain.ErrInvalidIdentifier
	}
	id, err := domain.ValidatePostID(m[2])
	if err != nil {
		return domain.PostIdentifier{}, err
	}
	return domain.PostIdentifier{Username: m[1], ID: id}, nil
}

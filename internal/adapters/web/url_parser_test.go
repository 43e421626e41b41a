package web_test

import (
	"errors"
	"strings"
	"testing"

	"xembed/internal/adapters/web"
	"xembed/internal/domain"
)

func TestParsePostURL_Valid(t *testing.T) {
	tests := []struct {
		url  string
		want domain.PostIdentifier
	}{
		{"https://twitter.com/jack/status/20", domain.PostIdentifier{Username: "jack", ID: "20"}},
		{"https://x.com/acgfbr/status/2006396789411172607", domain.PostIdentifier{Username: "acgfbr", ID: "2006396789411172607"}},
		{"https://mobile.twitter.com/jack/status/20?s=20", domain.PostIdentifier{Username: "jack", ID: "20"}},
		{"http://localhost:3000/some_user/status/123", domain.PostIdentifier{Username: "some_user", ID: "123"}},
		{"https://twitter.com/jack/statuses/20", domain.PostIdentifier{Username: "jack", ID: "20"}},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			// Act
			got, err := web.ParsePostURL(tt.url)

			// Assert
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParsePostURL_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"not a url",
		"https://twitter.com/jack",
		"https://twitter.com/jack/status/",
		"https://twitter.com/jack/status/abc",
		"https://twitter.com/jack/status/" + strings.Repeat("1", 41),
	} {
		if _, err := web.ParsePostURL(raw); !errors.Is(err, domain.ErrInvalidIdentifier) {
			t.Errorf("ParsePostURL(%q) = %v, want ErrInvalidIdentifier", raw, err)
		}
	}
}

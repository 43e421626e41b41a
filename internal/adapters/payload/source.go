// Package payload adapts the syndication JSON payload to the canonical
// field record.
package payload

import (
	"context"
	"fmt"
	"time"

	"xembed/internal/domain"
	"xembed/pkg/syndication"
)

// PostFetcher is satisfied by *syndication.Client.
type PostFetcher interface {
	FetchPost(ctx context.Context, id string) (*syndication.Post, error)
}

// Source fetches a post from the syndication endpoint and extracts its
// fields.
type Source struct {
	client PostFetcher
}

// NewSource creates a Source backed by client.
func NewSource(client PostFetcher) *Source {
	return &Source{client: client}
}

// Kind identifies this source in logs.
func (s *Source) Kind() domain.SourceKind {
	return domain.SourceJSON
}

// Fetch retrieves the payload for post and converts it.
func (s *Source) Fetch(ctx context.Context, post domain.PostIdentifier) (*domain.ExtractedFields, error) {
	p, err := s.client.FetchPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: syndication: %v", domain.ErrSourceUnavailable, err)
	}
	fields := FieldsFromPayload(p)
	return &fields, nil
}

// FieldsFromPayload reads the canonical fields from a decoded payload.
// Optional blocks that are missing stay nil or empty.
func FieldsFromPayload(p *syndication.Post) domain.ExtractedFields {
	fields := domain.ExtractedFields{
		Source:      domain.SourceJSON,
		DisplayName: p.User.Name,
		Handle:      domain.NormalizeHandle(p.User.ScreenName),
		Tier: domain.TierFromFlags(
			p.User.Verified,
			p.User.IsBlueVerified,
			p.User.VerifiedType == "Business",
		),
		BodyText:  p.Text,
		CreatedAt: parseCreatedAt(p.CreatedAt),
	}

	for _, photo := range p.Photos {
		if photo.URL != "" {
			fields.Photos = append(fields.Photos, photo.URL)
		}
	}

	if p.Video != nil && len(p.Video.Variants) > 0 {
		v := p.Video.Variants[0]
		fields.Video = &domain.Video{URL: v.Src, MimeType: v.Type}
	}

	if p.Birdwatch != nil {
		fields.CommunityNote = &domain.CommunityNote{
			Title:    p.Birdwatch.Title,
			Subtitle: string(p.Birdwatch.Subtitle),
		}
	}

	return fields
}

// parseCreatedAt accepts the ISO form the endpoint serves today and the
// legacy Ruby-style form older payloads used.
func parseCreatedAt(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RubyDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

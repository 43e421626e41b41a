package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"xembed/internal/domain"
	"xembed/pkg/log"
)

// FieldSource fetches one upstream representation of a post and extracts
// the canonical fields from it.
type FieldSource interface {
	Kind() domain.SourceKind
	Fetch(ctx context.Context, post domain.PostIdentifier) (*domain.ExtractedFields, error)
}

// MetadataBuilder turns fields into the preview document.
type MetadataBuilder interface {
	Build(f domain.ExtractedFields) domain.EmbedMetadata
}

// EmbedResult is the outcome of resolving one post.
type EmbedResult struct {
	Post     domain.PostIdentifier
	Fields   domain.ExtractedFields
	Metadata domain.EmbedMetadata
	// Degraded is set when a source failed and the preview was built
	// from what remained.
	Degraded bool
}

// ResolveEmbedUseCase runs the validate → fetch → extract → normalize
// pipeline for a single post.
type ResolveEmbedUseCase struct {
	strategy   domain.SourceStrategy
	jsonSource FieldSource
	htmlSource FieldSource
	builder    MetadataBuilder
}

// NewResolveEmbedUseCase creates the use case. jsonSource may be nil when
// strategy is StrategyHTMLOnly.
func NewResolveEmbedUseCase(strategy domain.SourceStrategy, jsonSource, htmlSource FieldSource, builder MetadataBuilder) *ResolveEmbedUseCase {
	return &ResolveEmbedUseCase{
		strategy:   strategy,
		jsonSource: jsonSource,
		htmlSource: htmlSource,
		builder:    builder,
	}
}

// Strategy returns the configured source strategy.
func (uc *ResolveEmbedUseCase) Strategy() domain.SourceStrategy {
	return uc.strategy
}

// Execute validates the id and resolves the preview. Invalid ids fail
// before any upstream request.
func (uc *ResolveEmbedUseCase) Execute(ctx context.Context, username, postID string) (*EmbedResult, error) {
	id, err := domain.ValidatePostID(postID)
	if err != nil {
		return nil, err
	}
	post := domain.PostIdentifier{Username: username, ID: id}
	ctx = log.WithFields(ctx, "username", username, "post_id", id, "strategy", string(uc.strategy))

	var (
		fields   *domain.ExtractedFields
		degraded bool
	)
	if uc.strategy.NeedsJSON() && uc.jsonSource != nil {
		fields, degraded, err = uc.resolveHybrid(ctx, post)
	} else {
		fields, err = uc.htmlSource.Fetch(ctx, post)
	}
	if err != nil {
		log.GlobalErrorCtx(ctx, "resolve embed failed", "error", err)
		return nil, err
	}

	return &EmbedResult{
		Post:     post,
		Fields:   *fields,
		Metadata: uc.builder.Build(*fields),
		Degraded: degraded,
	}, nil
}

type fetchResult struct {
	fields *domain.ExtractedFields
	err    error
}

// resolveHybrid fetches both representations concurrently. The JSON
// payload is authoritative; the page contributes the engagement counters.
// Losing the page drops the counters, losing the payload falls back to
// the page's own fields, losing both is fatal.
func (uc *ResolveEmbedUseCase) resolveHybrid(ctx context.Context, post domain.PostIdentifier) (*domain.ExtractedFields, bool, error) {
	var (
		wg         sync.WaitGroup
		jsonResult fetchResult
		htmlResult fetchResult
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		jsonResult.fields, jsonResult.err = uc.jsonSource.Fetch(ctx, post)
	}()
	go func() {
		defer wg.Done()
		htmlResult.fields, htmlResult.err = uc.htmlSource.Fetch(ctx, post)
	}()
	wg.Wait()

	switch {
	case jsonResult.err == nil && htmlResult.err == nil:
		merged := *jsonResult.fields
		merged.Stats = htmlResult.fields.Stats
		return &merged, false, nil

	case jsonResult.err == nil:
		log.GlobalWarnCtx(ctx, "page fetch failed, engagement counters dropped", "error", htmlResult.err)
		return jsonResult.fields, true, nil

	case htmlResult.err == nil:
		log.GlobalWarnCtx(ctx, "payload fetch failed, falling back to page fields", "error", jsonResult.err)
		return htmlResult.fields, true, nil

	default:
		return nil, false, fmt.Errorf("%w: all sources failed: %w", domain.ErrSourceUnavailable, errors.Join(jsonResult.err, htmlResult.err))
	}
}

package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// FallbackSource tries primary first and falls back to secondary when primary fails.
// A product primary reports as missing stays missing, so reads agree with primary's listing.
type FallbackSource struct {
	primary   Source
	secondary Source
	log       *zap.Logger
}

func NewFallbackSource(primary, secondary Source, log *zap.Logger) *FallbackSource {
	return &FallbackSource{
		primary:   primary,
		secondary: secondary,
		log:       log.With(zap.String("component", "fallback-source")),
	}
}

func (s *FallbackSource) IDs(ctx context.Context) ([]string, error) {
	ids, err := s.primary.IDs(ctx)
	if err == nil {
		return ids, nil
	}

	s.log.Warn("primary listing failed, using fallback", zap.Error(err))
	return s.secondary.IDs(ctx)
}

func (s *FallbackSource) Read(ctx context.Context, id string) ([]byte, error) {
	data, err := s.primary.Read(ctx, id)
	if err == nil {
		return data, nil
	}

	if errors.Is(err, ErrNotFound) {
		return nil, err
	}

	s.log.Warn("primary read failed, using fallback", zap.String("id", id), zap.Error(err))
	return s.secondary.Read(ctx, id)
}

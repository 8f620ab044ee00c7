// Package topics decides which tag a user should study next.
package topics

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/drill/internal/mastery"
)

// TagSource is the read side of the store the selector needs.
type TagSource interface {
	// DistinctTags returns each tag name carried by at least one of owner's
	// questions, once.
	DistinctTags(ctx context.Context, owner string) ([]string, error)

	// RecentTags returns tag names ordered by their newest question, newest first.
	RecentTags(ctx context.Context, owner string) ([]string, error)

	// Pinned returns owner's pinned tags in their stored order.
	Pinned(ctx context.Context, owner string) ([]string, error)
}

// ProgressSource computes per-tag progress.
type ProgressSource interface {
	TagProgress(ctx context.Context, owner, tag string) (mastery.TagProgress, error)
}

// Selector picks tags to study and builds the pinned-tag dashboard.
type Selector struct {
	tags     TagSource
	progress ProgressSource
	intN     func(n int) int
}

// Option configures a Selector.
type Option func(*Selector)

// WithRand makes the selector draw from r instead of the global source.
func WithRand(r *rand.Rand) Option {
	return func(s *Selector) {
		s.intN = r.IntN
	}
}

// NewSelector creates a selector.
func NewSelector(tags TagSource, progress ProgressSource, opts ...Option) *Selector {
	s := &Selector{
		tags:     tags,
		progress: progress,
		intN:     rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RandomTag picks one of owner's tags uniformly at random and returns its
// progress. Every distinct tag is equally likely no matter how many
// questions carry it. Returns nil when owner has no tagged questions.
func (s *Selector) RandomTag(ctx context.Context, owner string) (*mastery.TagProgress, error) {
	names, err := s.tags.DistinctTags(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("distinct tags: %w", err)
	}
	names = distinct(names)
	if len(names) == 0 {
		return nil, nil
	}

	chosen := names[s.intN(len(names))]
	tp, err := s.progress.TagProgress(ctx, owner, chosen)
	if err != nil {
		return nil, err
	}
	return &tp, nil
}

// PinnedTags returns progress for each pinned tag in pinned order.
func (s *Selector) PinnedTags(ctx context.Context, owner string) ([]mastery.TagProgress, error) {
	names, err := s.tags.Pinned(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("pinned tags: %w", err)
	}
	out := make([]mastery.TagProgress, 0, len(names))
	for _, name := range names {
		tp, err := s.progress.TagProgress(ctx, owner, name)
		if err != nil {
			return nil, err
		}
		out = append(out, tp)
	}
	return out, nil
}

// RecentTags returns tag names ordered by the creation time of their newest
// question, newest first.
func (s *Selector) RecentTags(ctx context.Context, owner string) ([]string, error) {
	names, err := s.tags.RecentTags(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("recent tags: %w", err)
	}
	return names, nil
}

// distinct drops repeated names, keeping first occurrences in order.
func distinct(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0:0]
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

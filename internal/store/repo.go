package store

import (
	"context"
	"time"

	"github.com/abhisek/drill/internal/deck"
)

// QuestionRepo loads and saves questions and their tag memberships. Every
// method is scoped to a single owner.
type QuestionRepo interface {
	// Get returns the question, or deck.ErrNotFound if it does not exist or
	// belongs to someone else.
	Get(ctx context.Context, owner, id string) (*deck.Question, error)

	// Create stores a new question, assigning its ID and first revision.
	Create(ctx context.Context, q *deck.Question) error

	// Save writes q if its revision still matches the stored one, then bumps
	// q.Revision. A stale revision yields deck.ErrConflict.
	Save(ctx context.Context, q *deck.Question) error

	// Delete removes the question and its tag memberships.
	Delete(ctx context.Context, owner, id string) error

	ListAll(ctx context.Context, owner string) ([]*deck.Question, error)
	ListFavorites(ctx context.Context, owner string) ([]*deck.Question, error)
	ListForTag(ctx context.Context, owner, tag string) ([]*deck.Question, error)

	// FindByHash returns the question imported with the given content hash.
	FindByHash(ctx context.Context, owner, hash string) (*deck.Question, error)

	// DistinctTags returns each tag used by at least one question, once, sorted.
	DistinctTags(ctx context.Context, owner string) ([]string, error)

	// RecentTags returns tag names ordered by their newest question's
	// creation time, newest first.
	RecentTags(ctx context.Context, owner string) ([]string, error)
}

// PinRepo manages each owner's ordered list of pinned tags. Positions are
// dense: 0..n-1 with no gaps after every operation.
type PinRepo interface {
	// Pinned returns the pinned tags in order.
	Pinned(ctx context.Context, owner string) ([]string, error)

	// Pin appends tag to the end of the list. Pinning twice is a no-op.
	Pin(ctx context.Context, owner, tag string) error

	// Unpin removes tag and closes the gap.
	Unpin(ctx context.Context, owner, tag string) error

	// MovePinned moves tag to index, shifting the tags in between.
	MovePinned(ctx context.Context, owner, tag string, index int) error
}

// ReviewEventData captures a single answered review.
type ReviewEventData struct {
	QuestionID   string
	Owner        string
	Response     deck.Response
	FromState    deck.State
	ToState      deck.State
	IntervalDays float64
	EFactor      float64
}

// ReviewEvent is a stored review with its global ordering.
type ReviewEvent struct {
	ReviewEventData
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append access to review events.
type EventRepo interface {
	// AppendReviewEvent records an answered review.
	AppendReviewEvent(ctx context.Context, data ReviewEventData) error

	// RecentReviews returns owner's latest reviews, newest first.
	RecentReviews(ctx context.Context, owner string, limit int) ([]ReviewEvent, error)
}

package mastery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/drill/internal/deck"
)

// ErrInconsistentCounts is returned when more questions are due than exist
// in the set, which can only happen if the store's bookkeeping is broken.
var ErrInconsistentCounts = errors.New("due count exceeds question count")

// QuestionLister is the read side of the question store the aggregator needs.
type QuestionLister interface {
	ListAll(ctx context.Context, owner string) ([]*deck.Question, error)
	ListFavorites(ctx context.Context, owner string) ([]*deck.Question, error)
	ListForTag(ctx context.Context, owner, tag string) ([]*deck.Question, error)
}

// AggregateProgress summarizes how much of a question set is outstanding.
// Count is the number of due questions.
type AggregateProgress struct {
	Count      uint64  `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TagProgress summarizes one tag. Count is the number of questions carrying
// the tag and Progress the percentage of them that are not due.
type TagProgress struct {
	Name     string  `json:"name"`
	Count    uint64  `json:"count"`
	Progress float64 `json:"progress"`
}

// Aggregator computes due counts and mastery percentages. It never mutates
// questions.
type Aggregator struct {
	questions QuestionLister
	now       func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock overrides the time source used to evaluate due-ness.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// NewAggregator creates an aggregator over the given question store.
func NewAggregator(questions QuestionLister, opts ...Option) *Aggregator {
	a := &Aggregator{
		questions: questions,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TotalProgress reports the due count across all of owner's questions.
func (a *Aggregator) TotalProgress(ctx context.Context, owner string) (AggregateProgress, error) {
	qs, err := a.questions.ListAll(ctx, owner)
	if err != nil {
		return AggregateProgress{}, fmt.Errorf("list questions: %w", err)
	}
	return a.aggregate(qs)
}

// FavoriteProgress reports the due count across owner's favorite questions.
func (a *Aggregator) FavoriteProgress(ctx context.Context, owner string) (AggregateProgress, error) {
	qs, err := a.questions.ListFavorites(ctx, owner)
	if err != nil {
		return AggregateProgress{}, fmt.Errorf("list favorites: %w", err)
	}
	return a.aggregate(qs)
}

// TagProgress reports how much of a tag's questions are mastered.
func (a *Aggregator) TagProgress(ctx context.Context, owner, tag string) (TagProgress, error) {
	qs, err := a.questions.ListForTag(ctx, owner, tag)
	if err != nil {
		return TagProgress{}, fmt.Errorf("list questions for tag %q: %w", tag, err)
	}
	due, total := CountDue(qs, a.now())
	pct, err := notDuePercentage(due, total)
	if err != nil {
		return TagProgress{}, fmt.Errorf("tag %q: %w", tag, err)
	}
	return TagProgress{Name: tag, Count: total, Progress: pct}, nil
}

func (a *Aggregator) aggregate(qs []*deck.Question) (AggregateProgress, error) {
	due, total := CountDue(qs, a.now())
	pct, err := notDuePercentage(due, total)
	if err != nil {
		return AggregateProgress{}, err
	}
	return AggregateProgress{Count: due, Percentage: pct}, nil
}

// CountDue returns how many of qs are due at now, and how many there are.
func CountDue(qs []*deck.Question, now time.Time) (due, total uint64) {
	for _, q := range qs {
		total++
		if q.IsDue(now) {
			due++
		}
	}
	return due, total
}

// notDuePercentage returns 100 - due/total*100, or 0 for an empty set.
func notDuePercentage(due, total uint64) (float64, error) {
	if total == 0 {
		return 0, nil
	}
	if due > total {
		return 0, fmt.Errorf("%w: %d due of %d", ErrInconsistentCounts, due, total)
	}
	return 100 - float64(due)/float64(total)*100, nil
}

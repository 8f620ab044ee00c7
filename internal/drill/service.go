// Package drill ties the scheduler, the question store and the search index
// together into the operations a user performs.
package drill

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/drill/internal/deck"
	"github.com/abhisek/drill/internal/search"
	"github.com/abhisek/drill/internal/spacedrep"
	"github.com/abhisek/drill/internal/store"
)

// DefaultMaxAttempts is how many times an update is retried against fresh
// state after a revision conflict.
const DefaultMaxAttempts = 3

// Outcome describes an answered review.
type Outcome struct {
	Question  *deck.Question
	Response  deck.Response
	FromState deck.State
}

// Graduated reports whether the answer moved the question out of Learning.
func (o Outcome) Graduated() bool {
	return o.FromState == deck.StateLearning && o.Question.State == deck.StateReview
}

// Service performs user actions against the question store.
type Service struct {
	questions   store.QuestionRepo
	events      store.EventRepo
	scheduler   *spacedrep.Scheduler
	index       search.Sink
	validate    *validator.Validate
	maxAttempts int
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithScheduler replaces the default-parameter scheduler.
func WithScheduler(s *spacedrep.Scheduler) Option {
	return func(svc *Service) { svc.scheduler = s }
}

// WithIndex sets the sink that receives reindex notifications.
func WithIndex(sink search.Sink) Option {
	return func(svc *Service) { svc.index = sink }
}

// WithMaxAttempts bounds conflict retries. Values below 1 mean one attempt.
func WithMaxAttempts(n int) Option {
	return func(svc *Service) { svc.maxAttempts = max(n, 1) }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// NewService creates a service. events may be nil to skip the review log.
func NewService(questions store.QuestionRepo, events store.EventRepo, opts ...Option) *Service {
	s := &Service{
		questions:   questions,
		events:      events,
		scheduler:   spacedrep.NewScheduler(spacedrep.DefaultParams()),
		index:       search.Discard,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		maxAttempts: DefaultMaxAttempts,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates d and stores it as a new question in its initial state.
func (s *Service) Create(ctx context.Context, d deck.Draft) (*deck.Question, error) {
	if err := s.validate.Struct(d); err != nil {
		return nil, fmt.Errorf("invalid question: %w", err)
	}

	q := deck.NewQuestion(d, s.now())
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	s.index.Submit(search.DocumentFor(q))

	s.logger.Debug("question created", "id", q.ID, "owner", q.Owner, "tags", q.Tags)
	return q, nil
}

// Answer records r for the question and persists the new schedule.
func (s *Service) Answer(ctx context.Context, owner, id string, r deck.Response) (*Outcome, error) {
	if !r.Valid() {
		return nil, &deck.InvalidResponseError{Value: r.String()}
	}

	var from deck.State
	now := s.now()
	q, err := s.update(ctx, owner, id, func(q *deck.Question) error {
		from = q.State
		return s.scheduler.RecordResponse(q, r, now)
	})
	if err != nil {
		return nil, err
	}

	s.appendEvent(ctx, q, r, from)
	return &Outcome{Question: q, Response: r, FromState: from}, nil
}

// SetFavorite marks or unmarks the question as a favorite.
func (s *Service) SetFavorite(ctx context.Context, owner, id string, favorite bool) (*deck.Question, error) {
	return s.update(ctx, owner, id, func(q *deck.Question) error {
		q.IsFavorite = favorite
		return nil
	})
}

// Retag replaces the question's tags.
func (s *Service) Retag(ctx context.Context, owner, id string, tags []string) (*deck.Question, error) {
	tags = deck.NormalizeTags(tags)
	if err := s.validate.Var(tags, "dive,required,max=64"); err != nil {
		return nil, fmt.Errorf("invalid tags: %w", err)
	}
	return s.update(ctx, owner, id, func(q *deck.Question) error {
		q.Tags = tags
		return nil
	})
}

// Delete removes the question and drops it from the index.
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	if err := s.questions.Delete(ctx, owner, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	s.index.SubmitRemove(id)
	return nil
}

// Due returns owner's due questions, optionally restricted to tag. Questions
// in Learning come first, then the most overdue.
func (s *Service) Due(ctx context.Context, owner, tag string) ([]*deck.Question, error) {
	var (
		qs  []*deck.Question
		err error
	)
	if tag == "" {
		qs, err = s.questions.ListAll(ctx, owner)
	} else {
		qs, err = s.questions.ListForTag(ctx, owner, tag)
	}
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	now := s.now()
	due := slices.DeleteFunc(qs, func(q *deck.Question) bool { return !q.IsDue(now) })
	slices.SortStableFunc(due, func(a, b *deck.Question) int {
		return cmp.Compare(dueAt(a).UnixNano(), dueAt(b).UnixNano())
	})
	return due, nil
}

// Reindex writes every question owner has to idx directly, bypassing the
// sink's bounded queue.
func (s *Service) Reindex(ctx context.Context, owner string, idx search.Index) (int, error) {
	qs, err := s.questions.ListAll(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("list questions: %w", err)
	}
	for i, q := range qs {
		if err := idx.Put(ctx, search.DocumentFor(q)); err != nil {
			return i, fmt.Errorf("index question %s: %w", q.ID, err)
		}
	}
	return len(qs), nil
}

// dueAt is when q became due. Unreviewed and learning questions sort as due
// since the zero time.
func dueAt(q *deck.Question) time.Time {
	if q.LastReviewed == nil || q.State == deck.StateLearning {
		return time.Time{}
	}
	return q.LastReviewed.Add(q.Interval())
}

// update loads the question, applies fn and saves it, starting over from
// fresh state when the save loses a revision race.
func (s *Service) update(ctx context.Context, owner, id string, fn func(q *deck.Question) error) (*deck.Question, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		q, err := s.questions.Get(ctx, owner, id)
		if err != nil {
			return nil, fmt.Errorf("load question: %w", err)
		}
		if err := fn(q); err != nil {
			return nil, err
		}

		err = s.questions.Save(ctx, q)
		if err == nil {
			s.index.Submit(search.DocumentFor(q))
			return q, nil
		}
		if !errors.Is(err, deck.ErrConflict) {
			return nil, fmt.Errorf("save question: %w", err)
		}

		lastErr = err
		s.logger.Debug("question changed underneath, retrying",
			"id", id, "attempt", attempt, "max_attempts", s.maxAttempts)
	}
	return nil, fmt.Errorf("save question after %d attempts: %w", s.maxAttempts, lastErr)
}

// appendEvent records the review. The answer is already saved, so a failure
// here is logged rather than returned.
func (s *Service) appendEvent(ctx context.Context, q *deck.Question, r deck.Response, from deck.State) {
	if s.events == nil {
		return
	}
	err := s.events.AppendReviewEvent(ctx, store.ReviewEventData{
		QuestionID:   q.ID,
		Owner:        q.Owner,
		Response:     r,
		FromState:    from,
		ToState:      q.State,
		IntervalDays: q.IntervalDays,
		EFactor:      q.EFactor,
	})
	if err != nil {
		s.logger.Warn("failed to record review event", "id", q.ID, "error", err)
	}
}

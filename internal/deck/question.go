package deck

import (
	"slices"
	"time"
)

// State represents a question's position in the review lifecycle.
type State string

const (
	StateNew      State = "new"
	StateLearning State = "learning"
	StateReview   State = "review"
)

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	switch s {
	case StateNew, StateLearning, StateReview:
		return true
	}
	return false
}

// DefaultEFactor is the easiness factor assigned to new questions.
const DefaultEFactor = 2.5

// DefaultIntervalDays is the interval assigned to new questions and restored
// by an Again response.
const DefaultIntervalDays = 1.0

// Day is the base unit intervals are expressed in.
const Day = 24 * time.Hour

// Question is a single flashcard and its scheduling state.
type Question struct {
	ID    string
	Owner string

	Text   string
	Answer string
	Tags   []string

	State        State
	LearningStep LearningStep
	IntervalDays float64
	EFactor      float64
	TimesFailed  int
	LastReviewed *time.Time
	IsFavorite   bool

	// ContentHash identifies imported questions; empty for hand-written ones.
	ContentHash string
	Created     time.Time
	Modified    time.Time

	// Revision is bumped on every successful save. A save carrying a stale
	// revision is rejected with ErrConflict.
	Revision int64
}

// Draft holds the user-authored parts of a question before it is stored.
type Draft struct {
	Owner       string   `validate:"required"`
	Text        string   `validate:"required"`
	Answer      string   `validate:"required"`
	Tags        []string `validate:"dive,required,max=64"`
	IsFavorite  bool
	ContentHash string
}

// NewQuestion builds a question from a draft with the initial scheduling
// state: Learning at the first step, efactor 2.5, a one-day interval and no
// review yet.
func NewQuestion(d Draft, now time.Time) *Question {
	return &Question{
		Owner:        d.Owner,
		Text:         d.Text,
		Answer:       d.Answer,
		Tags:         NormalizeTags(d.Tags),
		State:        StateLearning,
		LearningStep: FirstStep(),
		IntervalDays: DefaultIntervalDays,
		EFactor:      DefaultEFactor,
		IsFavorite:   d.IsFavorite,
		ContentHash:  d.ContentHash,
		Created:      now,
		Modified:     now,
	}
}

// Interval returns the review interval as a duration.
func (q *Question) Interval() time.Duration {
	return time.Duration(q.IntervalDays * float64(Day))
}

// IsDue reports whether the question should be reviewed at now. Questions
// never reviewed and questions still in Learning are always due.
func (q *Question) IsDue(now time.Time) bool {
	if q.LastReviewed == nil || q.State == StateLearning {
		return true
	}
	return now.Sub(*q.LastReviewed) >= q.Interval()
}

// HasTag reports whether the question carries the named tag.
func (q *Question) HasTag(name string) bool {
	return slices.Contains(q.Tags, name)
}

// Clone returns a deep copy of q.
func (q *Question) Clone() *Question {
	c := *q
	c.Tags = slices.Clone(q.Tags)
	if q.LastReviewed != nil {
		t := *q.LastReviewed
		c.LastReviewed = &t
	}
	return &c
}

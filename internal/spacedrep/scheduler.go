package spacedrep

import (
	"time"

	"github.com/abhisek/drill/internal/deck"
)

// Scheduler advances a question's review state after a self-reported
// response. It performs no I/O and never reads the clock.
type Scheduler struct {
	params Params
}

// NewScheduler creates a scheduler with the given parameters.
func NewScheduler(params Params) *Scheduler {
	return &Scheduler{params: params}
}

// Params returns the scheduler's parameters.
func (s *Scheduler) Params() Params {
	return s.params
}

// RecordResponse mutates q according to r, evaluated against q's state
// before the call, and stamps LastReviewed with now. An unknown response
// leaves q untouched and returns deck.ErrInvalidResponse.
//
// efactor has no floor: repeated Hard or Again answers keep shrinking it.
func (s *Scheduler) RecordResponse(q *deck.Question, r deck.Response, now time.Time) error {
	switch r {
	case deck.Good:
		s.good(q)
	case deck.Easy:
		s.easy(q)
	case deck.Hard:
		s.hard(q)
	case deck.Again:
		s.again(q)
	default:
		return &deck.InvalidResponseError{Value: r.String()}
	}

	reviewed := now
	q.LastReviewed = &reviewed
	return nil
}

func (s *Scheduler) good(q *deck.Question) {
	if q.State == deck.StateLearning {
		if q.LearningStep.IsLast() {
			q.State = deck.StateReview
		} else {
			q.LearningStep = q.LearningStep.Next()
		}
		return
	}
	q.IntervalDays *= q.EFactor
}

func (s *Scheduler) easy(q *deck.Question) {
	if q.State == deck.StateLearning {
		q.State = deck.StateReview
	}
	q.IntervalDays *= s.params.EasyBonus * s.params.IntervalModifier
	q.EFactor += q.EFactor * EasyEFactorGain
}

func (s *Scheduler) hard(q *deck.Question) {
	q.TimesFailed++
	q.IntervalDays *= HardIntervalFactor * s.params.IntervalModifier
	q.EFactor -= q.EFactor * HardEFactorPenalty
}

func (s *Scheduler) again(q *deck.Question) {
	q.State = deck.StateLearning
	q.LearningStep = deck.FirstStep()
	q.IntervalDays = deck.DefaultIntervalDays
	q.EFactor -= q.EFactor * AgainEFactorPenalty
}

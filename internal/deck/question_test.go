package deck

import (
	"errors"
	"testing"
	"time"
)

func TestNewQuestion_Defaults(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	q := NewQuestion(Draft{Owner: "ann", Text: "Q", Answer: "A", Tags: []string{"go", " go ", ""}}, now)

	if q.State != StateLearning {
		t.Errorf("State = %q, want learning", q.State)
	}
	if q.LearningStep != 1 {
		t.Errorf("LearningStep = %d, want 1", q.LearningStep)
	}
	if q.EFactor != 2.5 {
		t.Errorf("EFactor = %f, want 2.5", q.EFactor)
	}
	if q.Interval() != 24*time.Hour {
		t.Errorf("Interval() = %s, want 24h", q.Interval())
	}
	if q.LastReviewed != nil {
		t.Error("expected LastReviewed to be nil")
	}
	if q.TimesFailed != 0 {
		t.Errorf("TimesFailed = %d, want 0", q.TimesFailed)
	}
	if len(q.Tags) != 1 || q.Tags[0] != "go" {
		t.Errorf("Tags = %v, want [go]", q.Tags)
	}
	if !q.Created.Equal(now) {
		t.Errorf("Created = %v, want %v", q.Created, now)
	}
}

func TestIsDue(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name string
		q    Question
		want bool
	}{
		{"never reviewed", Question{State: StateReview, IntervalDays: 10}, true},
		{"learning ignores interval", Question{State: StateLearning, IntervalDays: 10, LastReviewed: at(time.Hour)}, true},
		{"review within interval", Question{State: StateReview, IntervalDays: 4, LastReviewed: at(3 * Day)}, false},
		{"review exactly at interval", Question{State: StateReview, IntervalDays: 4, LastReviewed: at(4 * Day)}, true},
		{"review past interval", Question{State: StateReview, IntervalDays: 4, LastReviewed: at(5 * Day)}, true},
		{"new state uses interval", Question{State: StateNew, IntervalDays: 2, LastReviewed: at(Day)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.IsDue(now); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLearningSteps(t *testing.T) {
	if FirstStep() != 1 {
		t.Errorf("FirstStep() = %d, want 1", FirstStep())
	}
	if FirstStep().IsLast() {
		t.Error("step 1 should not be last")
	}
	if got := FirstStep().Next(); got != 2 {
		t.Errorf("Next() = %d, want 2", got)
	}
	if !LearningStep(2).IsLast() {
		t.Error("step 2 should be last")
	}
	if got := LearningStep(2).Next(); got != 2 {
		t.Errorf("Next() on last step = %d, want 2", got)
	}
}

func TestParseResponse(t *testing.T) {
	for _, r := range []Response{Again, Hard, Good, Easy} {
		got, err := ParseResponse(" " + r.String() + " ")
		if err != nil {
			t.Fatalf("ParseResponse(%q): %v", r.String(), err)
		}
		if got != r {
			t.Errorf("ParseResponse(%q) = %v, want %v", r.String(), got, r)
		}
	}

	_, err := ParseResponse("meh")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("expected ErrInvalidResponse, got %v", err)
	}
	var ire *InvalidResponseError
	if !errors.As(err, &ire) || ire.Value != "meh" {
		t.Errorf("expected InvalidResponseError for meh, got %v", err)
	}
}

func TestResponseValid(t *testing.T) {
	if Response(0).Valid() || Response(5).Valid() {
		t.Error("out of range responses should be invalid")
	}
	if !Good.Valid() {
		t.Error("Good should be valid")
	}
}

func TestClone_IsDeep(t *testing.T) {
	ts := time.Now()
	q := &Question{Tags: []string{"a"}, LastReviewed: &ts}
	c := q.Clone()
	c.Tags[0] = "b"
	*c.LastReviewed = ts.Add(time.Hour)
	if q.Tags[0] != "a" {
		t.Error("clone shares tag slice")
	}
	if !q.LastReviewed.Equal(ts) {
		t.Error("clone shares LastReviewed")
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags("go, sql ,,go,algorithms")
	want := []string{"algorithms", "go", "sql"}
	if len(got) != len(want) {
		t.Fatalf("SplitTags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SplitTags()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

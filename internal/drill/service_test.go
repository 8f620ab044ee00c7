package drill

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/drill/internal/deck"
	"github.com/abhisek/drill/internal/search"
	"github.com/abhisek/drill/internal/store"
)

// memRepo is an in-memory QuestionRepo with revision checks.
type memRepo struct {
	mu        sync.Mutex
	questions map[string]*deck.Question
	nextID    int

	// conflicts makes the next N saves fail as if another writer won.
	conflicts int
	saves     int
}

func newMemRepo() *memRepo {
	return &memRepo{questions: make(map[string]*deck.Question)}
}

func (m *memRepo) Get(_ context.Context, owner, id string) (*deck.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok || q.Owner != owner {
		return nil, deck.ErrNotFound
	}
	return q.Clone(), nil
}

func (m *memRepo) Create(_ context.Context, q *deck.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	q.ID = fmt.Sprintf("q%d", m.nextID)
	q.Revision = 1
	m.questions[q.ID] = q.Clone()
	return nil
}

func (m *memRepo) Save(_ context.Context, q *deck.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	stored, ok := m.questions[q.ID]
	if !ok {
		return deck.ErrNotFound
	}
	if m.conflicts > 0 {
		m.conflicts--
		stored.Revision++
		return deck.ErrConflict
	}
	if stored.Revision != q.Revision {
		return deck.ErrConflict
	}
	q.Revision++
	m.questions[q.ID] = q.Clone()
	return nil
}

func (m *memRepo) Delete(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok || q.Owner != owner {
		return deck.ErrNotFound
	}
	delete(m.questions, id)
	return nil
}

func (m *memRepo) filter(owner string, keep func(*deck.Question) bool) []*deck.Question {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*deck.Question
	for i := 1; i <= m.nextID; i++ {
		q, ok := m.questions[fmt.Sprintf("q%d", i)]
		if ok && q.Owner == owner && keep(q) {
			out = append(out, q.Clone())
		}
	}
	return out
}

func (m *memRepo) ListAll(_ context.Context, owner string) ([]*deck.Question, error) {
	return m.filter(owner, func(*deck.Question) bool { return true }), nil
}

func (m *memRepo) ListFavorites(_ context.Context, owner string) ([]*deck.Question, error) {
	return m.filter(owner, func(q *deck.Question) bool { return q.IsFavorite }), nil
}

func (m *memRepo) ListForTag(_ context.Context, owner, tag string) ([]*deck.Question, error) {
	return m.filter(owner, func(q *deck.Question) bool { return q.HasTag(tag) }), nil
}

func (m *memRepo) FindByHash(_ context.Context, owner, hash string) (*deck.Question, error) {
	qs := m.filter(owner, func(q *deck.Question) bool { return q.ContentHash == hash })
	if len(qs) == 0 {
		return nil, deck.ErrNotFound
	}
	return qs[0], nil
}

func (m *memRepo) DistinctTags(context.Context, string) ([]string, error) { return nil, nil }
func (m *memRepo) RecentTags(context.Context, string) ([]string, error)   { return nil, nil }

type recordingEvents struct {
	events []store.ReviewEventData
	err    error
}

func (r *recordingEvents) AppendReviewEvent(_ context.Context, data store.ReviewEventData) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, data)
	return nil
}

func (r *recordingEvents) RecentReviews(context.Context, string, int) ([]store.ReviewEvent, error) {
	return nil, nil
}

type recordingSink struct {
	submitted []search.Document
	removed   []string
}

func (s *recordingSink) Submit(doc search.Document)     { s.submitted = append(s.submitted, doc) }
func (s *recordingSink) SubmitRemove(questionID string) { s.removed = append(s.removed, questionID) }

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...Option) (*Service, *memRepo, *recordingEvents, *recordingSink) {
	t.Helper()
	repo := newMemRepo()
	events := &recordingEvents{}
	sink := &recordingSink{}
	opts = append([]Option{WithIndex(sink), WithClock(func() time.Time { return testNow })}, opts...)
	return NewService(repo, events, opts...), repo, events, sink
}

func draft(text string, tags ...string) deck.Draft {
	return deck.Draft{Owner: "alice", Text: text, Answer: "a", Tags: tags}
}

func TestCreate(t *testing.T) {
	svc, repo, _, sink := newTestService(t)

	q, err := svc.Create(context.Background(), draft("2+2", "math"))
	require.NoError(t, err)

	assert.Equal(t, deck.StateLearning, q.State)
	assert.Equal(t, deck.DefaultEFactor, q.EFactor)
	assert.Equal(t, testNow, q.Created)
	assert.Len(t, repo.questions, 1)
	require.Len(t, sink.submitted, 1)
	assert.Equal(t, q.ID, sink.submitted[0].QuestionID)
}

func TestCreateRejectsIncompleteDraft(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	tests := []struct {
		name  string
		draft deck.Draft
	}{
		{"no owner", deck.Draft{Text: "q", Answer: "a"}},
		{"no text", deck.Draft{Owner: "alice", Answer: "a"}},
		{"no answer", deck.Draft{Owner: "alice", Text: "q"}},
		{"empty tag", deck.Draft{Owner: "alice", Text: "q", Answer: "a", Tags: []string{""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.draft)
			assert.Error(t, err)
		})
	}
	assert.Empty(t, repo.questions)
}

func TestAnswerGraduatesAndRecords(t *testing.T) {
	svc, repo, events, sink := newTestService(t)
	ctx := context.Background()

	q, err := svc.Create(ctx, draft("2+2"))
	require.NoError(t, err)

	out, err := svc.Answer(ctx, "alice", q.ID, deck.Easy)
	require.NoError(t, err)

	assert.Equal(t, deck.StateLearning, out.FromState)
	assert.Equal(t, deck.StateReview, out.Question.State)
	assert.True(t, out.Graduated())
	require.NotNil(t, out.Question.LastReviewed)
	assert.Equal(t, testNow, *out.Question.LastReviewed)
	assert.Equal(t, int64(2), repo.questions[q.ID].Revision)

	require.Len(t, events.events, 1)
	assert.Equal(t, deck.Easy, events.events[0].Response)
	assert.Equal(t, deck.StateLearning, events.events[0].FromState)
	assert.Equal(t, deck.StateReview, events.events[0].ToState)

	// One document for the create, one for the answer.
	assert.Len(t, sink.submitted, 2)
}

func TestAnswerRetriesOnConflict(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	q, err := svc.Create(ctx, draft("2+2"))
	require.NoError(t, err)

	repo.conflicts = 2
	out, err := svc.Answer(ctx, "alice", q.ID, deck.Hard)
	require.NoError(t, err)

	assert.Equal(t, 3, repo.saves)
	assert.Equal(t, 1, out.Question.TimesFailed, "the response is applied once, to fresh state")
}

func TestAnswerGivesUpAfterMaxAttempts(t *testing.T) {
	svc, repo, events, _ := newTestService(t, WithMaxAttempts(2))
	ctx := context.Background()

	q, err := svc.Create(ctx, draft("2+2"))
	require.NoError(t, err)

	repo.conflicts = 5
	_, err = svc.Answer(ctx, "alice", q.ID, deck.Good)
	require.ErrorIs(t, err, deck.ErrConflict)
	assert.Equal(t, 2, repo.saves)
	assert.Empty(t, events.events)
}

func TestAnswerInvalidResponse(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	q, err := svc.Create(ctx, draft("2+2"))
	require.NoError(t, err)

	_, err = svc.Answer(ctx, "alice", q.ID, deck.Response(9))
	require.ErrorIs(t, err, deck.ErrInvalidResponse)
	assert.Zero(t, repo.saves)
}

func TestAnswerNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Answer(context.Background(), "alice", "missing", deck.Good)
	require.ErrorIs(t, err, deck.ErrNotFound)
}

func TestAnswerEventFailureIsNotReturned(t *testing.T) {
	svc, _, events, _ := newTestService(t)
	ctx := context.Background()
	events.err = errors.New("disk full")

	q, err := svc.Create(ctx, draft("2+2"))
	require.NoError(t, err)

	_, err = svc.Answer(ctx, "alice", q.ID, deck.Good)
	assert.NoError(t, err)
}

func TestSetFavoriteAndRetag(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	q, err := svc.Create(ctx, draft("2+2", "math"))
	require.NoError(t, err)

	_, err = svc.SetFavorite(ctx, "alice", q.ID, true)
	require.NoError(t, err)
	assert.True(t, repo.questions[q.ID].IsFavorite)

	_, err = svc.Retag(ctx, "alice", q.ID, []string{" b ", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, repo.questions[q.ID].Tags)
}

func TestDelete(t *testing.T) {
	svc, repo, _, sink := newTestService(t)
	ctx := context.Background()

	q, err := svc.Create(ctx, draft("2+2"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "alice", q.ID))
	assert.Empty(t, repo.questions)
	assert.Equal(t, []string{q.ID}, sink.removed)

	err = svc.Delete(ctx, "alice", q.ID)
	assert.ErrorIs(t, err, deck.ErrNotFound)
}

func TestDueOrdering(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	reviewed := func(daysAgo, interval float64) *deck.Question {
		q, err := svc.Create(ctx, draft(fmt.Sprintf("ago %v interval %v", daysAgo, interval), "t"))
		require.NoError(t, err)
		stored := repo.questions[q.ID]
		at := testNow.Add(-time.Duration(daysAgo * float64(deck.Day)))
		stored.State = deck.StateReview
		stored.LastReviewed = &at
		stored.IntervalDays = interval
		return stored
	}

	slightlyOverdue := reviewed(3, 2.5)
	notDue := reviewed(1, 5)
	veryOverdue := reviewed(10, 1)
	learning, err := svc.Create(ctx, draft("fresh", "other"))
	require.NoError(t, err)

	due, err := svc.Due(ctx, "alice", "")
	require.NoError(t, err)
	ids := make([]string, len(due))
	for i, q := range due {
		ids[i] = q.ID
	}
	assert.Equal(t, []string{learning.ID, veryOverdue.ID, slightlyOverdue.ID}, ids)
	assert.NotContains(t, ids, notDue.ID)

	tagged, err := svc.Due(ctx, "alice", "t")
	require.NoError(t, err)
	assert.Len(t, tagged, 2)
}

// memIndex is a synchronous search.Index keyed by question ID.
type memIndex struct {
	docs map[string]search.Document
	fail bool
}

func (m *memIndex) Put(_ context.Context, doc search.Document) error {
	if m.fail {
		return errors.New("index unavailable")
	}
	m.docs[doc.QuestionID] = doc
	return nil
}

func (m *memIndex) Remove(_ context.Context, id string) error {
	delete(m.docs, id)
	return nil
}

func (m *memIndex) Search(context.Context, string, string, int) ([]search.Hit, error) {
	return nil, nil
}

func TestReindex(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, draft(fmt.Sprintf("q%d", i)))
		require.NoError(t, err)
	}

	idx := &memIndex{docs: make(map[string]search.Document)}
	n, err := svc.Reindex(ctx, "alice", idx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, idx.docs, 3)

	idx.fail = true
	_, err = svc.Reindex(ctx, "alice", idx)
	assert.Error(t, err)
}

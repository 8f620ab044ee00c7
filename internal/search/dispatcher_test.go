package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/drill/internal/deck"
)

type recordingIndex struct {
	mu      sync.Mutex
	put     []Document
	removed []string
	err     error
	block   chan struct{}
}

func (r *recordingIndex) Put(_ context.Context, doc Document) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put = append(r.put, doc)
	return r.err
}

func (r *recordingIndex) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, id)
	return r.err
}

func (r *recordingIndex) Search(context.Context, string, string, int) ([]Hit, error) {
	return nil, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	idx := &recordingIndex{}
	d := NewDispatcher(idx, 8, quietLogger())

	d.Submit(Document{QuestionID: "q1"})
	d.Submit(Document{QuestionID: "q2"})
	d.SubmitRemove("q1")
	d.Close()

	require.Len(t, idx.put, 2)
	assert.Equal(t, "q1", idx.put[0].QuestionID)
	assert.Equal(t, "q2", idx.put[1].QuestionID)
	assert.Equal(t, []string{"q1"}, idx.removed)
}

func TestDispatcher_IndexErrorsAreSwallowed(t *testing.T) {
	idx := &recordingIndex{err: errors.New("index down")}
	d := NewDispatcher(idx, 8, quietLogger())

	d.Submit(Document{QuestionID: "q1"})
	d.Close()

	assert.Len(t, idx.put, 1)
}

func TestDispatcher_SubmitNeverBlocks(t *testing.T) {
	idx := &recordingIndex{block: make(chan struct{})}
	d := NewDispatcher(idx, 1, quietLogger())

	done := make(chan struct{})
	go func() {
		for range 10 {
			d.Submit(Document{QuestionID: "q"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked on a full queue")
	}

	close(idx.block)
	d.Close()
	assert.LessOrEqual(t, len(idx.put), 2)
}

func TestDispatcher_SubmitAfterCloseIsDropped(t *testing.T) {
	idx := &recordingIndex{}
	d := NewDispatcher(idx, 4, quietLogger())
	d.Close()
	d.Close()

	d.Submit(Document{QuestionID: "late"})
	assert.Empty(t, idx.put)
}

func TestDocumentFor(t *testing.T) {
	mod := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	q := &deck.Question{ID: "q1", Owner: "ann", Text: "T", Answer: "A", Tags: []string{"go"}, Modified: mod}

	doc := DocumentFor(q)
	q.Tags[0] = "changed"

	assert.Equal(t, "q1", doc.QuestionID)
	assert.Equal(t, "ann", doc.Owner)
	assert.Equal(t, []string{"go"}, doc.Tags)
	assert.True(t, doc.Modified.Equal(mod))
}

// Package search feeds question content to a full-text index.
package search

import (
	"context"
	"slices"
	"time"

	"github.com/abhisek/drill/internal/deck"
)

// Document is the indexed view of a question.
type Document struct {
	QuestionID string
	Owner      string
	Text       string
	Answer     string
	Tags       []string
	Modified   time.Time
}

// DocumentFor builds the index document for q.
func DocumentFor(q *deck.Question) Document {
	return Document{
		QuestionID: q.ID,
		Owner:      q.Owner,
		Text:       q.Text,
		Answer:     q.Answer,
		Tags:       slices.Clone(q.Tags),
		Modified:   q.Modified,
	}
}

// Hit is a single search result.
type Hit struct {
	QuestionID string
	Text       string
	Answer     string
	Tags       []string
}

// Index stores documents for full-text search.
type Index interface {
	// Put inserts or replaces the document for doc.QuestionID.
	Put(ctx context.Context, doc Document) error

	// Remove deletes the document for questionID. Removing a missing
	// document is not an error.
	Remove(ctx context.Context, questionID string) error

	// Search returns up to limit of owner's documents matching query.
	Search(ctx context.Context, owner, query string, limit int) ([]Hit, error)
}

// Sink accepts reindex notifications without reporting failures back.
type Sink interface {
	Submit(doc Document)
	SubmitRemove(questionID string)
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Submit(Document)     {}
func (discard) SubmitRemove(string) {}

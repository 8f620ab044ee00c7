package search

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultQueueSize is the number of pending index jobs a Dispatcher buffers.
const DefaultQueueSize = 64

// jobTimeout bounds a single index write.
const jobTimeout = 5 * time.Second

type job struct {
	doc    Document
	remove bool
}

// Dispatcher forwards documents to an Index on a background goroutine.
// Submissions never block: when the queue is full the document is dropped
// and a warning logged. Index errors are logged and otherwise ignored.
type Dispatcher struct {
	index   Index
	logger  *slog.Logger
	pending chan job
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewDispatcher starts a dispatcher writing to index.
func NewDispatcher(index Index, queueSize int, logger *slog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		index:   index,
		logger:  logger,
		pending: make(chan job, queueSize),
		done:    make(chan struct{}),
	}
	go d.processLoop()
	return d
}

// Submit queues doc for indexing.
func (d *Dispatcher) Submit(doc Document) {
	d.enqueue(job{doc: doc})
}

// SubmitRemove queues removal of questionID from the index.
func (d *Dispatcher) SubmitRemove(questionID string) {
	d.enqueue(job{doc: Document{QuestionID: questionID}, remove: true})
}

func (d *Dispatcher) enqueue(j job) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.Warn("index dispatcher closed, dropping document", "question_id", j.doc.QuestionID)
		return
	}
	select {
	case d.pending <- j:
	default:
		d.logger.Warn("index queue full, dropping document", "question_id", j.doc.QuestionID)
	}
}

func (d *Dispatcher) processLoop() {
	defer close(d.done)
	for j := range d.pending {
		d.run(j)
	}
}

func (d *Dispatcher) run(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	var err error
	if j.remove {
		err = d.index.Remove(ctx, j.doc.QuestionID)
	} else {
		err = d.index.Put(ctx, j.doc)
	}
	if err != nil {
		d.logger.Warn("index update failed",
			"question_id", j.doc.QuestionID,
			"remove", j.remove,
			"error", err,
		)
	}
}

// Close stops accepting documents and waits for queued ones to be written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.pending)
	d.mu.Unlock()

	<-d.done
}

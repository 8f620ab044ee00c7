package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/drill/internal/deck"
)

// sequenceCounter hands out the global monotonic sequence stamped on every
// review event. Row IDs are not used for ordering because a deleted tail
// lets SQLite reuse them; the counter never goes backwards.
//
// Uses raw SQL outside the builder because it needs an atomic
// UPDATE ... RETURNING. The mutex serializes within the process; the
// RETURNING clause makes the increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *eventRepo) AppendReviewEvent(ctx context.Context, data ReviewEventData) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return &deck.StoreError{Op: "append review event", Err: err}
	}

	ins := builder().Insert(reviewEventsTable).
		Columns("sequence", "timestamp", "question_id", "owner", "response",
			"from_state", "to_state", "interval_days", "efactor").
		Values(seq, r.now(), data.QuestionID, data.Owner, data.Response.String(),
			string(data.FromState), string(data.ToState), data.IntervalDays, data.EFactor)

	if _, err := exec(ctx, r.db, ins); err != nil {
		return &deck.StoreError{Op: "append review event", Err: err}
	}
	return nil
}

func (r *eventRepo) RecentReviews(ctx context.Context, owner string, limit int) ([]ReviewEvent, error) {
	if limit <= 0 {
		return nil, nil
	}

	sel := builder().Select("sequence", "timestamp", "question_id", "owner", "response",
		"from_state", "to_state", "interval_days", "efactor").
		From(entsql.Table(reviewEventsTable)).
		Where(entsql.EQ("owner", owner)).
		OrderBy(entsql.Desc("sequence")).
		Limit(limit)

	rows, err := query(ctx, r.db, sel)
	if err != nil {
		return nil, &deck.StoreError{Op: "recent reviews", Err: err}
	}
	defer rows.Close()

	var events []ReviewEvent
	for rows.Next() {
		var (
			ev             ReviewEvent
			resp, from, to string
		)
		err := rows.Scan(&ev.Sequence, &ev.Timestamp, &ev.QuestionID, &ev.Owner, &resp,
			&from, &to, &ev.IntervalDays, &ev.EFactor)
		if err != nil {
			return nil, &deck.StoreError{Op: "recent reviews", Err: fmt.Errorf("scan: %w", err)}
		}
		parsed, err := deck.ParseResponse(resp)
		if err != nil {
			return nil, &deck.StoreError{Op: "recent reviews", Err: err}
		}
		ev.Response = parsed
		ev.FromState = deck.State(from)
		ev.ToState = deck.State(to)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, &deck.StoreError{Op: "recent reviews", Err: err}
	}
	return events, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/drill/internal/deck"
)

// questionSelectColumns is the column order scanQuestion expects.
var questionSelectColumns = []string{
	"id", "owner", "text", "answer", "state", "learning_step", "interval_days",
	"efactor", "times_failed", "last_reviewed", "is_favorite", "content_hash",
	"created", "modified", "revision",
}

// conn is satisfied by both *sql.DB and *sql.Tx.
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func exec(ctx context.Context, c conn, q entsql.Querier) (sql.Result, error) {
	query, args := q.Query()
	return c.ExecContext(ctx, query, args...)
}

func query(ctx context.Context, c conn, q entsql.Querier) (*sql.Rows, error) {
	query, args := q.Query()
	return c.QueryContext(ctx, query, args...)
}

// questionRepo implements QuestionRepo on SQLite.
type questionRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *questionRepo) Get(ctx context.Context, owner, id string) (*deck.Question, error) {
	qs, err := r.list(ctx, entsql.And(entsql.EQ("id", id), entsql.EQ("owner", owner)))
	if err != nil {
		return nil, &deck.StoreError{Op: "get question", Err: err}
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("question %s: %w", id, deck.ErrNotFound)
	}
	return qs[0], nil
}

func (r *questionRepo) FindByHash(ctx context.Context, owner, hash string) (*deck.Question, error) {
	qs, err := r.list(ctx, entsql.And(entsql.EQ("owner", owner), entsql.EQ("content_hash", hash)))
	if err != nil {
		return nil, &deck.StoreError{Op: "find question by hash", Err: err}
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("question with hash %s: %w", hash, deck.ErrNotFound)
	}
	return qs[0], nil
}

func (r *questionRepo) ListAll(ctx context.Context, owner string) ([]*deck.Question, error) {
	qs, err := r.list(ctx, entsql.EQ("owner", owner))
	if err != nil {
		return nil, &deck.StoreError{Op: "list questions", Err: err}
	}
	return qs, nil
}

func (r *questionRepo) ListFavorites(ctx context.Context, owner string) ([]*deck.Question, error) {
	qs, err := r.list(ctx, entsql.And(entsql.EQ("owner", owner), entsql.EQ("is_favorite", true)))
	if err != nil {
		return nil, &deck.StoreError{Op: "list favorite questions", Err: err}
	}
	return qs, nil
}

func (r *questionRepo) ListForTag(ctx context.Context, owner, tag string) ([]*deck.Question, error) {
	members := builder().Select("question_id").
		From(entsql.Table(questionTagsTable)).
		Where(entsql.And(entsql.EQ("owner", owner), entsql.EQ("tag", tag)))

	qs, err := r.list(ctx, entsql.And(entsql.EQ("owner", owner), entsql.In("id", members)))
	if err != nil {
		return nil, &deck.StoreError{Op: "list questions for tag", Err: err}
	}
	return qs, nil
}

func (r *questionRepo) DistinctTags(ctx context.Context, owner string) ([]string, error) {
	sel := builder().Select("tag").
		Distinct().
		From(entsql.Table(questionTagsTable)).
		Where(entsql.EQ("owner", owner)).
		OrderBy("tag")

	tags, err := r.scanStrings(ctx, sel)
	if err != nil {
		return nil, &deck.StoreError{Op: "distinct tags", Err: err}
	}
	return tags, nil
}

func (r *questionRepo) RecentTags(ctx context.Context, owner string) ([]string, error) {
	qt := entsql.Table(questionTagsTable)
	q := entsql.Table(questionsTable)
	sel := builder().Select(qt.C("tag")).
		From(qt).
		Join(q).
		On(qt.C("question_id"), q.C("id")).
		Where(entsql.EQ(qt.C("owner"), owner)).
		GroupBy(qt.C("tag")).
		OrderBy(entsql.Desc(entsql.Max(q.C("created"))), qt.C("tag"))

	tags, err := r.scanStrings(ctx, sel)
	if err != nil {
		return nil, &deck.StoreError{Op: "recent tags", Err: err}
	}
	return tags, nil
}

func (r *questionRepo) Create(ctx context.Context, q *deck.Question) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	now := r.now()
	if q.Created.IsZero() {
		q.Created = now
	}
	q.Modified = now
	q.Revision = 1

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		ins := builder().Insert(questionsTable).
			Columns(questionSelectColumns...).
			Values(
				q.ID, q.Owner, q.Text, q.Answer, string(q.State), int(q.LearningStep), q.IntervalDays,
				q.EFactor, q.TimesFailed, nullTime(q.LastReviewed), q.IsFavorite, nullString(q.ContentHash),
				q.Created.UTC(), q.Modified, q.Revision,
			)
		if _, err := exec(ctx, tx, ins); err != nil {
			return err
		}
		return writeTags(ctx, tx, q)
	})
	if err != nil {
		return &deck.StoreError{Op: "create question", Err: err}
	}
	return nil
}

func (r *questionRepo) Save(ctx context.Context, q *deck.Question) error {
	modified := r.now()

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		upd := builder().Update(questionsTable).
			Set("text", q.Text).
			Set("answer", q.Answer).
			Set("state", string(q.State)).
			Set("learning_step", int(q.LearningStep)).
			Set("interval_days", q.IntervalDays).
			Set("efactor", q.EFactor).
			Set("times_failed", q.TimesFailed).
			Set("last_reviewed", nullTime(q.LastReviewed)).
			Set("is_favorite", q.IsFavorite).
			Set("content_hash", nullString(q.ContentHash)).
			Set("modified", modified).
			Set("revision", q.Revision+1).
			Where(entsql.And(
				entsql.EQ("id", q.ID),
				entsql.EQ("owner", q.Owner),
				entsql.EQ("revision", q.Revision),
			))

		res, err := exec(ctx, tx, upd)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return missingOrStale(ctx, tx, q)
		}
		return writeTags(ctx, tx, q)
	})
	if err != nil {
		if errors.Is(err, deck.ErrNotFound) || errors.Is(err, deck.ErrConflict) {
			return err
		}
		return &deck.StoreError{Op: "save question", Err: err}
	}

	q.Revision++
	q.Modified = modified
	return nil
}

func (r *questionRepo) Delete(ctx context.Context, owner, id string) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		delTags := builder().Delete(questionTagsTable).
			Where(entsql.And(entsql.EQ("question_id", id), entsql.EQ("owner", owner)))
		if _, err := exec(ctx, tx, delTags); err != nil {
			return err
		}

		del := builder().Delete(questionsTable).
			Where(entsql.And(entsql.EQ("id", id), entsql.EQ("owner", owner)))
		res, err := exec(ctx, tx, del)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("question %s: %w", id, deck.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, deck.ErrNotFound) {
			return err
		}
		return &deck.StoreError{Op: "delete question", Err: err}
	}
	return nil
}

// missingOrStale explains why an update touched no rows.
func missingOrStale(ctx context.Context, tx *sql.Tx, q *deck.Question) error {
	sel := builder().Select("revision").
		From(entsql.Table(questionsTable)).
		Where(entsql.And(entsql.EQ("id", q.ID), entsql.EQ("owner", q.Owner)))

	rows, err := query(ctx, tx, sel)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return fmt.Errorf("question %s: %w", q.ID, deck.ErrNotFound)
	}
	var stored int64
	if err := rows.Scan(&stored); err != nil {
		return err
	}
	return fmt.Errorf("question %s at revision %d, have %d: %w", q.ID, stored, q.Revision, deck.ErrConflict)
}

// writeTags replaces the tag memberships of q.
func writeTags(ctx context.Context, tx *sql.Tx, q *deck.Question) error {
	del := builder().Delete(questionTagsTable).Where(entsql.EQ("question_id", q.ID))
	if _, err := exec(ctx, tx, del); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	if len(q.Tags) == 0 {
		return nil
	}

	ins := builder().Insert(questionTagsTable).Columns("question_id", "tag", "owner")
	for _, tag := range q.Tags {
		ins.Values(q.ID, tag, q.Owner)
	}
	if _, err := exec(ctx, tx, ins); err != nil {
		return fmt.Errorf("insert tags: %w", err)
	}
	return nil
}

// list returns the questions matching where, with their tags, oldest first.
func (r *questionRepo) list(ctx context.Context, where *entsql.Predicate) ([]*deck.Question, error) {
	sel := builder().Select(questionSelectColumns...).
		From(entsql.Table(questionsTable)).
		Where(where).
		OrderBy("created", "id")

	rows, err := query(ctx, r.db, sel)
	if err != nil {
		return nil, err
	}

	var qs []*deck.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := r.loadTags(ctx, qs, where); err != nil {
		return nil, err
	}
	return qs, nil
}

// loadTags fills in the tags of qs, which must be the questions matching
// where. The match is repeated as a subquery so the statement never binds one
// parameter per question.
func (r *questionRepo) loadTags(ctx context.Context, qs []*deck.Question, where *entsql.Predicate) error {
	if len(qs) == 0 {
		return nil
	}
	byID := make(map[string]*deck.Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}

	matching := builder().Select("id").
		From(entsql.Table(questionsTable)).
		Where(where)
	sel := builder().Select("question_id", "tag").
		From(entsql.Table(questionTagsTable)).
		Where(entsql.In("question_id", matching)).
		OrderBy("question_id", "tag")

	rows, err := query(ctx, r.db, sel)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if q, ok := byID[id]; ok {
			q.Tags = append(q.Tags, tag)
		}
	}
	return rows.Err()
}

func (r *questionRepo) scanStrings(ctx context.Context, sel *entsql.Selector) ([]string, error) {
	rows, err := query(ctx, r.db, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *questionRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func scanQuestion(rows *sql.Rows) (*deck.Question, error) {
	var (
		q        deck.Question
		state    string
		step     int
		reviewed sql.NullTime
		hash     sql.NullString
	)
	err := rows.Scan(
		&q.ID, &q.Owner, &q.Text, &q.Answer, &state, &step, &q.IntervalDays,
		&q.EFactor, &q.TimesFailed, &reviewed, &q.IsFavorite, &hash,
		&q.Created, &q.Modified, &q.Revision,
	)
	if err != nil {
		return nil, fmt.Errorf("scan question: %w", err)
	}
	q.State = deck.State(state)
	q.LearningStep = deck.LearningStep(step)
	if reviewed.Valid {
		t := reviewed.Time
		q.LastReviewed = &t
	}
	q.ContentHash = hash.String
	return &q, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

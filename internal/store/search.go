package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/abhisek/drill/internal/search"
)

// tagSeparator joins tags in the indexed column. Tags come from single-line
// input, so names may contain spaces but not newlines.
const tagSeparator = "\n"

// searchIndex implements search.Index on an FTS5 virtual table. Virtual
// tables are outside what the schema migrator manages, so the table is
// created and queried with raw SQL.
type searchIndex struct {
	db *sql.DB
}

var _ search.Index = (*searchIndex)(nil)

func newSearchIndex(db *sql.DB) (*searchIndex, error) {
	_, err := db.Exec(`CREATE VIRTUAL TABLE IF NOT EXISTS question_search USING fts5(
		question_id UNINDEXED,
		owner UNINDEXED,
		text,
		answer,
		tags,
		modified UNINDEXED
	)`)
	if err != nil {
		return nil, fmt.Errorf("create search table: %w", err)
	}
	return &searchIndex{db: db}, nil
}

func (s *searchIndex) Put(ctx context.Context, doc search.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM question_search WHERE question_id = ?`, doc.QuestionID); err != nil {
		return fmt.Errorf("clear document %s: %w", doc.QuestionID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO question_search (question_id, owner, text, answer, tags, modified) VALUES (?, ?, ?, ?, ?, ?)`,
		doc.QuestionID, doc.Owner, doc.Text, doc.Answer, strings.Join(doc.Tags, tagSeparator), doc.Modified.UTC(),
	); err != nil {
		return fmt.Errorf("index document %s: %w", doc.QuestionID, err)
	}
	return tx.Commit()
}

func (s *searchIndex) Remove(ctx context.Context, questionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM question_search WHERE question_id = ?`, questionID)
	if err != nil {
		return fmt.Errorf("remove document %s: %w", questionID, err)
	}
	return nil
}

func (s *searchIndex) Search(ctx context.Context, owner, query string, limit int) ([]search.Hit, error) {
	match := matchExpr(query)
	if match == "" || limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT question_id, text, answer, tags FROM question_search
		WHERE question_search MATCH ? AND owner = ?
		ORDER BY rank LIMIT ?`,
		match, owner, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var hits []search.Hit
	for rows.Next() {
		var (
			h    search.Hit
			tags string
		)
		if err := rows.Scan(&h.QuestionID, &h.Text, &h.Answer, &tags); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		if tags != "" {
			h.Tags = strings.Split(tags, tagSeparator)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// matchExpr turns free text into an FTS5 query: every word must appear.
// Words are quoted so FTS operators in user input are matched literally.
func matchExpr(query string) string {
	words := strings.Fields(query)
	for i, w := range words {
		words[i] = `"` + strings.ReplaceAll(w, `"`, `""`) + `"`
	}
	return strings.Join(words, " ")
}

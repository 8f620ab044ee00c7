package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/drill/internal/deck"
)

// ErrNotPinned is returned when unpinning or moving a tag that is not pinned.
var ErrNotPinned = errors.New("tag is not pinned")

type pinRepo struct {
	db *sql.DB
}

func (r *pinRepo) Pinned(ctx context.Context, owner string) ([]string, error) {
	tags, err := loadPinned(ctx, r.db, owner)
	if err != nil {
		return nil, &deck.StoreError{Op: "list pinned tags", Err: err}
	}
	return tags, nil
}

func (r *pinRepo) Pin(ctx context.Context, owner, tag string) error {
	return r.rewrite(ctx, "pin tag", owner, func(tags []string) ([]string, error) {
		if slices.Contains(tags, tag) {
			return tags, nil
		}
		return append(tags, tag), nil
	})
}

func (r *pinRepo) Unpin(ctx context.Context, owner, tag string) error {
	return r.rewrite(ctx, "unpin tag", owner, func(tags []string) ([]string, error) {
		return removePinned(tags, tag)
	})
}

func (r *pinRepo) MovePinned(ctx context.Context, owner, tag string, index int) error {
	return r.rewrite(ctx, "move pinned tag", owner, func(tags []string) ([]string, error) {
		return movePinned(tags, tag, index)
	})
}

// rewrite loads the list, applies fn, and stores the result with dense
// positions, all in one transaction.
func (r *pinRepo) rewrite(ctx context.Context, op, owner string, fn func([]string) ([]string, error)) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &deck.StoreError{Op: op, Err: fmt.Errorf("begin tx: %w", err)}
	}
	defer tx.Rollback()

	tags, err := loadPinned(ctx, tx, owner)
	if err != nil {
		return &deck.StoreError{Op: op, Err: err}
	}

	next, err := fn(tags)
	if err != nil {
		return err
	}

	del := builder().Delete(pinnedTagsTable).Where(entsql.EQ("owner", owner))
	if _, err := exec(ctx, tx, del); err != nil {
		return &deck.StoreError{Op: op, Err: err}
	}
	if len(next) > 0 {
		ins := builder().Insert(pinnedTagsTable).Columns("owner", "tag", "position")
		for i, tag := range next {
			ins.Values(owner, tag, i)
		}
		if _, err := exec(ctx, tx, ins); err != nil {
			return &deck.StoreError{Op: op, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &deck.StoreError{Op: op, Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

func loadPinned(ctx context.Context, c conn, owner string) ([]string, error) {
	sel := builder().Select("tag").
		From(entsql.Table(pinnedTagsTable)).
		Where(entsql.EQ("owner", owner)).
		OrderBy("position")

	rows, err := query(ctx, c, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// removePinned returns tags without tag.
func removePinned(tags []string, tag string) ([]string, error) {
	i := slices.Index(tags, tag)
	if i < 0 {
		return nil, fmt.Errorf("%q: %w", tag, ErrNotPinned)
	}
	return slices.Delete(slices.Clone(tags), i, i+1), nil
}

// movePinned returns tags with tag relocated to index. Out-of-range indexes
// are clamped to the ends of the list.
func movePinned(tags []string, tag string, index int) ([]string, error) {
	rest, err := removePinned(tags, tag)
	if err != nil {
		return nil, err
	}
	index = max(0, min(index, len(rest)))
	return slices.Insert(rest, index, tag), nil
}

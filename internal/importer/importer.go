package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/drill/internal/deck"
)

// Creator stores a new question.
type Creator interface {
	Create(ctx context.Context, d deck.Draft) (*deck.Question, error)
}

// HashLookup finds a previously imported question by content hash.
type HashLookup interface {
	FindByHash(ctx context.Context, owner, hash string) (*deck.Question, error)
}

// Result summarizes an import run.
type Result struct {
	Files   int
	Parsed  int
	Created int
	Skipped int

	// Errors holds per-file and per-card problems. They do not stop the run.
	Errors []error
}

// Importer walks deck files and creates questions for cards not seen before.
type Importer struct {
	creator  Creator
	lookup   HashLookup
	reposDir string
	validate *validator.Validate
	logger   *slog.Logger
}

// New creates an importer. Git sources are checked out under reposDir.
func New(creator Creator, lookup HashLookup, reposDir string, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		creator:  creator,
		lookup:   lookup,
		reposDir: reposDir,
		validate: validator.New(),
		logger:   logger,
	}
}

// Import reads src, a local directory or git URL, into owner's deck.
func (im *Importer) Import(ctx context.Context, owner, src string) (*Result, error) {
	dir := src
	if IsGitURL(src) {
		if im.reposDir == "" {
			return nil, errors.New("import.repos_dir is not set")
		}
		p, err := RepoPath(im.reposDir, src)
		if err != nil {
			return nil, err
		}
		if err := syncRepo(ctx, src, p, im.logger); err != nil {
			return nil, err
		}
		dir = p
	}
	return im.ImportDir(ctx, owner, dir)
}

// ImportDir imports every .md file below dir.
func (im *Importer) ImportDir(ctx context.Context, owner, dir string) (*Result, error) {
	res := &Result{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		res.Files++
		cards, err := ParseFile(path)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("parse %s: %w", path, err))
			return nil
		}
		for _, c := range cards {
			res.Parsed++
			im.importCard(ctx, owner, c, res)
		}
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("walk %s: %w", dir, err)
	}

	im.logger.Info("import complete",
		"dir", dir,
		"files", res.Files,
		"parsed", res.Parsed,
		"created", res.Created,
		"skipped", res.Skipped,
		"errors", len(res.Errors),
	)
	return res, nil
}

func (im *Importer) importCard(ctx context.Context, owner string, c Card, res *Result) {
	if err := im.validate.Struct(c); err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("%s:%d: invalid card: %w", c.File, c.Line, err))
		return
	}

	d := c.Draft(owner)
	_, err := im.lookup.FindByHash(ctx, owner, d.ContentHash)
	switch {
	case err == nil:
		res.Skipped++
		return
	case !errors.Is(err, deck.ErrNotFound):
		res.Errors = append(res.Errors, fmt.Errorf("%s:%d: lookup: %w", c.File, c.Line, err))
		return
	}

	q, err := im.creator.Create(ctx, d)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("%s:%d: %w", c.File, c.Line, err))
		return
	}
	res.Created++
	im.logger.Debug("imported card", "id", q.ID, "file", c.File, "line", c.Line)
}

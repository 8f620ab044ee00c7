// Package importer loads questions from markdown decks on disk or in git
// repositories.
package importer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abhisek/drill/internal/deck"
)

// Card is a question parsed from a deck file, before it is stored.
type Card struct {
	Question string   `validate:"required"`
	Answer   string   `validate:"required"`
	Tags     []string `validate:"dive,required,max=64"`

	// File and Line locate the card's Q: line for error messages.
	File string
	Line int
}

// Draft converts the card into a question draft for owner.
func (c Card) Draft(owner string) deck.Draft {
	return deck.Draft{
		Owner:       owner,
		Text:        c.Question,
		Answer:      c.Answer,
		Tags:        c.Tags,
		ContentHash: Hash(c),
	}
}

// Line prefixes recognized in a deck file. A card starts at Q:, its answer
// at A:, and an optional T: line holds comma separated tags. A line of
// exactly "---" ends the current card.
const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
	tagsPrefix     = "T:"
	separator      = "---"
)

type field int

const (
	fieldNone field = iota
	fieldQuestion
	fieldAnswer
)

// ParseFile parses the deck file at path.
func ParseFile(path string) ([]Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open deck: %w", err)
	}
	defer f.Close()

	cards, err := Parse(f)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		cards[i].File = path
	}
	return cards, nil
}

// Parse reads cards from r. Text before the first Q: line is ignored, as is
// a card with no question. Continuation lines extend whichever of question or
// answer was opened last.
func Parse(r io.Reader) ([]Card, error) {
	p := &deckParser{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		p.line(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	p.finish()
	return p.cards, nil
}

type deckParser struct {
	cards   []Card
	cur     Card
	open    field
	lineNo  int
	pending []string
}

func (p *deckParser) line(raw string) {
	p.lineNo++
	line := strings.TrimRight(raw, " \t\r")

	switch {
	case line == separator:
		p.finish()
	case strings.HasPrefix(line, questionPrefix):
		p.finish()
		p.cur.Line = p.lineNo
		p.start(fieldQuestion, line[len(questionPrefix):])
	case strings.HasPrefix(line, answerPrefix) && p.inCard():
		p.flush()
		p.start(fieldAnswer, line[len(answerPrefix):])
	case strings.HasPrefix(line, tagsPrefix) && p.inCard():
		p.flush()
		p.cur.Tags = append(p.cur.Tags, deck.SplitTags(line[len(tagsPrefix):])...)
		p.open = fieldNone
	case p.open != fieldNone:
		p.pending = append(p.pending, line)
	}
}

// inCard reports whether a Q: line has opened a card that is not finished.
func (p *deckParser) inCard() bool {
	return p.cur.Line != 0
}

func (p *deckParser) start(f field, rest string) {
	p.open = f
	p.pending = []string{strings.TrimPrefix(rest, " ")}
}

// flush stores the lines collected for the open field.
func (p *deckParser) flush() {
	text := strings.TrimSpace(strings.Join(p.pending, "\n"))
	switch p.open {
	case fieldQuestion:
		p.cur.Question = text
	case fieldAnswer:
		p.cur.Answer = text
	}
	p.pending = nil
}

// finish closes the current card.
func (p *deckParser) finish() {
	p.flush()
	if p.cur.Question != "" {
		p.cur.Tags = deck.NormalizeTags(p.cur.Tags)
		p.cards = append(p.cards, p.cur)
	}
	p.cur = Card{}
	p.open = fieldNone
}

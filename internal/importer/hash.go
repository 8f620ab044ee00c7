package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// normalize folds case, line endings and surrounding whitespace so cosmetic
// edits to a deck do not produce a new question. Tags are excluded: retagging
// a card updates nothing but does not duplicate it either.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ToLower(strings.TrimSpace(s))
}

// Hash returns the hex SHA-256 of the card's normalized content. Each part is
// length-prefixed, so moving a line from the question into the answer
// changes the hash.
func Hash(c Card) string {
	h := sha256.New()
	for _, part := range []string{c.Question, c.Answer} {
		part = normalize(part)
		h.Write([]byte(strconv.Itoa(len(part))))
		h.Write([]byte{':'})
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

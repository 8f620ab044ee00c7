package deck

import (
	"fmt"
	"strings"
)

// Response is the recall quality a user reports after seeing the answer.
type Response int

const (
	Again Response = iota + 1
	Hard
	Good
	Easy
)

var responseNames = map[Response]string{
	Again: "again",
	Hard:  "hard",
	Good:  "good",
	Easy:  "easy",
}

// Valid reports whether r is one of the four known responses.
func (r Response) Valid() bool {
	_, ok := responseNames[r]
	return ok
}

func (r Response) String() string {
	if name, ok := responseNames[r]; ok {
		return name
	}
	return fmt.Sprintf("response(%d)", int(r))
}

// ParseResponse maps a name ("again", "hard", "good", "easy") to a Response.
func ParseResponse(s string) (Response, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for r, name := range responseNames {
		if name == s {
			return r, nil
		}
	}
	return 0, &InvalidResponseError{Value: s}
}

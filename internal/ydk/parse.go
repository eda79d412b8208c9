package ydk

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/peterkuimelis/deckbuilder/internal/deck"
)

// Code identifies the grammar rule a parse failed on.
type Code int

const (
	// CodeHeader means a section header was expected.
	CodeHeader Code = iota
	// CodeSpace means whitespace was expected between two tokens.
	CodeSpace
	// CodeNumber means an id does not fit in 64 bits.
	CodeNumber
)

func (c Code) String() string {
	switch c {
	case CodeHeader:
		return "expected section header"
	case CodeSpace:
		return "expected whitespace"
	case CodeNumber:
		return "id out of range"
	default:
		return "unknown"
	}
}

// maxNear bounds how much of the remainder a ParseError message quotes.
const maxNear = 20

// ParseError reports a grammar violation with the unconsumed input.
type ParseError struct {
	Remainder string
	Code      Code
}

func (e *ParseError) Error() string {
	near := e.Remainder
	if len(near) > maxNear {
		cut := maxNear
		for cut > 0 && !utf8.RuneStart(near[cut]) {
			cut--
		}
		near = near[:cut] + "..."
	}
	return fmt.Sprintf("could not parse input: %s at %q", e.Code, near)
}

// Sections holds the raw ids of each part in file order, indexed by
// deck.DeckPart.
type Sections [3][]uint64

// Part returns the ids listed under part's headers.
func (s *Sections) Part(part deck.DeckPart) []uint64 {
	return s[part]
}

var headers = []struct {
	text string
	part deck.DeckPart
}{
	{"#main", deck.Main},
	{"#extra", deck.Extra},
	{"!side", deck.SidePart},
}

const space = " \t\r\n"

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Parse splits YDK text into its sections. Repeated headers append to the
// same part; a header without ids is an empty section. At least one header
// is required and nothing but whitespace may follow the last id. Ids must be
// separated from each other by whitespace, but a header may directly follow
// a header or an id.
func Parse(text string) (*Sections, error) {
	var result Sections

	s := strings.TrimLeft(text, space)
	for {
		part, rest, ok := header(s)
		if !ok {
			return nil, &ParseError{Remainder: s, Code: CodeHeader}
		}
		s = rest

		for {
			trimmed := strings.TrimLeft(s, space)
			if trimmed == "" {
				return &result, nil
			}
			glued := len(trimmed) == len(s)
			s = trimmed
			if _, _, ok := header(s); ok {
				break
			}
			if glued {
				return nil, &ParseError{Remainder: s, Code: CodeSpace}
			}
			if !isDigit(s[0]) {
				break
			}

			n := 1
			for n < len(s) && isDigit(s[n]) {
				n++
			}
			id, err := strconv.ParseUint(s[:n], 10, 64)
			if err != nil {
				return nil, &ParseError{Remainder: s, Code: CodeNumber}
			}
			result[part] = append(result[part], id)
			s = s[n:]
		}
	}
}

func header(s string) (deck.DeckPart, string, bool) {
	for _, h := range headers {
		if rest, ok := strings.CutPrefix(s, h.text); ok {
			return h.part, rest, true
		}
	}
	return 0, s, false
}

func headerFor(part deck.DeckPart) string {
	for _, h := range headers {
		if h.part == part {
			return h.text
		}
	}
	return ""
}

package parser

import (
	"strings"
	"unicode"
)

// ExtractionMode selects how the argument between "(" and ")" is delimited.
type ExtractionMode uint8

const (
	// ExtractionLegacy ends an argument at the first ")" following its "(".
	ExtractionLegacy ExtractionMode = iota

	// ExtractionBalanced ends an argument at the ")" matching its "(", ignoring
	// parentheses inside single- or double-quoted strings.
	ExtractionBalanced
)

// String returns "legacy" or "balanced".
func (m ExtractionMode) String() string {
	if m == ExtractionBalanced {
		return "balanced"
	}

	return "legacy"
}

type tokenKind uint8

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenDot
	tokenArgs
	tokenInvalid
)

type token struct {
	kind tokenKind
	text string
}

// scanner produces identifiers, dots, and parenthesized arguments from a statement.
type scanner struct {
	src  string
	pos  int
	mode ExtractionMode
}

func newScanner(src string, mode ExtractionMode) *scanner {
	return &scanner{src: src, mode: mode}
}

func (s *scanner) next() token {
	s.skipSpace()

	if s.pos >= len(s.src) {
		return token{kind: tokenEOF}
	}

	switch c := s.src[s.pos]; {
	case c == '.':
		s.pos++
		return token{kind: tokenDot, text: "."}

	case c == '(':
		arg, end, ok := extractArgument(s.src, s.pos, s.mode)
		if !ok {
			rest := s.src[s.pos:]
			s.pos = len(s.src)

			return token{kind: tokenInvalid, text: rest}
		}

		s.pos = end
		return token{kind: tokenArgs, text: arg}

	default:
		start := s.pos
		for s.pos < len(s.src) && isIdentRune(rune(s.src[s.pos])) {
			s.pos++
		}

		if start == s.pos {
			s.pos = len(s.src)
			return token{kind: tokenInvalid, text: s.src[start:]}
		}

		return token{kind: tokenIdent, text: s.src[start:s.pos]}
	}
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && unicode.IsSpace(rune(s.src[s.pos])) {
		s.pos++
	}
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || r == '-' || r >= 0x80 || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// extractArgument returns the text between the "(" at src[open] and its closing ")",
// and the position after the ")". ok is false if no closing ")" exists.
func extractArgument(src string, open int, mode ExtractionMode) (string, int, bool) {
	if mode == ExtractionLegacy {
		closing := strings.IndexByte(src[open+1:], ')')
		if closing < 0 {
			return "", len(src), false
		}

		end := open + 1 + closing

		return src[open+1 : end], end + 1, true
	}

	depth := 0
	var quote byte

	for i := open; i < len(src); i++ {
		c := src[i]

		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}

			continue
		}

		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return src[open+1 : i], i + 1, true
			}
		}
	}

	return "", len(src), false
}

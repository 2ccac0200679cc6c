package dts

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenKind identifies a lexical token class.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokPunct
)

// token is one lexical token. For tokPunct, Text holds the punctuation
// (single characters plus the multi-character "=>" and "...").
type token struct {
	Kind tokenKind
	Text string
	Pos  int
}

// scanner tokenizes declaration-file text. Comments and whitespace are
// consumed and discarded.
type scanner struct {
	src  string
	pos  int
	toks []token
}

// scan tokenizes the whole input up front. The declaration subset is small
// enough that a token slice is simpler than a pull scanner.
func scan(src string) []token {
	s := &scanner{src: src}
	for {
		tok := s.next()
		s.toks = append(s.toks, tok)
		if tok.Kind == tokEOF {
			return s.toks
		}
	}
}

func (s *scanner) next() token {
	s.skipSpaceAndComments()
	if s.pos >= len(s.src) {
		return token{Kind: tokEOF, Pos: s.pos}
	}

	start := s.pos
	r, size := utf8.DecodeRuneInString(s.src[s.pos:])

	switch {
	case isIdentStart(r):
		s.pos += size
		for s.pos < len(s.src) {
			r, size = utf8.DecodeRuneInString(s.src[s.pos:])
			if !isIdentPart(r) {
				break
			}
			s.pos += size
		}
		return token{Kind: tokIdent, Text: s.src[start:s.pos], Pos: start}

	case r == '\'' || r == '"' || r == '`':
		quote := r
		s.pos += size
		lit := strings.Builder{}
		for s.pos < len(s.src) {
			r, size = utf8.DecodeRuneInString(s.src[s.pos:])
			s.pos += size
			if r == '\\' && s.pos < len(s.src) {
				esc, escSize := utf8.DecodeRuneInString(s.src[s.pos:])
				s.pos += escSize
				lit.WriteRune(esc)
				continue
			}
			if r == quote {
				break
			}
			lit.WriteRune(r)
		}
		return token{Kind: tokString, Text: lit.String(), Pos: start}

	case unicode.IsDigit(r) || (r == '-' && s.digitFollows()):
		s.pos += size
		for s.pos < len(s.src) {
			r, size = utf8.DecodeRuneInString(s.src[s.pos:])
			if !unicode.IsDigit(r) && r != '.' && r != 'e' && r != 'E' && r != '+' && r != '-' && r != 'x' {
				break
			}
			s.pos += size
		}
		return token{Kind: tokNumber, Text: s.src[start:s.pos], Pos: start}

	default:
		if strings.HasPrefix(s.src[s.pos:], "=>") {
			s.pos += 2
			return token{Kind: tokPunct, Text: "=>", Pos: start}
		}
		if strings.HasPrefix(s.src[s.pos:], "...") {
			s.pos += 3
			return token{Kind: tokPunct, Text: "...", Pos: start}
		}
		s.pos += size
		return token{Kind: tokPunct, Text: string(r), Pos: start}
	}
}

func (s *scanner) digitFollows() bool {
	if s.pos+1 >= len(s.src) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos+1:])
	return unicode.IsDigit(r)
}

func (s *scanner) skipSpaceAndComments() {
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		switch {
		case unicode.IsSpace(r):
			s.pos += size
		case strings.HasPrefix(s.src[s.pos:], "//"):
			if idx := strings.IndexByte(s.src[s.pos:], '\n'); idx >= 0 {
				s.pos += idx + 1
			} else {
				s.pos = len(s.src)
			}
		case strings.HasPrefix(s.src[s.pos:], "/*"):
			if idx := strings.Index(s.src[s.pos+2:], "*/"); idx >= 0 {
				s.pos += idx + 4
			} else {
				s.pos = len(s.src)
			}
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}

package wildcard

import (
	"unicode"
	"unicode/utf8"
)

// TokenKind distinguishes literal text from wildcard tokens
type TokenKind int

const (
	// LiteralToken is verbatim text between wildcards
	LiteralToken TokenKind = iota
	// WildcardToken is a `{name}` or `{name,constraint}` token
	WildcardToken
)

// Token is one element of a scanned template
type Token struct {
	Kind       TokenKind
	Text       string // source text of the token
	Name       string
	Constraint string
	Offset     int
}

// Scan splits a template into literal and wildcard tokens. Scanning never
// fails: a brace that does not open a well-formed token is literal text.
func Scan(pattern string) []Token {
	var tokens []Token
	last := 0
	for i := 0; i < len(pattern); {
		if pattern[i] != '{' {
			i++
			continue
		}
		tok, end, ok := scanWildcard(pattern, i)
		if !ok {
			i++
			continue
		}
		if i > last {
			tokens = append(tokens, Token{Kind: LiteralToken, Text: pattern[last:i], Offset: last})
		}
		tokens = append(tokens, tok)
		last = end
		i = end
	}
	if last < len(pattern) {
		tokens = append(tokens, Token{Kind: LiteralToken, Text: pattern[last:], Offset: last})
	}
	return tokens
}

// scanWildcard reads a token starting at the '{' at start. It returns the
// token, the offset just past its closing brace and whether a token was found.
func scanWildcard(p string, start int) (Token, int, bool) {
	i := skipSpace(p, start+1)

	nameStart := i
	for i < len(p) {
		r, size := utf8.DecodeRuneInString(p[i:])
		if !isWordRune(r) {
			break
		}
		i += size
	}
	if i == nameStart {
		return Token{}, 0, false
	}
	name := p[nameStart:i]
	i = skipSpace(p, i)

	constraint := ""
	if i < len(p) && p[i] == ',' {
		i = skipSpace(p, i+1)
		cStart := i
		for i < len(p) && p[i] != '}' {
			if p[i] == '{' {
				end, ok := scanRepetition(p, i)
				if !ok {
					break
				}
				i = end
				continue
			}
			i++
		}
		constraint = p[cStart:i]
	}

	if i >= len(p) || p[i] != '}' {
		return Token{}, 0, false
	}
	end := i + 1
	return Token{
		Kind:       WildcardToken,
		Text:       p[start:end],
		Name:       name,
		Constraint: constraint,
		Offset:     start,
	}, end, true
}

// scanRepetition reads a `{m}` or `{m,n}` quantifier starting at the '{' at start
func scanRepetition(p string, start int) (int, bool) {
	i := scanDigits(p, start+1)
	if i == start+1 {
		return 0, false
	}
	if i < len(p) && p[i] == ',' {
		j := scanDigits(p, i+1)
		if j == i+1 {
			return 0, false
		}
		i = j
	}
	if i >= len(p) || p[i] != '}' {
		return 0, false
	}
	return i + 1, true
}

func scanDigits(p string, i int) int {
	for i < len(p) && p[i] >= '0' && p[i] <= '9' {
		i++
	}
	return i
}

func skipSpace(p string, i int) int {
	for i < len(p) {
		switch p[i] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			i++
		default:
			return i
		}
	}
	return i
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

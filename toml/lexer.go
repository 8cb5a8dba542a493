package toml

import (
	"strconv"
	"strings"
)

// Lexer splits TOML source into tokens; comments are dropped
type Lexer struct {
	input string
	pos   int
	line  int
}

// NewLexer creates a lexer over input
func NewLexer(input []byte) *Lexer {
	return &Lexer{input: string(input), line: 1}
}

// NextToken returns the next token, TokenEOF at end of input
func (l *Lexer) NextToken() Token {
	l.skipBlank()
	if l.pos >= len(l.input) {
		return l.tok(TokenEOF, "")
	}

	ch := l.input[l.pos]
	switch ch {
	case '\n':
		l.pos++
		t := l.tok(TokenNewline, "\n")
		l.line++
		return t
	case '=':
		return l.single(TokenEqual)
	case '.':
		return l.single(TokenDot)
	case ',':
		return l.single(TokenComma)
	case '[':
		return l.single(TokenLBracket)
	case ']':
		return l.single(TokenRBracket)
	case '{':
		return l.single(TokenLBrace)
	case '}':
		return l.single(TokenRBrace)
	case '"':
		return l.basicString()
	case '\'':
		return l.literalString()
	}

	if isBareChar(ch) || ch == '+' {
		return l.bareOrNumber()
	}
	l.pos++
	return l.tok(TokenError, "unexpected character "+strconv.QuoteRune(rune(ch)))
}

func (l *Lexer) tok(typ TokenType, lit string) Token {
	return Token{Type: typ, Literal: lit, Line: l.line}
}

func (l *Lexer) single(typ TokenType) Token {
	lit := l.input[l.pos : l.pos+1]
	l.pos++
	return l.tok(typ, lit)
}

// skipBlank consumes spaces, tabs, carriage returns and comments up to the newline
func (l *Lexer) skipBlank() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r':
			l.pos++
		case '#':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *Lexer) basicString() Token {
	start := l.pos
	l.pos++
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case '\n':
			return l.tok(TokenError, "newline in string")
		case '"':
			l.pos++
			s, err := strconv.Unquote(l.input[start:l.pos])
			if err != nil {
				return l.tok(TokenError, "invalid escape in "+l.input[start:l.pos])
			}
			return l.tok(TokenString, s)
		}
		l.pos++
	}
	return l.tok(TokenError, "unterminated string")
}

func (l *Lexer) literalString() Token {
	l.pos++
	end := strings.IndexAny(l.input[l.pos:], "'\n")
	if end < 0 || l.input[l.pos+end] == '\n' {
		return l.tok(TokenError, "unterminated literal string")
	}
	s := l.input[l.pos : l.pos+end]
	l.pos += end + 1
	return l.tok(TokenString, s)
}

// bareOrNumber reads a bare key, boolean or number; '.' belongs to the word only
// when it continues a numeric literal
func (l *Lexer) bareOrNumber() Token {
	start := l.pos
	numeric := isDigit(l.input[l.pos]) || l.input[l.pos] == '+' || l.input[l.pos] == '-'
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if isBareChar(ch) || ch == '+' || (ch == '.' && numeric) {
			l.pos++
			continue
		}
		break
	}
	lit := l.input[start:l.pos]

	switch lit {
	case "true", "false":
		return l.tok(TokenBool, lit)
	case "inf", "+inf", "-inf", "nan", "+nan", "-nan":
		return l.tok(TokenFloat, lit)
	}
	if !numeric {
		return l.tok(TokenIdent, lit)
	}

	clean := strings.ReplaceAll(lit, "_", "")
	if _, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return l.tok(TokenInteger, clean)
	}
	if _, err := strconv.ParseFloat(clean, 64); err == nil {
		return l.tok(TokenFloat, clean)
	}
	if strings.ContainsAny(lit, "+.") {
		return l.tok(TokenError, "invalid number "+lit)
	}
	// Digits and dashes only: a bare key such as 2d-mode
	return l.tok(TokenIdent, lit)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isBareChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || isDigit(ch) || ch == '_' || ch == '-'
}

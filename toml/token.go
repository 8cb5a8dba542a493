package toml

import "fmt"

// TokenType is the lexical class of a token
type TokenType int

const (
	TokenError TokenType = iota
	TokenEOF
	TokenNewline

	TokenIdent   // bare key
	TokenString  // "basic" or 'literal'
	TokenInteger // 42, -7, 1_000
	TokenFloat   // 0.98, -9.8e2
	TokenBool    // true, false

	TokenEqual    // =
	TokenDot      // .
	TokenComma    // ,
	TokenLBracket // [
	TokenRBracket // ]
	TokenLBrace   // {
	TokenRBrace   // }
)

// Token is one lexeme with its source line
type Token struct {
	Type    TokenType
	Literal string
	Line    int
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenNewline:
		return "newline"
	case TokenError:
		return "error: " + t.Literal
	}
	if len(t.Literal) > 24 {
		return fmt.Sprintf("%q...", t.Literal[:24])
	}
	return fmt.Sprintf("%q", t.Literal)
}

package toml

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parser builds a generic document tree from tokens
// Tables are map[string]any, arrays []any, arrays of tables []map[string]any
type Parser struct {
	lexer *Lexer
	cur   Token
	peek  Token
	root  map[string]any
	scope map[string]any
	// defined tracks explicitly declared [table] paths to reject redeclaration
	defined map[string]bool
}

// NewParser creates a parser over input
func NewParser(input []byte) *Parser {
	p := &Parser{
		lexer:   NewLexer(input),
		root:    make(map[string]any),
		defined: make(map[string]bool),
	}
	p.scope = p.root
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) errorf(err error, format string, args ...any) error {
	return &ParseError{Line: p.cur.Line, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Parse consumes the whole input
func (p *Parser) Parse() (map[string]any, error) {
	for p.cur.Type != TokenEOF {
		var err error
		switch p.cur.Type {
		case TokenNewline:
			p.advance()
			continue
		case TokenLBracket:
			err = p.parseTableHeader()
		case TokenIdent, TokenString, TokenInteger, TokenBool:
			err = p.parseKeyValue(p.scope)
		case TokenError:
			err = p.errorf(ErrSyntax, "%s", p.cur.Literal)
		default:
			err = p.errorf(ErrSyntax, "unexpected %s", p.cur)
		}
		if err != nil {
			return nil, err
		}
		if err := p.endOfLine(); err != nil {
			return nil, err
		}
	}
	return p.root, nil
}

func (p *Parser) endOfLine() error {
	switch p.cur.Type {
	case TokenNewline:
		p.advance()
		return nil
	case TokenEOF:
		return nil
	}
	return p.errorf(ErrSyntax, "expected end of line, got %s", p.cur)
}

// parseTableHeader handles [a.b] and [[a.b]]
func (p *Parser) parseTableHeader() error {
	array := p.peek.Type == TokenLBracket
	p.advance()
	if array {
		p.advance()
	}

	keys, err := p.parseKey()
	if err != nil {
		return err
	}
	closers := 1
	if array {
		closers = 2
	}
	for range closers {
		if p.cur.Type != TokenRBracket {
			return p.errorf(ErrSyntax, "expected ] after table name, got %s", p.cur)
		}
		p.advance()
	}

	parent, err := p.walk(p.root, keys[:len(keys)-1])
	if err != nil {
		return err
	}
	last := keys[len(keys)-1]
	path := strings.Join(keys, ".")

	if array {
		var tables []map[string]any
		switch v := parent[last].(type) {
		case nil:
		case []map[string]any:
			tables = v
		default:
			return p.errorf(ErrKeyConflict, "%s is not an array of tables", path)
		}
		t := make(map[string]any)
		parent[last] = append(tables, t)
		p.scope = t
		return nil
	}

	if p.defined[path] {
		return p.errorf(ErrDuplicateKey, "table %s defined twice", path)
	}
	p.defined[path] = true

	switch v := parent[last].(type) {
	case nil:
		t := make(map[string]any)
		parent[last] = t
		p.scope = t
	case map[string]any:
		p.scope = v
	default:
		return p.errorf(ErrKeyConflict, "%s is not a table", path)
	}
	return nil
}

// walk descends through keys creating implicit tables; arrays of tables resolve to their last element
func (p *Parser) walk(from map[string]any, keys []string) (map[string]any, error) {
	m := from
	for _, k := range keys {
		switch v := m[k].(type) {
		case nil:
			next := make(map[string]any)
			m[k] = next
			m = next
		case map[string]any:
			m = v
		case []map[string]any:
			if len(v) == 0 {
				return nil, p.errorf(ErrKeyConflict, "%s is an empty array of tables", k)
			}
			m = v[len(v)-1]
		default:
			return nil, p.errorf(ErrKeyConflict, "%s is a value, not a table", k)
		}
	}
	return m, nil
}

func (p *Parser) parseKeyValue(scope map[string]any) error {
	keys, err := p.parseKey()
	if err != nil {
		return err
	}
	if p.cur.Type != TokenEqual {
		return p.errorf(ErrSyntax, "expected = after key, got %s", p.cur)
	}
	p.advance()

	val, err := p.parseValue()
	if err != nil {
		return err
	}

	parent, err := p.walk(scope, keys[:len(keys)-1])
	if err != nil {
		return err
	}
	last := keys[len(keys)-1]
	if _, exists := parent[last]; exists {
		return p.errorf(ErrDuplicateKey, "%s", strings.Join(keys, "."))
	}
	parent[last] = val
	return nil
}

// parseKey reads a dotted key; numeric and boolean words are valid bare keys
func (p *Parser) parseKey() ([]string, error) {
	var keys []string
	for {
		switch p.cur.Type {
		case TokenIdent, TokenString, TokenInteger, TokenBool:
			keys = append(keys, p.cur.Literal)
		case TokenFloat:
			// 1.2 = x lexes as one float; split back into two keys
			keys = append(keys, strings.Split(p.cur.Literal, ".")...)
		default:
			return nil, p.errorf(ErrSyntax, "expected key, got %s", p.cur)
		}
		p.advance()
		if p.cur.Type != TokenDot {
			return keys, nil
		}
		p.advance()
	}
}

func (p *Parser) parseValue() (any, error) {
	t := p.cur
	switch t.Type {
	case TokenString:
		p.advance()
		return t.Literal, nil
	case TokenBool:
		p.advance()
		return t.Literal == "true", nil
	case TokenInteger:
		p.advance()
		n, err := strconv.ParseInt(t.Literal, 0, 64)
		if err != nil {
			return nil, &ParseError{Line: t.Line, Msg: "integer out of range: " + t.Literal, Err: ErrSyntax}
		}
		return n, nil
	case TokenFloat:
		p.advance()
		return parseFloat(t)
	case TokenLBracket:
		return p.parseArray()
	case TokenLBrace:
		return p.parseInlineTable()
	case TokenError:
		return nil, p.errorf(ErrSyntax, "%s", t.Literal)
	}
	return nil, p.errorf(ErrSyntax, "expected value, got %s", t)
}

func parseFloat(t Token) (float64, error) {
	switch strings.TrimPrefix(t.Literal, "+") {
	case "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	case "nan", "-nan":
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(t.Literal, 64)
	if err != nil {
		return 0, &ParseError{Line: t.Line, Msg: "invalid float " + t.Literal, Err: ErrSyntax}
	}
	return f, nil
}

// parseArray reads [v, v, ...] allowing newlines and a trailing comma
func (p *Parser) parseArray() ([]any, error) {
	p.advance()
	arr := make([]any, 0)
	for {
		for p.cur.Type == TokenNewline {
			p.advance()
		}
		if p.cur.Type == TokenRBracket {
			p.advance()
			return arr, nil
		}

		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)

		for p.cur.Type == TokenNewline {
			p.advance()
		}
		switch p.cur.Type {
		case TokenComma:
			p.advance()
		case TokenRBracket:
		default:
			return nil, p.errorf(ErrSyntax, "expected , or ] in array, got %s", p.cur)
		}
	}
}

// parseInlineTable reads { k = v, ... } on one line
func (p *Parser) parseInlineTable() (map[string]any, error) {
	p.advance()
	m := make(map[string]any)
	if p.cur.Type == TokenRBrace {
		p.advance()
		return m, nil
	}
	for {
		if err := p.parseKeyValue(m); err != nil {
			return nil, err
		}
		switch p.cur.Type {
		case TokenComma:
			p.advance()
		case TokenRBrace:
			p.advance()
			return m, nil
		default:
			return nil, p.errorf(ErrSyntax, "expected , or } in inline table, got %s", p.cur)
		}
	}
}

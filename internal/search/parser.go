package search

import (
	"fmt"
	"strings"
)

// TokenType identifies a lexical element of a filter query.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenText
	TokenFuzzy  // ~term
	TokenTag    // #tag
	TokenAttr   // @key or @key=value
	TokenRegex  // /pattern/
	TokenOr     // |
	TokenNot    // -
	TokenLParen // (
	TokenRParen // )
)

// Token is a typed piece of a query.
type Token struct {
	Type  TokenType
	Value string
}

var (
	punctuation = map[byte]TokenType{'(': TokenLParen, ')': TokenRParen, '|': TokenOr, '-': TokenNot}
	prefixes    = map[byte]TokenType{'~': TokenFuzzy, '#': TokenTag, '@': TokenAttr}
)

// Tokenizer splits a query into tokens. A dash only negates at the start of
// a word, so "e-mail" stays one text token.
type Tokenizer struct {
	src string
	off int
}

func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{src: input}
}

// NextToken returns the next token, or a TokenEOF token when the input is used up.
func (t *Tokenizer) NextToken() Token {
	for t.off < len(t.src) && isSpace(t.src[t.off]) {
		t.off++
	}
	if t.off == len(t.src) {
		return Token{Type: TokenEOF}
	}

	c := t.src[t.off]
	if typ, ok := punctuation[c]; ok {
		t.off++
		return Token{Type: typ, Value: string(c)}
	}
	if typ, ok := prefixes[c]; ok {
		t.off++
		return Token{Type: typ, Value: t.word()}
	}
	switch c {
	case '"':
		return Token{Type: TokenText, Value: t.delimited('"', false)}
	case '/':
		return Token{Type: TokenRegex, Value: t.delimited('/', true)}
	}
	return Token{Type: TokenText, Value: t.word()}
}

// AllTokens drains the tokenizer; the last token is always TokenEOF.
func (t *Tokenizer) AllTokens() []Token {
	tokens := []Token{t.NextToken()}
	for tokens[len(tokens)-1].Type != TokenEOF {
		tokens = append(tokens, t.NextToken())
	}
	return tokens
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

func (t *Tokenizer) word() string {
	end := t.off
	for end < len(t.src) && !isSpace(t.src[end]) && !strings.ContainsRune("()|", rune(t.src[end])) {
		end++
	}
	w := t.src[t.off:end]
	t.off = end
	return w
}

// delimited reads up to the closing delimiter. A missing closing delimiter
// runs to the end of the input.
func (t *Tokenizer) delimited(delim byte, escapes bool) string {
	var b strings.Builder
	t.off++
	for ; t.off < len(t.src); t.off++ {
		c := t.src[t.off]
		if c == delim {
			t.off++
			break
		}
		if escapes && c == '\\' && t.off+1 < len(t.src) && t.src[t.off+1] == delim {
			t.off++
			c = delim
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Parser builds a FilterExpr from tokens. Binding from loosest to tightest:
// "|", juxtaposition (and), "-", then atoms and parenthesised groups.
type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseQuery parses a filter query. The empty query matches every row.
func ParseQuery(query string) (FilterExpr, error) {
	p := NewParser(NewTokenizer(query).AllTokens())
	if p.peek().Type == TokenEOF {
		return NewAlwaysMatchExpr(), nil
	}
	expr, err := p.alternatives()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, fmt.Errorf("unexpected %q", tok.Value)
	}
	return expr, nil
}

func (p *Parser) peek() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return Token{Type: TokenEOF}
}

func (p *Parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) alternatives() (FilterExpr, error) {
	expr, err := p.conjunction()
	for err == nil && p.peek().Type == TokenOr {
		p.next()
		var rhs FilterExpr
		if rhs, err = p.conjunction(); err == nil {
			expr = NewOrExpr(expr, rhs)
		}
	}
	return expr, err
}

func (p *Parser) conjunction() (FilterExpr, error) {
	expr, err := p.unary()
	for err == nil {
		switch p.peek().Type {
		case TokenEOF, TokenOr, TokenRParen:
			return expr, nil
		}
		var rhs FilterExpr
		if rhs, err = p.unary(); err == nil {
			expr = NewAndExpr(expr, rhs)
		}
	}
	return nil, err
}

func (p *Parser) unary() (FilterExpr, error) {
	if p.peek().Type != TokenNot {
		return p.primary()
	}
	p.next()
	inner, err := p.unary()
	if err != nil {
		return nil, err
	}
	return NewNotExpr(inner), nil
}

func (p *Parser) primary() (FilterExpr, error) {
	tok := p.next()
	switch tok.Type {
	case TokenText:
		return NewTextExpr(tok.Value), nil
	case TokenRegex:
		return NewRegexExpr(tok.Value)
	case TokenFuzzy, TokenTag, TokenAttr:
		return prefixed(tok)
	case TokenLParen:
		group, err := p.alternatives()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.Type != TokenRParen {
			return nil, fmt.Errorf("missing ')' before %q", closing.Value)
		}
		return group, nil
	case TokenEOF:
		return nil, fmt.Errorf("query ends early")
	}
	return nil, fmt.Errorf("unexpected %q", tok.Value)
}

func prefixed(tok Token) (FilterExpr, error) {
	switch tok.Type {
	case TokenFuzzy:
		if tok.Value == "" {
			return nil, fmt.Errorf("~ needs a term")
		}
		return NewFuzzyExpr(tok.Value), nil
	case TokenTag:
		if tok.Value == "" {
			return nil, fmt.Errorf("# needs a tag name")
		}
		return NewTagExpr(tok.Value), nil
	}
	key, value, hasValue := strings.Cut(tok.Value, "=")
	if key == "" {
		return nil, fmt.Errorf("@ needs an attribute name")
	}
	return NewAttrExpr(key, value, hasValue), nil
}

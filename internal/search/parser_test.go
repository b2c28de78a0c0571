package search

import (
	"testing"

	"github.com/pstuifzand/tui-listbind/internal/model"
)

func TestTokenizer(t *testing.T) {
	tests := []struct {
		input  string
		tokens []TokenType
	}{
		{"task", []TokenType{TokenText, TokenEOF}},
		{"task project", []TokenType{TokenText, TokenText, TokenEOF}},
		{"task | project", []TokenType{TokenText, TokenOr, TokenText, TokenEOF}},
		{"-task", []TokenType{TokenNot, TokenText, TokenEOF}},
		{"e-mail", []TokenType{TokenText, TokenEOF}},
		{"(task | project)", []TokenType{TokenLParen, TokenText, TokenOr, TokenText, TokenRParen, TokenEOF}},
		{`"multi word"`, []TokenType{TokenText, TokenEOF}},
		{"~tsk #work @due=today", []TokenType{TokenFuzzy, TokenTag, TokenAttr, TokenEOF}},
		{`/a\/b/`, []TokenType{TokenRegex, TokenEOF}},
		{"", []TokenType{TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := NewTokenizer(tt.input).AllTokens()
			if len(tokens) != len(tt.tokens) {
				t.Fatalf("Expected %d tokens, got %d: %v", len(tt.tokens), len(tokens), tokens)
			}
			for i, tok := range tokens {
				if tok.Type != tt.tokens[i] {
					t.Errorf("Token %d: expected %v, got %v (%q)", i, tt.tokens[i], tok.Type, tok.Value)
				}
			}
		})
	}
}

func TestParseQueryStructure(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"", "always-match"},
		{"Apple", `text("apple")`},
		{"a b", `and(text("a"), text("b"))`},
		{"a | b c", `or(text("a"), and(text("b"), text("c")))`},
		{"-(a | b)", `not(or(text("a"), text("b")))`},
		{"@due", "attr(due)"},
		{"@due=today", "attr(due=today)"},
		{`/a\/b/`, "regex(/a/b/)"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			expr, err := ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery(%q) failed: %v", tt.query, err)
			}
			if expr.String() != tt.want {
				t.Errorf("ParseQuery(%q) = %s, want %s", tt.query, expr, tt.want)
			}
		})
	}
}

func TestParseQueryErrors(t *testing.T) {
	for _, query := range []string{"(a", "a)", "-", "~", "#", "@=x", "/[/"} {
		if _, err := ParseQuery(query); err == nil {
			t.Errorf("ParseQuery(%q) should fail", query)
		}
	}
}

func TestMatches(t *testing.T) {
	row := &model.TextRow{
		ID:         "r",
		Text:       "Buy fresh Apples",
		Tags:       []string{"shopping"},
		Attributes: map[string]string{"due": "today"},
	}

	tests := []struct {
		query string
		want  bool
	}{
		{"apple", true},
		{"pear", false},
		{"~bfa", true},
		{"~xyz", false},
		{"#shopping", true},
		{"#work", false},
		{"@due", true},
		{"@due=today", true},
		{"@due=tomorrow", false},
		{"/^Buy/", true},
		{"apple -#shopping", false},
		{"pear | #shopping", true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			expr, err := ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery(%q) failed: %v", tt.query, err)
			}
			if got := expr.Matches(row); got != tt.want {
				t.Errorf("%s matched %v, want %v", expr, got, tt.want)
			}
		})
	}
}

package search

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/tui-listbind/internal/model"
)

// FilterExpr represents a filter expression that can match rows
type FilterExpr interface {
	Matches(row *model.TextRow) bool
	String() string // For debug output
}

// TextExpr matches rows whose text contains the search term (case-insensitive)
type TextExpr struct {
	term string
}

func NewTextExpr(term string) *TextExpr {
	return &TextExpr{term: strings.ToLower(term)}
}

func (e *TextExpr) Matches(row *model.TextRow) bool {
	return strings.Contains(strings.ToLower(row.Text), e.term)
}

func (e *TextExpr) String() string {
	return fmt.Sprintf("text(%q)", e.term)
}

// FuzzyExpr matches rows whose text fuzzy-matches the search term (case-insensitive)
type FuzzyExpr struct {
	term string
}

func NewFuzzyExpr(term string) *FuzzyExpr {
	return &FuzzyExpr{term: strings.ToLower(term)}
}

func (e *FuzzyExpr) Matches(row *model.TextRow) bool {
	return fuzzy.MatchFold(e.term, row.Text)
}

func (e *FuzzyExpr) String() string {
	return fmt.Sprintf("fuzzy(%q)", e.term)
}

// RegexExpr matches rows whose text matches a regular expression pattern
type RegexExpr struct {
	pattern string
	re      *regexp.Regexp
}

func NewRegexExpr(pattern string) (*RegexExpr, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	return &RegexExpr{pattern: pattern, re: re}, nil
}

func (e *RegexExpr) Matches(row *model.TextRow) bool {
	return e.re.MatchString(row.Text)
}

func (e *RegexExpr) String() string {
	return fmt.Sprintf("regex(/%s/)", e.pattern)
}

// TagExpr matches rows carrying a tag
type TagExpr struct {
	tag string
}

func NewTagExpr(tag string) *TagExpr {
	return &TagExpr{tag: tag}
}

func (e *TagExpr) Matches(row *model.TextRow) bool {
	return slices.Contains(row.Tags, e.tag)
}

func (e *TagExpr) String() string {
	return fmt.Sprintf("tag(%s)", e.tag)
}

// AttrExpr matches rows with an attribute, optionally with a given value
type AttrExpr struct {
	key      string
	value    string
	hasValue bool
}

func NewAttrExpr(key, value string, hasValue bool) *AttrExpr {
	return &AttrExpr{key: key, value: value, hasValue: hasValue}
}

func (e *AttrExpr) Matches(row *model.TextRow) bool {
	v, ok := row.Attributes[e.key]
	if !ok {
		return false
	}
	return !e.hasValue || v == e.value
}

func (e *AttrExpr) String() string {
	if e.hasValue {
		return fmt.Sprintf("attr(%s=%s)", e.key, e.value)
	}
	return fmt.Sprintf("attr(%s)", e.key)
}

// AlwaysMatchExpr matches all rows (for empty queries)
type AlwaysMatchExpr struct{}

func NewAlwaysMatchExpr() *AlwaysMatchExpr {
	return &AlwaysMatchExpr{}
}

func (e *AlwaysMatchExpr) Matches(*model.TextRow) bool {
	return true
}

func (e *AlwaysMatchExpr) String() string {
	return "always-match"
}

// AndExpr matches when both sides match
type AndExpr struct {
	left, right FilterExpr
}

func NewAndExpr(left, right FilterExpr) *AndExpr {
	return &AndExpr{left: left, right: right}
}

func (e *AndExpr) Matches(row *model.TextRow) bool {
	return e.left.Matches(row) && e.right.Matches(row)
}

func (e *AndExpr) String() string {
	return fmt.Sprintf("and(%s, %s)", e.left, e.right)
}

// OrExpr matches when either side matches
type OrExpr struct {
	left, right FilterExpr
}

func NewOrExpr(left, right FilterExpr) *OrExpr {
	return &OrExpr{left: left, right: right}
}

func (e *OrExpr) Matches(row *model.TextRow) bool {
	return e.left.Matches(row) || e.right.Matches(row)
}

func (e *OrExpr) String() string {
	return fmt.Sprintf("or(%s, %s)", e.left, e.right)
}

// NotExpr inverts an expression
type NotExpr struct {
	expr FilterExpr
}

func NewNotExpr(expr FilterExpr) *NotExpr {
	return &NotExpr{expr: expr}
}

func (e *NotExpr) Matches(row *model.TextRow) bool {
	return !e.expr.Matches(row)
}

func (e *NotExpr) String() string {
	return fmt.Sprintf("not(%s)", e.expr)
}

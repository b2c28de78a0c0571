package binding

import "github.com/pstuifzand/tui-listbind/internal/model"

// Registrar is implemented by surfaces that need templates registered up front
type Registrar interface {
	RegisterRow(template string, source Source)
	RegisterHeaderFooter(template string, source Source)
}

// Resolver holds the ordered rule lists for rows, headers and footers
type Resolver struct {
	rows    []RowRule
	headers []HeaderFooterRule
	footers []HeaderFooterRule
}

// NewResolver creates a resolver with the given row rules
func NewResolver(rows ...RowRule) *Resolver {
	return &Resolver{rows: rows}
}

// SetHeaders replaces the header rules
func (r *Resolver) SetHeaders(rules ...HeaderFooterRule) {
	r.headers = rules
}

// SetFooters replaces the footer rules
func (r *Resolver) SetFooters(rules ...HeaderFooterRule) {
	r.footers = rules
}

// RowTemplate returns the first row rule matching row at path
func (r *Resolver) RowTemplate(path model.IndexPath, row model.Row) (*RowRule, error) {
	for i := range r.rows {
		if r.rows[i].Match(path, row) {
			return &r.rows[i], nil
		}
	}
	return nil, &NoMatchingTemplateError{Role: "row", Path: path, Key: row.Key()}
}

// RowSize returns the size of the first matching rule, or Automatic
func (r *Resolver) RowSize(path model.IndexPath, row model.Row) int {
	rule, err := r.RowTemplate(path, row)
	if err != nil {
		return Automatic
	}
	return rule.Size.Resolve(path, row)
}

// HeaderTemplate returns the first header rule matching item. With no header rules
// configured it returns nil and no error: the surface falls back to a title.
func (r *Resolver) HeaderTemplate(section int, item model.HeaderFooter) (*HeaderFooterRule, error) {
	return matchHeaderFooter(r.headers, "header", section, item)
}

// HeaderSize returns the header size: 0 without a header model, Automatic without a match
func (r *Resolver) HeaderSize(section int, item model.HeaderFooter) int {
	return headerFooterSize(r.headers, section, item)
}

// FooterTemplate returns the first footer rule matching item
func (r *Resolver) FooterTemplate(section int, item model.HeaderFooter) (*HeaderFooterRule, error) {
	return matchHeaderFooter(r.footers, "footer", section, item)
}

// FooterSize returns the footer size
func (r *Resolver) FooterSize(section int, item model.HeaderFooter) int {
	return headerFooterSize(r.footers, section, item)
}

// Register registers every template with the surface
func (r *Resolver) Register(reg Registrar) {
	for _, rule := range r.rows {
		reg.RegisterRow(rule.Template, rule.Source)
	}
	for _, rule := range r.headers {
		reg.RegisterHeaderFooter(rule.Template, rule.Source)
	}
	for _, rule := range r.footers {
		reg.RegisterHeaderFooter(rule.Template, rule.Source)
	}
}

func matchHeaderFooter(rules []HeaderFooterRule, role string, section int, item model.HeaderFooter) (*HeaderFooterRule, error) {
	if item == nil || len(rules) == 0 {
		return nil, nil
	}
	for i := range rules {
		if rules[i].Match(section, item) {
			return &rules[i], nil
		}
	}
	return nil, &NoMatchingTemplateError{Role: role, Path: model.Path(section, -1), Key: item.Key()}
}

func headerFooterSize(rules []HeaderFooterRule, section int, item model.HeaderFooter) int {
	if item == nil {
		return 0
	}
	for _, rule := range rules {
		if rule.Match(section, item) {
			return rule.Size.Resolve(model.Path(section, -1), item)
		}
	}
	return Automatic
}

// Package binding resolves positions and models to reusable view templates
// and display sizes through ordered, first-match-wins rule lists.
package binding

import (
	"fmt"

	"github.com/pstuifzand/tui-listbind/internal/model"
)

// View is a view instance dequeued from the rendering surface
type View any

// SourceKind says where a template's prototype comes from
type SourceKind uint8

const (
	SourceInline   SourceKind = iota // declared by the surface itself
	SourceExternal                   // external definition looked up by name
	SourceType                       // constructed from a factory
)

func (k SourceKind) String() string {
	switch k {
	case SourceInline:
		return "inline"
	case SourceExternal:
		return "external"
	case SourceType:
		return "type"
	default:
		return "unknown"
	}
}

// Source is a template prototype source
type Source struct {
	Kind    SourceKind
	Name    string      // SourceExternal
	Factory func() View // SourceType
}

// Inline is a template the surface already knows about
func Inline() Source {
	return Source{Kind: SourceInline}
}

// External is a template defined elsewhere and looked up by name
func External(name string) Source {
	return Source{Kind: SourceExternal, Name: name}
}

// ByType is a template whose views are built by factory
func ByType(factory func() View) Source {
	return Source{Kind: SourceType, Factory: factory}
}

// Automatic means the surface sizes the view itself
const Automatic = -1

// SizeKind selects how a Size is computed
type SizeKind uint8

const (
	SizeAutomatic SizeKind = iota
	SizeFixed
	SizeCustom
)

// Size is a sizing rule. The zero value is automatic.
type Size struct {
	Kind   SizeKind
	Value  int
	Custom func(path model.IndexPath, item any) int
}

// Fixed is a constant size
func Fixed(n int) Size {
	return Size{Kind: SizeFixed, Value: n}
}

// AutoSize lets the surface size the view
func AutoSize() Size {
	return Size{Kind: SizeAutomatic}
}

// Custom computes the size from position and model
func Custom(fn func(path model.IndexPath, item any) int) Size {
	return Size{Kind: SizeCustom, Custom: fn}
}

// Resolve computes the size. Headers and footers pass row -1 in path.
func (s Size) Resolve(path model.IndexPath, item any) int {
	switch s.Kind {
	case SizeFixed:
		return s.Value
	case SizeCustom:
		if s.Custom != nil {
			return s.Custom(path, item)
		}
	}
	return Automatic
}

// RowRule binds matching rows to a template
type RowRule struct {
	Template  string
	Source    Source
	Size      Size
	Match     func(path model.IndexPath, row model.Row) bool
	Configure func(view View, row model.Row)
}

// RowFor builds a rule matching rows of type R. The predicate and the typed
// configurator are fixed here, so hosts never type-switch at render time.
func RowFor[R model.Row](template string, source Source, size Size, configure func(view View, row R)) RowRule {
	return RowRule{
		Template: template,
		Source:   source,
		Size:     size,
		Match: func(_ model.IndexPath, row model.Row) bool {
			_, ok := row.(R)
			return ok
		},
		Configure: func(view View, row model.Row) {
			if configure != nil {
				configure(view, row.(R))
			}
		},
	}
}

// HeaderFooterRule binds matching headers or footers to a template
type HeaderFooterRule struct {
	Template  string
	Source    Source
	Size      Size
	Match     func(section int, item model.HeaderFooter) bool
	Configure func(view View, item model.HeaderFooter)
}

// HeaderFooterFor builds a rule matching header/footer models of type H
func HeaderFooterFor[H model.HeaderFooter](template string, source Source, size Size, configure func(view View, item H)) HeaderFooterRule {
	return HeaderFooterRule{
		Template: template,
		Source:   source,
		Size:     size,
		Match: func(_ int, item model.HeaderFooter) bool {
			_, ok := item.(H)
			return ok
		},
		Configure: func(view View, item model.HeaderFooter) {
			if configure != nil {
				configure(view, item.(H))
			}
		},
	}
}

// NoMatchingTemplateError reports a model no registered rule accepts.
// It is a configuration mistake in the host, not a data condition.
type NoMatchingTemplateError struct {
	Role string // "row", "header" or "footer"
	Path model.IndexPath
	Key  string
}

func (e *NoMatchingTemplateError) Error() string {
	if e.Role == "row" {
		return fmt.Sprintf("no %s template matches %q at %s", e.Role, e.Key, e.Path)
	}
	return fmt.Sprintf("no %s template matches %q in section %d", e.Role, e.Key, e.Path.Section)
}

package driver

import (
	"fmt"
	"strings"
)

// Animation is an animation-style token understood by the rendering surface
type Animation string

const (
	AnimationAutomatic Animation = "automatic"
	AnimationNone      Animation = "none"
	AnimationFade      Animation = "fade"
	AnimationHighlight Animation = "highlight"
	AnimationLeft      Animation = "left"
	AnimationRight     Animation = "right"
)

// Kind is a structural operation that can be animated
type Kind uint8

const (
	KindInsertRow Kind = iota
	KindDeleteRow
	KindReloadRow
	KindInsertSection
	KindDeleteSection
	KindReloadSection
)

// Kinds lists every animatable operation
var Kinds = []Kind{KindInsertRow, KindDeleteRow, KindReloadRow, KindInsertSection, KindDeleteSection, KindReloadSection}

// String returns the configuration name of the kind
func (k Kind) String() string {
	switch k {
	case KindInsertRow:
		return "insert_row"
	case KindDeleteRow:
		return "delete_row"
	case KindReloadRow:
		return "reload_row"
	case KindInsertSection:
		return "insert_section"
	case KindDeleteSection:
		return "delete_section"
	case KindReloadSection:
		return "reload_section"
	default:
		return "unknown"
	}
}

// ParseKind parses a configuration name like "insert_row"
func ParseKind(name string) (Kind, error) {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown animation kind %q", name)
}

// Animations maps each operation kind to an animation style
type Animations struct {
	Enabled bool
	Default Animation
	Styles  map[Kind]Animation
}

// DefaultAnimations returns enabled animations using AnimationAutomatic everywhere
func DefaultAnimations() Animations {
	return Animations{Enabled: true, Default: AnimationAutomatic}
}

// For returns the style for kind: none when disabled, the configured style, or the default
func (a Animations) For(k Kind) Animation {
	if !a.Enabled {
		return AnimationNone
	}
	if style, ok := a.Styles[k]; ok && style != "" {
		return style
	}
	if a.Default == "" {
		return AnimationAutomatic
	}
	return a.Default
}

// With returns a copy with the style for kind replaced
func (a Animations) With(k Kind, style Animation) Animations {
	styles := make(map[Kind]Animation, len(a.Styles)+1)
	for kind, s := range a.Styles {
		styles[kind] = s
	}
	styles[k] = style
	a.Styles = styles
	return a
}

// WithEnabled returns a copy with animations switched on or off
func (a Animations) WithEnabled(enabled bool) Animations {
	a.Enabled = enabled
	return a
}

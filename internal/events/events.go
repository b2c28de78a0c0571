// Package events delivers selection and action events from list views to
// listeners registered under a key.
package events

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/pstuifzand/tui-listbind/internal/model"
)

// Kind is the type of an event
type Kind uint8

const (
	KindSelect Kind = iota + 1
	KindDeselect
	KindAction
	KindHeaderFooterAction
)

func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindDeselect:
		return "deselect"
	case KindAction:
		return "action"
	case KindHeaderFooterAction:
		return "header_footer_action"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Event is a resolved user interaction. Row is set for row events,
// HeaderFooter for header/footer actions. Path.Row is -1 for the latter.
type Event struct {
	Kind         Kind
	Path         model.IndexPath
	Row          model.Row
	HeaderFooter model.HeaderFooter
	CTA          string
}

func (e Event) String() string {
	key := ""
	switch {
	case e.Row != nil:
		key = e.Row.Key()
	case e.HeaderFooter != nil:
		key = e.HeaderFooter.Key()
	}
	if e.CTA != "" {
		return fmt.Sprintf("%s %s %s cta=%s", e.Kind, e.Path, key, e.CTA)
	}
	return fmt.Sprintf("%s %s %s", e.Kind, e.Path, key)
}

// Handler receives events
type Handler func(Event)

type listener struct {
	handler Handler
	seq     uint64
}

// Registry holds at most one handler per key. Handlers fire in the order
// their keys were first registered.
type Registry struct {
	mu        sync.RWMutex
	listeners map[string]listener
	seq       uint64
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{listeners: make(map[string]listener)}
}

// Listen registers handler under key. A handler already registered under the
// key is replaced and keeps its place in the firing order.
func (r *Registry) Listen(key string, handler Handler) {
	if handler == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.listeners[key]; ok {
		l.handler = handler
		r.listeners[key] = l
		return
	}
	if r.listeners == nil {
		r.listeners = make(map[string]listener)
	}
	r.seq++
	r.listeners[key] = listener{handler: handler, seq: r.seq}
}

// Unlisten removes the handler registered under key
func (r *Registry) Unlisten(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listeners, key)
}

// Len returns the number of registered handlers
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}

// Emit delivers ev to every handler. Handlers may call Listen or Unlisten;
// changes take effect from the next Emit.
func (r *Registry) Emit(ev Event) {
	r.mu.RLock()
	ordered := make([]listener, 0, len(r.listeners))
	for _, l := range r.listeners {
		ordered = append(ordered, l)
	}
	r.mu.RUnlock()

	slices.SortFunc(ordered, func(a, b listener) int { return cmp.Compare(a.seq, b.seq) })
	for _, l := range ordered {
		l.handler(ev)
	}
}

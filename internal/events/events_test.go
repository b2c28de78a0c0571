package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pstuifzand/tui-listbind/internal/model"
)

func TestListenReplacesInPlace(t *testing.T) {
	r := NewRegistry()
	var got []string

	r.Listen("a", func(Event) { got = append(got, "a1") })
	r.Listen("b", func(Event) { got = append(got, "b") })
	r.Listen("a", func(Event) { got = append(got, "a2") })

	r.Emit(Event{Kind: KindSelect})
	assert.Equal(t, []string{"a2", "b"}, got)
	assert.Equal(t, 2, r.Len())
}

func TestUnlisten(t *testing.T) {
	r := NewRegistry()
	count := 0
	r.Listen("a", func(Event) { count++ })
	r.Unlisten("a")
	r.Unlisten("missing")

	r.Emit(Event{Kind: KindSelect})
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, r.Len())
}

func TestHandlerMayUnlistenDuringEmit(t *testing.T) {
	r := NewRegistry()
	var got []string
	r.Listen("once", func(Event) {
		got = append(got, "once")
		r.Unlisten("once")
	})
	r.Listen("always", func(Event) { got = append(got, "always") })

	r.Emit(Event{Kind: KindAction})
	r.Emit(Event{Kind: KindAction})
	assert.Equal(t, []string{"once", "always", "always"}, got)
}

func TestNilHandlerIgnored(t *testing.T) {
	r := NewRegistry()
	r.Listen("a", nil)
	assert.Equal(t, 0, r.Len())
}

func TestEventString(t *testing.T) {
	row := &model.TextRow{ID: "r1", Text: "x"}
	assert.Equal(t, "select 0:1 r1", Event{Kind: KindSelect, Path: model.Path(0, 1), Row: row}.String())
	assert.Equal(t, "header_footer_action 2:-1 h cta=collapse",
		Event{Kind: KindHeaderFooterAction, Path: model.Path(2, -1), HeaderFooter: model.NewTitle("h", "T"), CTA: "collapse"}.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestFiringOrderFollowsRegistration(t *testing.T) {
	var r Registry
	var got []string
	for _, key := range []string{"d", "b", "c", "a"} {
		key := key
		r.Listen(key, func(Event) { got = append(got, key) })
	}
	r.Unlisten("b")
	r.Listen("b", func(Event) { got = append(got, "b") })

	r.Emit(Event{Kind: KindDeselect})
	assert.Equal(t, []string{"d", "c", "a", "b"}, got)
}

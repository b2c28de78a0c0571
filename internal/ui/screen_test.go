package ui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-listbind/internal/theme"
)

func TestScreenPostRunsOnEventLoop(t *testing.T) {
	s, err := NewScreenFrom(tcell.NewSimulationScreen("UTF-8"), theme.Default())
	require.NoError(t, err)
	defer s.Close()

	ran := false
	require.NoError(t, s.Post(func() { ran = true }))

	ev := s.PollEvent()
	assert.True(t, RunCallback(ev))
	assert.True(t, ran)
	assert.False(t, RunCallback(tcell.NewEventInterrupt(nil)))
}

func TestDrawStringCountsWideRunes(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	s, err := NewScreenFrom(sim, nil)
	require.NoError(t, err)
	defer s.Close()
	sim.SetSize(10, 1)

	assert.Equal(t, 6, s.DrawString(0, 0, "中国ab", s.RowStyle()))
	assert.Equal(t, 2, s.DrawStringLimited(0, 0, "中国ab", 3, s.RowStyle()), "wide rune that does not fit is dropped")
}

func TestStatusLogExpires(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	log := NewStatusLog(2, time.Second)
	log.now = func() time.Time { return now }

	_, ok := log.Current()
	assert.False(t, ok)

	log.Info("saved")
	log.Error("boom")
	log.Info("")
	msg, ok := log.Current()
	require.True(t, ok)
	assert.Equal(t, "boom", msg.Text)
	assert.True(t, msg.Error)

	log.Info("third")
	assert.Equal(t, []string{"third", "boom"}, []string{log.Messages()[0].Text, log.Messages()[1].Text})
	assert.Len(t, log.Messages(), 2)

	now = now.Add(2 * time.Second)
	_, ok = log.Current()
	assert.False(t, ok)
}

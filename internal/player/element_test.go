package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockElement_LoadRewindsAndReportsReady(t *testing.T) {
	e := NewClockElement()
	ready := make(chan struct{}, 1)
	e.OnReady(func() { ready <- struct{}{} })

	e.SetPosition(40)
	e.Load("a.mp4")

	assert.Equal(t, "a.mp4", e.Ref())
	assert.Equal(t, 0.0, e.Position(), "load rewinds to the resource start")

	select {
	case <-ready:
	case <-time.After(time.Second):
		t.Fatal("readiness callback never fired")
	}
}

func TestClockElement_PositionAdvancesOnlyWhilePlaying(t *testing.T) {
	e := NewClockElement()
	e.Load("a.mp4")
	e.SetPosition(10)

	assert.Equal(t, 10.0, e.Position(), "paused position is frozen")

	e.Play()
	time.Sleep(30 * time.Millisecond)
	moved := e.Position()
	require.Greater(t, moved, 10.0)

	e.Pause()
	frozen := e.Position()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, frozen, e.Position())
}

func TestClockElement_PlayRequiresLoadedResource(t *testing.T) {
	e := NewClockElement()
	e.Play()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0.0, e.Position())
}

func TestClockElement_SeekWhilePlayingRebases(t *testing.T) {
	e := NewClockElement()
	e.Load("a.mp4")
	e.Play()
	time.Sleep(20 * time.Millisecond)

	e.SetPosition(100)
	got := e.Position()
	assert.GreaterOrEqual(t, got, 100.0)
	assert.Less(t, got, 101.0)
}

package playhead

import (
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession_StartsAtZeroPaused(t *testing.T) {
	s := NewSession()
	defer s.Close()

	pos := s.Position()
	assert.Equal(t, 0.0, pos.Seconds)
	assert.Equal(t, SourceTimeline, pos.Source)
	assert.Equal(t, PlaybackPaused, s.Playback())
}

func TestSetPosition_ValueAndSourceTravelTogether(t *testing.T) {
	s := NewSession()
	defer s.Close()

	s.SetPosition(1234.5, SourceUser)

	pos := s.Position()
	assert.Equal(t, 1234.5, pos.Seconds)
	assert.Equal(t, SourceUser, pos.Source)
}

func TestSetPosition_UserScrubForcesPause(t *testing.T) {
	s := NewSession()
	defer s.Close()

	s.SetPlayback(PlaybackPlaying)
	s.SetPosition(100, SourceUser)

	assert.Equal(t, PlaybackPaused, s.Playback())
}

func TestSetPosition_TimelineWriteForcesPause(t *testing.T) {
	s := NewSession()
	defer s.Close()

	s.SetPlayback(PlaybackPlaying)
	s.SetPosition(100, SourceTimeline)

	assert.Equal(t, PlaybackPaused, s.Playback())
}

func TestSetPosition_PlayerProgressLeavesPlaybackUntouched(t *testing.T) {
	s := NewSession()
	defer s.Close()

	s.SetPlayback(PlaybackPlaying)
	s.SetPosition(100, SourcePlayer)

	assert.Equal(t, PlaybackPlaying, s.Playback())
}

func TestSetPosition_SanitizesDegenerateValues(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"nan fails safe to zero", math.NaN(), 0},
		{"positive infinity fails safe to zero", math.Inf(1), 0},
		{"negative infinity fails safe to zero", math.Inf(-1), 0},
		{"negative clamps to zero", -5, 0},
		{"day end is exclusive", 86400, math.Nextafter(86400, 0)},
		{"beyond day clamps below day end", 100000, math.Nextafter(86400, 0)},
		{"in-range value passes through", 43200, 43200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			defer s.Close()

			s.SetPosition(tt.in, SourceUser)
			assert.Equal(t, tt.want, s.Position().Seconds)
		})
	}
}

func TestSubscribePosition_ObserverSeesAtomicSample(t *testing.T) {
	s := NewSession()
	defer s.Close()

	got := make(chan Position, 1)
	sub := s.SubscribePosition(func(p Position) { got <- p })
	defer sub.Unsubscribe()

	s.SetPosition(250, SourcePlayer)

	select {
	case p := <-got:
		assert.Equal(t, 250.0, p.Seconds)
		assert.Equal(t, SourcePlayer, p.Source)
	case <-time.After(time.Second):
		t.Fatal("position observer was never notified")
	}
}

func TestSubscribePlayback_ObserverSeesCommandChanges(t *testing.T) {
	s := NewSession()
	defer s.Close()

	var last atomic.Value
	sub := s.SubscribePlayback(func(p Playback) { last.Store(p) })
	defer sub.Unsubscribe()

	s.SetPlayback(PlaybackPlaying)

	require.Eventually(t, func() bool {
		v, ok := last.Load().(Playback)
		return ok && v == PlaybackPlaying
	}, time.Second, time.Millisecond)
}

func TestReset_ReturnsToDayStartPaused(t *testing.T) {
	s := NewSession()
	defer s.Close()

	s.SetPosition(5000, SourceUser)
	s.SetPlayback(PlaybackPlaying)
	s.Reset()

	pos := s.Position()
	assert.Equal(t, 0.0, pos.Seconds)
	assert.Equal(t, SourceTimeline, pos.Source)
	assert.Equal(t, PlaybackPaused, s.Playback())
}

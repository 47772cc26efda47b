package puzzle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWinningNumber(t *testing.T) {
	cases := []struct {
		pieces int
		want   int
		ok     bool
	}{
		{4, 8, true},
		{9, 24, true},
		{16, 48, true},
		{25, 80, true},
		{1, 0, false},
		{8, 0, false},
		{10, 0, false},
		{0, 0, false},
	}
	for _, tc := range cases {
		got, ok := WinningNumber(tc.pieces)
		assert.Equal(t, tc.ok, ok, "pieces=%d", tc.pieces)
		assert.Equal(t, tc.want, got, "pieces=%d", tc.pieces)
	}
}

func TestWinningNumber_MatchesGridEdgeCount(t *testing.T) {
	// Each of the 2·n·(n-1) physical edges is counted from both sides.
	for n := 2; n <= 8; n++ {
		got, ok := WinningNumber(n * n)
		assert.True(t, ok)
		assert.Equal(t, 4*n*(n-1), got, "n=%d", n)
	}
}

func TestWinEffects_Schedule(t *testing.T) {
	effects := winEffects(DefaultTimings())
	assert.Equal(t, []EffectKind{EffectWinCue, EffectPresentWinNotice, EffectWinNoticeActionable}, kinds(effects))
	assert.Equal(t, 1500*time.Millisecond, effects[0].Delay)
	assert.Equal(t, 6500*time.Millisecond, effects[1].Delay)
	assert.Equal(t, 500*time.Millisecond, effects[1].Duration)
	assert.Equal(t, 7000*time.Millisecond, effects[2].Delay)
}

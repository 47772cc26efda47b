package puzzle

import "github.com/robalobadob/edgepuzzle/internal/catalog"

// WinningNumber is the directed connection count of a fully assembled n×n
// grid: 4 corners with 2 connected sides, (n-2)·4 edge pieces with 3, and
// (n-2)² interior pieces with 4.
//
// ok is false when pieceCount is not a perfect square or is below 4; such
// puzzles are unwinnable.
func WinningNumber(pieceCount int) (int, bool) {
	n, ok := catalog.PerfectSquareRoot(pieceCount)
	if !ok || n < 2 {
		return 0, false
	}
	return 8 + (n-2)*12 + (n-2)*(n-2)*4, true
}

// winEffects are emitted once, right after the fit confirmation.
func winEffects(t Timings) []Effect {
	cue := after(t.WinCue, EffectWinCue, "")
	notice := after(t.WinCue+t.WinNotice, EffectPresentWinNotice, "")
	notice.Duration = t.WinNoticeFade
	actionable := after(t.WinCue+t.WinNotice+t.WinNoticeFade, EffectWinNoticeActionable, "")
	return []Effect{cue, notice, actionable}
}

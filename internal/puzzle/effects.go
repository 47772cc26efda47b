// internal/puzzle/effects.go
//
// Notifications from the engine to the rendering layer.
//
// The engine never owns a timer. Deferred work (failure settling, the win
// notice) is emitted as an Effect carrying a Delay relative to the event that
// produced it; an external scheduler runs it. Every effect captures its piece
// id when it is created, and the clear* kinds are idempotent, so a clear that
// lands after a newer drag leaves state consistent.

package puzzle

import "time"

// EffectKind identifies a renderer notification.
type EffectKind string

const (
	EffectMarkFit        EffectKind = "markFit"
	EffectMarkNoFit      EffectKind = "markNoFit"
	EffectClearFit       EffectKind = "clearFit"
	EffectClearNoFit     EffectKind = "clearNoFit"
	EffectClearMarks     EffectKind = "clearMarks" // both fit and no-fit
	EffectReturnToOrigin EffectKind = "returnToOrigin"

	EffectSuccessCue          EffectKind = "playSuccessCue"
	EffectFailureCue          EffectKind = "playFailureCue"
	EffectWinCue              EffectKind = "playWinCue"
	EffectPresentWinNotice    EffectKind = "presentWinNotice"
	EffectWinNoticeActionable EffectKind = "winNoticeActionable"
)

// Effect is one "do this after Delay" request. PieceID is empty for the
// cue and notice kinds. Duration is the animation length for returnToOrigin
// and the fade-in for presentWinNotice.
type Effect struct {
	Kind     EffectKind
	PieceID  string
	Delay    time.Duration
	Duration time.Duration
}

// Timings are the fixed settle delays used when emitting effects.
type Timings struct {
	FailureSettle  time.Duration // pause before a failed piece animates back
	ReturnDuration time.Duration // return-to-origin animation length
	WinCue         time.Duration // fit confirmation -> win cue
	WinNotice      time.Duration // win cue -> win notice
	WinNoticeFade  time.Duration // win notice -> actionable
}

// DefaultTimings mirrors the reference front end.
func DefaultTimings() Timings {
	return Timings{
		FailureSettle:  300 * time.Millisecond,
		ReturnDuration: 1000 * time.Millisecond,
		WinCue:         1500 * time.Millisecond,
		WinNotice:      5000 * time.Millisecond,
		WinNoticeFade:  500 * time.Millisecond,
	}
}

func now(kind EffectKind, id string) Effect {
	return Effect{Kind: kind, PieceID: id}
}

func after(d time.Duration, kind EffectKind, id string) Effect {
	return Effect{Kind: kind, PieceID: id, Delay: d}
}

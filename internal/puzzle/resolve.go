// internal/puzzle/resolve.go
//
// Fit resolution for one drop of one piece.
//
// Policy:
//   - Every adjacent candidate is classified; non-adjacent ones are dropped.
//   - Pairs are partitioned into Failures/Successes keyed by the moved id.
//   - Any failure rejects the whole placement: connectivity is left untouched,
//     even for pairs that matched, and only failure feedback is emitted.
//   - With zero failures every matched pair is committed symmetrically.
//   - No pairs at all means no resolution and no feedback.

package puzzle

import "sort"

// Resolution is the outcome of one drop.
type Resolution struct {
	MovedID   string              `json:"movedId"`
	Pairs     []SnapPair          `json:"pairs"`
	Failures  map[string][]string `json:"failures"`
	Successes map[string][]string `json:"successes"`
}

// Resolved reports whether any pair was classified.
func (r Resolution) Resolved() bool { return len(r.Pairs) > 0 }

// Failed reports whether the placement was rejected.
func (r Resolution) Failed() bool { return len(r.Failures) > 0 }

// Committed reports whether the placement was accepted into connectivity.
func (r Resolution) Committed() bool { return r.Resolved() && !r.Failed() }

// Resolve classifies moved against every adjacent piece, decides fit for the
// placement as a whole, commits successes into conn when nothing failed, and
// returns the renderer effects.
func Resolve(conn *Connectivity, moved Placed, adjacent []Placed, t Timings) (Resolution, []Effect) {
	res := Resolution{
		MovedID:   moved.Piece.ID,
		Failures:  map[string][]string{},
		Successes: map[string][]string{},
	}

	seen := make(map[string]struct{}, len(adjacent))
	for _, other := range adjacent {
		if other.Piece.ID == moved.Piece.ID {
			continue
		}
		if _, dup := seen[other.Piece.ID]; dup {
			continue
		}
		seen[other.Piece.ID] = struct{}{}

		adj := Classify(moved, other)
		if !adj.Adjacent() {
			continue
		}
		p := adj.Pair
		res.Pairs = append(res.Pairs, p)
		if p.Fits() {
			res.Successes[p.AID] = append(res.Successes[p.AID], p.BID)
		} else {
			res.Failures[p.AID] = append(res.Failures[p.AID], p.BID)
		}
	}

	switch {
	case !res.Resolved():
		return res, nil
	case res.Failed():
		return res, failureEffects(res.Failures, t)
	default:
		return res, commit(conn, res.Successes)
	}
}

func failureEffects(failures map[string][]string, t Timings) []Effect {
	effects := []Effect{now(EffectFailureCue, "")}
	for _, movedID := range sortedKeys(failures) {
		neighbors := failures[movedID]
		effects = append(effects, now(EffectMarkNoFit, movedID))
		for _, id := range neighbors {
			effects = append(effects, now(EffectMarkNoFit, id))
		}

		back := after(t.FailureSettle, EffectReturnToOrigin, movedID)
		back.Duration = t.ReturnDuration
		effects = append(effects, back)

		settled := t.FailureSettle + t.ReturnDuration
		effects = append(effects, after(settled, EffectClearMarks, movedID))
		for _, id := range neighbors {
			effects = append(effects, after(settled, EffectClearNoFit, id))
		}
	}
	return effects
}

func commit(conn *Connectivity, successes map[string][]string) []Effect {
	effects := []Effect{now(EffectSuccessCue, "")}
	for _, movedID := range sortedKeys(successes) {
		effects = append(effects, now(EffectMarkFit, movedID))
		for _, id := range successes[movedID] {
			conn.Add(movedID, id)
			effects = append(effects, now(EffectMarkFit, id))
		}
	}
	return effects
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

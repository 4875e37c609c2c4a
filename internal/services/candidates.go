package services

import (
	"time"

	"github.com/Lem0nsong/prologistics-proxy/internal/domain"
)

// DefaultCandidateCap bounds upstream load for a single sweep regardless
// of the requested window and step.
const DefaultCandidateCap = 8

// Candidates expands an anchor instant and a search window into the
// ordered list of probe instants for one sweep.
//
// ARRIVE windows span [anchor-window, anchor], DEPART windows span
// [anchor, anchor+window]; both are returned in ascending chronological
// order and always include the anchor. When the naive count would exceed
// maxCandidates the step widens to the smallest value that respects the
// cap. The result is never empty: a degenerate window yields the anchor
// alone.
func Candidates(anchor time.Time, windowMinutes, stepMinutes int, mode domain.Mode, maxCandidates int) []time.Time {
	if maxCandidates < 1 {
		maxCandidates = DefaultCandidateCap
	}
	if windowMinutes < 0 {
		windowMinutes = 0
	}
	if stepMinutes < 1 {
		stepMinutes = 1
	}
	if windowMinutes == 0 || maxCandidates == 1 {
		return []time.Time{anchor}
	}

	count := windowMinutes/stepMinutes + 1
	if count > maxCandidates {
		// Smallest step that still fits the window under the cap.
		stepMinutes = (windowMinutes + maxCandidates - 2) / (maxCandidates - 1)
		count = windowMinutes/stepMinutes + 1
	}

	offsets := make([]int, 0, count)
	for off := 0; off <= windowMinutes; off += stepMinutes {
		offsets = append(offsets, off)
	}

	out := make([]time.Time, 0, len(offsets))
	if mode == domain.ModeArrive {
		// Offsets run backwards from the anchor so the arrive-by instant
		// itself is always probed; emitted earliest-first.
		for i := len(offsets) - 1; i >= 0; i-- {
			out = append(out, anchor.Add(-time.Duration(offsets[i])*time.Minute))
		}
	} else {
		for _, off := range offsets {
			out = append(out, anchor.Add(time.Duration(off)*time.Minute))
		}
	}

	return out
}

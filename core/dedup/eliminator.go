package dedup

import (
	"unicode/utf8"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultWindow = 20
	DefaultCutoff = 70
)

// Eliminator finds near-duplicate texts within a sliding window.
// Texts are expected to be ordered so that duplicates end up close to
// each other, for example sorted by title.
type Eliminator struct {
	Window int // Neighbours compared on each side of a text
	Cutoff int // Minimum TokenSetRatio of a match
}

// NewEliminator creates an eliminator. A negative window or a cutoff
// outside of 0-100 falls back to the defaults.
func NewEliminator(window int, cutoff int) *Eliminator {
	if window < 0 {
		window = DefaultWindow
	}
	if cutoff < 0 || cutoff > 100 {
		cutoff = DefaultCutoff
	}

	return &Eliminator{
		Window: window,
		Cutoff: cutoff,
	}
}

// EliminateNearDuplicates runs an eliminator with the default window and cutoff.
func EliminateNearDuplicates(orderedTexts []string) map[string]struct{} {
	return NewEliminator(DefaultWindow, DefaultCutoff).Eliminate(orderedTexts)
}

// Eliminate returns the set of texts to remove from orderedTexts.
//
// Every text is compared with the texts in [i-Window, i+Window]. All texts
// scoring at least Cutoff, the text itself included, form a group of which
// the longest text is kept (the first one in window order on equal length)
// and all others are marked for removal. The result is the union over all
// positions. A text that only matches itself is never removed.
func (e *Eliminator) Eliminate(orderedTexts []string) map[string]struct{} {
	toRemove := map[string]struct{}{}

	// Every text is prepared once even though it takes part in up to
	// 2*Window+1 comparisons.
	memo := cache.New(cache.NoExpiration, 0)
	prepared := func(text string) preparedText {
		if p, found := memo.Get(text); found {
			return p.(preparedText)
		}
		p := prepare(text)
		memo.Set(text, p, cache.NoExpiration)
		return p
	}

	for i, text := range orderedTexts {
		start := max(0, i-e.Window)
		end := min(len(orderedTexts), i+e.Window+1)
		query := prepared(text)

		matches := []string{}
		for j := start; j < end; j++ {
			if j == i {
				matches = append(matches, text)
				continue
			}
			candidate := orderedTexts[j]
			if tokenSetScore(query, prepared(candidate)) >= e.Cutoff {
				matches = append(matches, candidate)
			}
		}

		keep := longest(matches)
		for _, match := range matches {
			if match != keep {
				toRemove[match] = struct{}{}
			}
		}
	}

	return toRemove
}

// longest returns the first text of maximal length in window order.
// Equal-length duplicates therefore agree on one survivor from every position;
// picking by score instead would let each keep itself and remove the other.
func longest(texts []string) string {
	keep, keepLength := "", -1
	for _, text := range texts {
		if length := utf8.RuneCountInString(text); length > keepLength {
			keep, keepLength = text, length
		}
	}
	return keep
}

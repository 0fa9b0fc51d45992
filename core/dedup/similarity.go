package dedup

import (
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TokenSetRatio scores the similarity of two texts from 0 to 100 by
// comparing their sets of words. Case, accents and punctuation are ignored
// and a text whose words are a subset of the other's words scores 100.
// If either text has no words left after processing, the score is 0.
func TokenSetRatio(a, b string) int {
	return tokenSetScore(prepare(a), prepare(b))
}

// preparedText is a processed text split into its sorted unique words.
type preparedText struct {
	tokens []string
}

func prepare(text string) preparedText {
	tokens := strings.Fields(fullProcess(text))
	slices.Sort(tokens)
	return preparedText{tokens: slices.Compact(tokens)}
}

// fullProcess strips accents, drops remaining non-ASCII characters,
// replaces everything but letters, digits and underscores by spaces and
// lower-cases the result.
func fullProcess(text string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r > unicode.MaxASCII:
			continue
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteByte(' ')
		}
	}

	return strings.TrimSpace(b.String())
}

func tokenSetScore(a, b preparedText) int {
	if len(a.tokens) == 0 || len(b.tokens) == 0 {
		return 0
	}

	intersection, diffAB, diffBA := splitTokens(a.tokens, b.tokens)

	sect := strings.Join(intersection, " ")
	combinedAB := strings.TrimSpace(sect + " " + strings.Join(diffAB, " "))
	combinedBA := strings.TrimSpace(sect + " " + strings.Join(diffBA, " "))

	return max(
		ratio(sect, combinedAB),
		ratio(sect, combinedBA),
		ratio(combinedAB, combinedBA),
	)
}

// splitTokens splits two sorted unique token lists into their sorted
// intersection and both sorted differences.
func splitTokens(a, b []string) (intersection, diffAB, diffBA []string) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch strings.Compare(a[i], b[j]) {
		case 0:
			intersection = append(intersection, a[i])
			i++
			j++
		case -1:
			diffAB = append(diffAB, a[i])
			i++
		default:
			diffBA = append(diffBA, b[j])
			j++
		}
	}
	diffAB = append(diffAB, a[i:]...)
	diffBA = append(diffBA, b[j:]...)
	return intersection, diffAB, diffBA
}

// ratio is the sequence matcher similarity 2*M/T of two strings scaled to 0-100.
// Automatic junk detection is off, so long texts are compared character by character.
func ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	matcher := difflib.NewMatcherWithJunk(splitChars(a), splitChars(b), false, nil)
	return int(math.RoundToEven(100 * matcher.Ratio()))
}

func splitChars(s string) []string {
	chars := make([]string, 0, len(s))
	for _, r := range s {
		chars = append(chars, string(r))
	}
	return chars
}

package text

import (
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/araddon/dateparse"
)

const (
	DefaultTitleMinLength = 5
	DefaultTitleMaxWords  = 18

	// maxDateTokens bounds the number of words a date may span in a line.
	maxDateTokens = 6
)

// numericDate matches day.month.year and day-month-year digit groups.
var numericDate = regexp.MustCompile(`\b(\d{1,2})[.-](\d{1,2})[.-](\d{2,4})\b`)

// asciiPunctuation is the set of characters removed before building a title.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Extractor derives the title and the date of a normalized poem text.
type Extractor struct {
	TitleMinLength int
	TitleMaxWords  int
	log            *slog.Logger
}

// NewExtractor creates an extractor. Non positive values fall back to the defaults.
func NewExtractor(titleMinLength, titleMaxWords int, logger *slog.Logger) *Extractor {
	if titleMinLength <= 0 {
		titleMinLength = DefaultTitleMinLength
	}
	if titleMaxWords <= 0 {
		titleMaxWords = DefaultTitleMaxWords
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Extractor{
		TitleMinLength: titleMinLength,
		TitleMaxWords:  titleMaxWords,
		log:            logger,
	}
}

// ExtractTitle builds a title with the default settings.
func ExtractTitle(text string) string {
	return NewExtractor(DefaultTitleMinLength, DefaultTitleMaxWords, nil).Title(text)
}

// ExtractDate finds the date of a text with the default logger.
func ExtractDate(text string, source string) *time.Time {
	return NewExtractor(DefaultTitleMinLength, DefaultTitleMaxWords, nil).Date(text, source)
}

// LooksLikeDate reports whether a line could hold a date,
// that is if it contains a digit, a dash or a slash.
func LooksLikeDate(line string) bool {
	return strings.ContainsFunc(line, unicode.IsDigit) || strings.ContainsAny(line, "-/")
}

// Title builds the title of a poem from its first lines.
// Punctuation is removed and blank or date-like lines are skipped. Lines are
// joined until the title reaches TitleMinLength characters, then cut to
// TitleMaxWords words. The first character is upper-cased, the rest lower-cased.
func (e *Extractor) Title(text string) string {
	lines := strings.Split(removePunctuation(text), "\n")

	titleLines := []string{}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" || LooksLikeDate(line) {
			continue
		}
		if utf8.RuneCountInString(strings.Join(titleLines, " ")) >= e.TitleMinLength {
			break
		}
		titleLines = append(titleLines, line)
	}

	words := strings.Split(strings.Join(titleLines, " "), " ")
	if len(words) > e.TitleMaxWords {
		words = words[:e.TitleMaxWords]
	}

	return capitalize(strings.Join(words, " "))
}

// Date returns the first date found in the first date-like line of text,
// or nil if there is none. Source only labels the debug log of a miss.
func (e *Extractor) Date(text string, source string) *time.Time {
	var dateLine string
	found := false
	for _, line := range strings.Split(text, "\n") {
		if LooksLikeDate(line) {
			dateLine = line
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	date := findDate(dateLine)
	if date == nil {
		e.log.Debug("Couldn't find date", slog.String("line", dateLine), slog.String("source", source))
	}

	return date
}

// findDate searches the words of line for the first span that parses as a date.
// Longer spans win over shorter ones starting at the same word, so
// "3 March 1987" is preferred over "3".
func findDate(line string) *time.Time {
	tokens := strings.Fields(line)
	for start := range tokens {
		end := min(len(tokens), start+maxDateTokens)
		for ; end > start; end-- {
			candidate := strings.Trim(strings.Join(tokens[start:end], " "), " ,;:()[]{}\"'")
			if !strings.ContainsFunc(candidate, unicode.IsDigit) {
				continue
			}
			if date, ok := parseDate(candidate); ok {
				return &date
			}
		}
	}
	return nil
}

// parseDate parses a candidate day first. A panic of the parser counts as a miss.
// Dotted and dashed numeric dates are read month first by dateparse, so they
// are rewritten to the slash form, which honours the day first preference.
func parseDate(candidate string) (date time.Time, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	candidate = numericDate.ReplaceAllString(candidate, "$1/$2/$3")
	date, err := dateparse.ParseAny(candidate, dateparse.PreferMonthFirst(false))
	if err != nil || date.Year() == 0 {
		return time.Time{}, false
	}
	return date, true
}

func removePunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return r
	}, text)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

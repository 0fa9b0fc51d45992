package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"github.com/siherrmann/poetry/model"
)

// Column names of the poem tables.
const (
	ColumnID        = "id"
	ColumnDate      = "date"
	ColumnTitle     = "title"
	ColumnText      = "text"
	ColumnFilename  = "filename"
	ColumnTopic1    = "topic1"
	ColumnTopic2    = "topic2"
	ColumnTopic3    = "topic3"
	ColumnEmbedding = "embedding"
)

var (
	// PoemColumns are written by the clean stage.
	PoemColumns = []string{ColumnID, ColumnDate, ColumnTitle, ColumnText, ColumnFilename}
	// TopicColumns are written by the topics stage.
	TopicColumns = []string{ColumnID, ColumnDate, ColumnTitle, ColumnText, ColumnTopic1, ColumnTopic2, ColumnTopic3}
	// EmbeddingColumns are written by the embed stage.
	EmbeddingColumns = []string{ColumnID, ColumnDate, ColumnTitle, ColumnText, ColumnTopic1, ColumnTopic2, ColumnTopic3, ColumnEmbedding}
	// AllColumns holds every column a poem has.
	AllColumns = []string{ColumnID, ColumnDate, ColumnTitle, ColumnText, ColumnFilename, ColumnTopic1, ColumnTopic2, ColumnTopic3, ColumnEmbedding}
)

// toRecord returns the values of the columns of a poem as strings.
func toRecord(poem *model.Poem, columns []string) []string {
	record := make([]string, len(columns))
	for i, column := range columns {
		record[i] = value(poem, column)
	}
	return record
}

func value(poem *model.Poem, column string) string {
	switch column {
	case ColumnID:
		if !poem.Identified() {
			return ""
		}
		return poem.ID.String()
	case ColumnDate:
		return formatDate(poem.Date)
	case ColumnTitle:
		return poem.Title
	case ColumnText:
		return poem.Text
	case ColumnFilename:
		return poem.Filename
	case ColumnTopic1:
		return formatTopic(poem.Topic1)
	case ColumnTopic2:
		return formatTopic(poem.Topic2)
	case ColumnTopic3:
		return formatTopic(poem.Topic3)
	case ColumnEmbedding:
		return poem.Embedding.String()
	}
	return ""
}

// fromRecord builds a poem from a record. Index maps column names to
// positions in the record, unknown columns are ignored.
func fromRecord(index map[string]int, record []string) (*model.Poem, error) {
	get := func(column string) string {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	poem := &model.Poem{
		Title:    get(ColumnTitle),
		Text:     get(ColumnText),
		Filename: get(ColumnFilename),
	}

	var err error
	if id := strings.TrimSpace(get(ColumnID)); id != "" {
		poem.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", id, err)
		}
	}

	poem.Date, err = parseDate(get(ColumnDate))
	if err != nil {
		return nil, err
	}

	topics := make([]*int, 3)
	for i, column := range []string{ColumnTopic1, ColumnTopic2, ColumnTopic3} {
		topics[i], err = parseTopic(get(column))
		if err != nil {
			return nil, err
		}
	}
	poem.Topic1, poem.Topic2, poem.Topic3 = topics[0], topics[1], topics[2]

	poem.Embedding, err = model.ParseEmbedding(get(ColumnEmbedding))
	if err != nil {
		return nil, err
	}

	return poem, nil
}

func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, column := range header {
		index[strings.ToLower(strings.TrimSpace(column))] = i
	}
	return index
}

func formatDate(date *time.Time) string {
	if date == nil {
		return ""
	}
	return date.Format(model.DateLayout)
}

// parseDate reads dates written by formatDate and falls back to
// guessing the layout for tables written by other tools.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	date, err := time.Parse(model.DateLayout, s)
	if err != nil {
		date, err = dateparse.ParseAny(s, dateparse.PreferMonthFirst(false))
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", s, err)
		}
	}
	return &date, nil
}

func formatTopic(topic *int) string {
	if topic == nil {
		return ""
	}
	return strconv.Itoa(*topic)
}

// parseTopic accepts integers and integral floats ("3.0") as written by
// tools storing nullable integer columns as floats.
func parseTopic(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	topic, err := strconv.Atoi(s)
	if err != nil {
		f, floatErr := strconv.ParseFloat(s, 64)
		if floatErr != nil || f != float64(int(f)) {
			return nil, fmt.Errorf("invalid topic %q", s)
		}
		topic = int(f)
	}
	return &topic, nil
}

package table

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/siherrmann/poetry/helper"
	"github.com/siherrmann/poetry/model"
)

// Format is the file format of a poem table.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatXLSX    Format = "xlsx"
)

// Stage file names without extension.
const (
	PoemsFile           = "poems"
	PoemsWithTopics     = "poems-with-topics"
	PoemsWithEmbeddings = "poems-with-embeddings"
	TopicsFile          = "topics.json"
)

// FormatOf returns the table format of path by its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".parquet":
		return FormatParquet, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %s", helper.ErrUnsupportedFormat, path)
}

// StagePath returns the path of a stage file in dir, for example dir/poems.csv.
func StagePath(dir string, stage string, format Format) string {
	return filepath.Join(dir, stage+"."+string(format))
}

// Write writes the poems to path in the format of its extension.
// Only the given columns are written, all columns if none are given.
func Write(path string, poems []*model.Poem, columns ...string) error {
	format, err := FormatOf(path)
	if err != nil {
		return helper.NewError("write table", err)
	}
	if len(columns) == 0 {
		columns = AllColumns
	}

	switch format {
	case FormatCSV:
		err = writeCSV(path, poems, columns)
	case FormatParquet:
		err = writeParquet(path, poems, columns)
	case FormatXLSX:
		err = writeXLSX(path, poems, columns)
	}
	if err != nil {
		return helper.NewError("write table", err)
	}

	return nil
}

// Read reads the poems of a table file written by Write.
// Missing columns are left empty.
func Read(path string) ([]*model.Poem, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, helper.NewError("read table", err)
	}

	var poems []*model.Poem
	switch format {
	case FormatCSV:
		poems, err = readCSV(path)
	case FormatParquet:
		poems, err = readParquet(path)
	case FormatXLSX:
		poems, err = readXLSX(path)
	}
	if err != nil {
		return nil, helper.NewError("read table", err)
	}

	return poems, nil
}

// WriteTopics writes the words of every topic with their scores as json.
func WriteTopics(path string, topics []model.Topic) error {
	content, err := json.MarshalIndent(topics, "", "  ")
	if err != nil {
		return helper.NewError("write topics", err)
	}

	err = os.WriteFile(path, content, 0600)
	if err != nil {
		return helper.NewError("write topics", err)
	}

	return nil
}

// ReadTopics reads a file written by WriteTopics.
func ReadTopics(path string) ([]model.Topic, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, helper.NewError("read topics", err)
	}

	var topics []model.Topic
	err = json.Unmarshal(content, &topics)
	if err != nil {
		return nil, helper.NewError("read topics", err)
	}

	return topics, nil
}

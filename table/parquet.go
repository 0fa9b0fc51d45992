package table

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/parquet-go/parquet-go"
	"github.com/siherrmann/poetry/model"
)

// parquetPoem is the parquet schema of a poem table.
// Columns that are not written are left empty.
type parquetPoem struct {
	ID        string    `parquet:"id"`
	Date      *string   `parquet:"date"`
	Title     string    `parquet:"title"`
	Text      string    `parquet:"text"`
	Filename  string    `parquet:"filename"`
	Topic1    *int64    `parquet:"topic1"`
	Topic2    *int64    `parquet:"topic2"`
	Topic3    *int64    `parquet:"topic3"`
	Embedding []float32 `parquet:"embedding"`
}

func newParquetPoem(poem *model.Poem, columns []string) parquetPoem {
	row := parquetPoem{}
	for _, column := range columns {
		switch column {
		case ColumnID:
			row.ID = value(poem, ColumnID)
		case ColumnDate:
			if poem.Date != nil {
				date := formatDate(poem.Date)
				row.Date = &date
			}
		case ColumnTitle:
			row.Title = poem.Title
		case ColumnText:
			row.Text = poem.Text
		case ColumnFilename:
			row.Filename = poem.Filename
		case ColumnTopic1:
			row.Topic1 = int64Ptr(poem.Topic1)
		case ColumnTopic2:
			row.Topic2 = int64Ptr(poem.Topic2)
		case ColumnTopic3:
			row.Topic3 = int64Ptr(poem.Topic3)
		case ColumnEmbedding:
			row.Embedding = poem.Embedding
		}
	}
	return row
}

func (r parquetPoem) poem() (*model.Poem, error) {
	index := columnIndex(AllColumns)
	record := make([]string, len(AllColumns))
	record[index[ColumnID]] = r.ID
	record[index[ColumnTitle]] = r.Title
	record[index[ColumnText]] = r.Text
	record[index[ColumnFilename]] = r.Filename
	if r.Date != nil {
		record[index[ColumnDate]] = *r.Date
	}

	poem, err := fromRecord(index, record)
	if err != nil {
		return nil, err
	}
	poem.Topic1, poem.Topic2, poem.Topic3 = intPtr(r.Topic1), intPtr(r.Topic2), intPtr(r.Topic3)
	if len(r.Embedding) > 0 {
		poem.Embedding = slices.Clone(r.Embedding)
	}

	return poem, nil
}

func writeParquet(path string, poems []*model.Poem, columns []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	rows := make([]parquetPoem, len(poems))
	for i, poem := range poems {
		rows[i] = newParquetPoem(poem, columns)
	}

	writer := parquet.NewGenericWriter[parquetPoem](file)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	return file.Close()
}

func readParquet(path string) ([]*model.Poem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[parquetPoem](pf)
	defer reader.Close()

	poems := make([]*model.Poem, 0, pf.NumRows())
	rows := make([]parquetPoem, 128)
	for {
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			poem, convErr := row.poem()
			if convErr != nil {
				return nil, fmt.Errorf("row %d: %w", len(poems)+1, convErr)
			}
			poems = append(poems, poem)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	return poems, nil
}

func int64Ptr(i *int) *int64 {
	if i == nil {
		return nil
	}
	v := int64(*i)
	return &v
}

func intPtr(i *int64) *int {
	if i == nil {
		return nil
	}
	v := int(*i)
	return &v
}

package table

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/siherrmann/poetry/model"
)

func writeCSV(path string, poems []*model.Poem, columns []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, poem := range poems {
		if err := writer.Write(toRecord(poem, columns)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv file: %w", err)
	}

	return file.Close()
}

func readCSV(path string) ([]*model.Poem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv file: %w", err)
	}
	if len(records) == 0 {
		return []*model.Poem{}, nil
	}

	index := columnIndex(records[0])
	poems := make([]*model.Poem, 0, len(records)-1)
	for i, record := range records[1:] {
		poem, err := fromRecord(index, record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		poems = append(poems, poem)
	}

	return poems, nil
}

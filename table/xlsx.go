package table

import (
	"fmt"

	"github.com/siherrmann/poetry/model"
	"github.com/xuri/excelize/v2"
)

const sheetName = "poems"

func writeXLSX(path string, poems []*model.Poem, columns []string) error {
	f := excelize.NewFile()
	defer f.Close()

	err := f.SetSheetName(f.GetSheetName(0), sheetName)
	if err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	writeRow := func(row int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(values))
		for i, value := range values {
			cells[i] = value
		}
		return f.SetSheetRow(sheetName, cell, &cells)
	}

	if err := writeRow(1, columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, poem := range poems {
		if err := writeRow(i+2, toRecord(poem, columns)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	err = f.SaveAs(path)
	if err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

func readXLSX(path string) ([]*model.Poem, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in Excel file")
	}

	// Tables written by other tools keep their first sheet name
	sheet := sheets[0]
	for _, name := range sheets {
		if name == sheetName {
			sheet = name
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	if len(rows) == 0 {
		return []*model.Poem{}, nil
	}

	index := columnIndex(rows[0])
	poems := make([]*model.Poem, 0, len(rows)-1)
	for i, row := range rows[1:] {
		poem, err := fromRecord(index, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		poems = append(poems, poem)
	}

	return poems, nil
}

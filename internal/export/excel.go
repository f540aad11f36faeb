package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// writeXLSX writes one workbook with a single sheet named after the table.
// Column order follows the table definition, header row bold.
func writeXLSX(path, table string, columns []string, records []map[string]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(table)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(table, cell, col); err != nil {
			return err
		}
		if err := f.SetCellStyle(table, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for rowIdx, record := range records {
		for colIdx, col := range columns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(table, cell, record[col]); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

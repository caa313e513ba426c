package services

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"fitness-portal/internal/dto"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxSheetName - ограничение Excel на длину имени листа.
const maxSheetName = 31

// WriteXLSX пишет таблицу ресурса в xlsx: жирная шапка, строки - отформатированные ячейки.
func WriteXLSX(w io.Writer, sheet string, columns []dto.Column, rows []dto.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if r := []rune(sheet); len(r) > maxSheetName {
		sheet = string(r[:maxSheetName])
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := make([]interface{}, len(columns))
	for i, col := range columns {
		headers[i] = col.Title
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	if len(columns) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		last, _ := excelize.CoordinatesToCellName(len(columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return err
		}
		lastCol, _ := excelize.ColumnNumberToName(len(columns))
		if err := f.SetColWidth(sheet, "A", lastCol, 22); err != nil {
			return err
		}
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		cells := row.Cells()
		values := make([]interface{}, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("строка %d: %w", i+1, err)
		}
	}

	return f.Write(w)
}

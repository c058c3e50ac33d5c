package inventory

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var stockColumns = []string{"Firm", "Item", "Unit", "Quantity", "Updated At"}

func stockRow(lvl StockLevel) []string {
	return []string{
		lvl.FirmNameMatch,
		lvl.ItemName,
		lvl.Unit,
		lvl.Quantity.String(),
		lvl.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// WriteStockCSV streams the stock register as CSV.
func WriteStockCSV(w io.Writer, levels []StockLevel) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(stockColumns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, lvl := range levels {
		if err := cw.Write(stockRow(lvl)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStockXLSX renders the stock register as a single-sheet workbook
// with a styled, frozen header row.
func WriteStockXLSX(levels []StockLevel) (io.Reader, error) {
	const sheet = "Stock"
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range stockColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	for rowIdx, lvl := range levels {
		for colIdx, val := range stockRow(lvl) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if colIdx == 3 {
				qty, _ := lvl.Quantity.Float64()
				f.SetCellValue(sheet, cell, qty)
				continue
			}
			f.SetCellValue(sheet, cell, val)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return &buf, nil
}

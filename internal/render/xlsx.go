package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/loadsheet-reader/internal/loadsheet"
)

// SheetName is the worksheet holding the record
const SheetName = "Loadsheet"

// XLSX renders the record as a two-column bordered grid, label then value,
// one row per entry and no header row.
type XLSX struct{}

func (XLSX) Name() string      { return "xlsx" }
func (XLSX) Extension() string { return "xlsx" }
func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render implements Renderer
func (XLSX) Render(w io.Writer, record loadsheet.TypedRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	style, err := f.NewStyle(&excelize.Style{
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}

	for i, entry := range record {
		row := i + 1
		label, _ := excelize.CoordinatesToCellName(1, row)
		value, _ := excelize.CoordinatesToCellName(2, row)

		if err := f.SetCellValue(SheetName, label, entry.Label); err != nil {
			return fmt.Errorf("xlsx cell %s: %w", label, err)
		}
		var v any = entry.Value.String()
		if entry.Value.IsInt() {
			v = entry.Value.Int64()
		}
		if err := f.SetCellValue(SheetName, value, v); err != nil {
			return fmt.Errorf("xlsx cell %s: %w", value, err)
		}
	}

	if len(record) > 0 {
		last, _ := excelize.CoordinatesToCellName(2, len(record))
		if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
			return fmt.Errorf("xlsx style: %w", err)
		}
	}
	_ = f.SetColWidth(SheetName, "A", "A", 18) // labels
	_ = f.SetColWidth(SheetName, "B", "B", 22) // values

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

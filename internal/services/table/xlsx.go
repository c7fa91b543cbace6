// -----------------------------------------------------------------------
// XLSX Writer - persists detected tables as a workbook, one sheet per
// table, in detection order
// -----------------------------------------------------------------------

package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ternarybob/folio/internal/models"
)

// WriteWorkbook writes one sheet per detected table to path. Sheets are
// named "Table N" in detection order, matching the metadata record order.
// A detection pass with no tables still produces a workbook with a single
// empty sheet.
func WriteWorkbook(tables []models.DetectedTable, path string) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if len(tables) == 0 {
		if err := wb.SetSheetName("Sheet1", "No Tables"); err != nil {
			return models.WrapError(models.KindConversion, err, "failed to prepare empty workbook")
		}
		if err := wb.SaveAs(path); err != nil {
			return models.WrapError(models.KindConversion, err, "failed to write spreadsheet")
		}
		return nil
	}

	for i, table := range tables {
		sheet := fmt.Sprintf("Table %d", i+1)
		if i == 0 {
			if err := wb.SetSheetName("Sheet1", sheet); err != nil {
				return models.WrapError(models.KindConversion, err, "failed to name sheet %q", sheet)
			}
		} else {
			if _, err := wb.NewSheet(sheet); err != nil {
				return models.WrapError(models.KindConversion, err, "failed to create sheet %q", sheet)
			}
		}

		for r, row := range table.Cells {
			for c, value := range row {
				if value == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return models.WrapError(models.KindConversion, err, "invalid cell coordinates %d,%d", r, c)
				}
				if err := wb.SetCellValue(sheet, cell, value); err != nil {
					return models.WrapError(models.KindConversion, err, "failed to write cell %s on %q", cell, sheet)
				}
			}
		}
	}

	if err := wb.SaveAs(path); err != nil {
		return models.WrapError(models.KindConversion, err, "failed to write spreadsheet")
	}
	return nil
}

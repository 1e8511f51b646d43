package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
)

const sheetName = "Idea History"

// Exporter writes the structuring history as a spreadsheet for the intake
// team's reviews.
type Exporter struct{}

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Write(entries []domain.HistoryEntry, w io.Writer) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create export sheet: %w", err)
	}
	f.SetActiveSheet(sheet)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	headers := []string{"ID", "Created", "Category", "Raw Idea", "Final Document"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for row, entry := range entries {
		values := []any{
			entry.ID,
			entry.CreatedAt.Format("2006-01-02 15:04"),
			entry.CategoryTag,
			entry.RawText,
			entry.FinalDocument,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("write entry cell: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Package report renders the monthly sales workbook.
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Adnan1921/radnja-tracker/internal/core"
	"github.com/Adnan1921/radnja-tracker/internal/stats"
)

// Filename returns the download name for a monthly workbook.
func Filename(year, month int) string {
	return fmt.Sprintf("prodaja_%04d-%02d.xlsx", year, month)
}

// MonthlyWorkbook renders the sales of one month into an xlsx file with two
// sheets: the sale rows and the per-day totals.
func MonthlyWorkbook(sales []core.Sale, summary stats.MonthSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	salesSheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(salesSheet, "Prodaja"); err != nil {
		return nil, fmt.Errorf("rename sales sheet: %w", err)
	}
	salesSheet = "Prodaja"

	header := []interface{}{
		"Datum",
		"Vrijeme",
		"Artikal",
		"Količina",
		"Cijena (KM)",
		"Ukupno (KM)",
		"Plaćanje",
		"Prodavač",
	}
	if err := f.SetSheetRow(salesSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, s := range sales {
		excelRow := []interface{}{
			s.Date,
			s.Time,
			fmt.Sprintf("%s %s", s.ItemIcon, s.ItemName),
			s.Quantity,
			s.UnitPrice.KM(),
			s.Total.KM(),
			string(s.PaymentMethod),
			s.RecordedBy,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("compute cell: %w", err)
		}
		if err := f.SetSheetRow(salesSheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("write sale row: %w", err)
		}
		row++
	}

	if err := writeDailySheet(f, summary); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeDailySheet(f *excelize.File, summary stats.MonthSummary) error {
	const sheet = "Po danima"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create daily sheet: %w", err)
	}

	header := []interface{}{"Datum", "Broj prodaja", "Komada", "Ukupno (KM)"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write daily header: %w", err)
	}

	row := 2
	for _, day := range summary.Days {
		excelRow := []interface{}{day.Date, day.Count, day.TotalQuantity, day.Total.KM()}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("compute cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return fmt.Errorf("write daily row: %w", err)
		}
		row++
	}

	totals := []interface{}{"Ukupno", summary.Count, summary.TotalQuantity, summary.Total.KM()}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("compute cell: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &totals); err != nil {
		return fmt.Errorf("write totals row: %w", err)
	}
	return nil
}

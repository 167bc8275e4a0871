package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"terapis/internal/core"
)

const (
	sheetSummary = "Ringkasan"
	sheetMonthly = "Bulanan"
)

// XLSXRenderer writes a workbook with a summary sheet and a monthly sheet.
type XLSXRenderer struct{}

func (XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXRenderer) Extension() string { return "xlsx" }

func (XLSXRenderer) Render(w io.Writer, s Summary) error {
	t := Labels(s.Locale)

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"7832C8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return fmt.Errorf("create money style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("create title style: %w", err)
	}

	set := func(sheet string, col, row int, v any, style int) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
		if style != 0 {
			return f.SetCellStyle(sheet, cell, cell, style)
		}
		return nil
	}

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	// Header block
	writes := []struct {
		col, row int
		v        any
		style    int
	}{
		{1, 1, s.Title, titleStyle},
		{1, 2, t.ExportDate, 0},
		{2, 2, core.FormatDate(core.DateOf(s.ExportedAt), s.Locale), 0},
		{1, 3, t.Period, 0},
		{2, 3, s.DateRange, 0},
		{1, 4, t.TotalNominal, 0},
		{2, 4, s.TotalNominal.Float64(), moneyStyle},
		{1, 5, t.TotalCommission, 0},
		{2, 5, s.TotalCommission.Float64(), moneyStyle},
	}
	for _, wr := range writes {
		if err := set(sheetSummary, wr.col, wr.row, wr.v, wr.style); err != nil {
			return fmt.Errorf("write summary header: %w", err)
		}
	}

	const tableRow = 7
	for i, h := range []string{t.Therapist, t.Nominal, t.Commission, t.Transactions} {
		if err := set(sheetSummary, i+1, tableRow, h, headerStyle); err != nil {
			return fmt.Errorf("write table header: %w", err)
		}
	}
	for n, r := range s.Rows {
		row := tableRow + 1 + n
		for i, v := range []any{r.Therapist, r.Nominal.Float64(), r.Commission.Float64(), r.Count} {
			style := 0
			if i == 1 || i == 2 {
				style = moneyStyle
			}
			if err := set(sheetSummary, i+1, row, v, style); err != nil {
				return fmt.Errorf("write therapist row: %w", err)
			}
		}
	}
	if err := f.SetColWidth(sheetSummary, "A", "D", 22); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if _, err := f.NewSheet(sheetMonthly); err != nil {
		return fmt.Errorf("create monthly sheet: %w", err)
	}
	for i, h := range []string{t.Month, "Key", t.Nominal, t.Commission} {
		if err := set(sheetMonthly, i+1, 1, h, headerStyle); err != nil {
			return fmt.Errorf("write monthly header: %w", err)
		}
	}
	for n, m := range s.Months {
		for i, v := range []any{m.Label, m.Key, m.Nominal.Float64(), m.Commission.Float64()} {
			style := 0
			if i >= 2 {
				style = moneyStyle
			}
			if err := set(sheetMonthly, i+1, n+2, v, style); err != nil {
				return fmt.Errorf("write monthly row: %w", err)
			}
		}
	}
	if err := f.SetColWidth(sheetMonthly, "A", "D", 20); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetPanes(sheetMonthly, &excelize.Panes{Freeze: true, Split: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze monthly header: %w", err)
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

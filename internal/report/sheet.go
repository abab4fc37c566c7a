package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetNameThreads = "threads"

// SaveSheet writes the per-thread counters to a spreadsheet, one row per
// thread in report order followed by a totals row.
func SaveSheet(res *Result, path string) (err error) {
	sheet := excelize.NewFile()
	defer func() {
		if cerr := sheet.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := sheet.SetSheetName("Sheet1", sheetNameThreads); err != nil {
		return err
	}

	header := []interface{}{"Thread", "Command", "Format", "Tests", "Assertions", "Failures", "Errors", "Skips", "Downloaded"}
	if err := sheet.SetSheetRow(sheetNameThreads, "A1", &header); err != nil {
		return err
	}

	rowN := 2
	for _, t := range res.Threads {
		row := []interface{}{
			t.Number, t.CommandName, t.Format,
			t.Totals.Tests, t.Totals.Assertions, t.Totals.Failures, t.Totals.Errors, t.Totals.Skips,
			t.Downloaded,
		}
		if err := sheet.SetSheetRow(sheetNameThreads, fmt.Sprintf("A%d", rowN), &row); err != nil {
			return err
		}
		rowN += 1
	}

	totals := []interface{}{
		"total", "", "",
		res.Totals.Tests, res.Totals.Assertions, res.Totals.Failures, res.Totals.Errors, res.Totals.Skips,
	}
	if err := sheet.SetSheetRow(sheetNameThreads, fmt.Sprintf("A%d", rowN), &totals); err != nil {
		return err
	}

	if err := sheet.SaveAs(path); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

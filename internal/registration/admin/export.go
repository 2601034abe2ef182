package admin

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"regdesk/internal/registration/models"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const sheetName = "Registrations"

// ExportedMessage is the notice after a successful export.
func ExportedMessage(n int) string {
	return "Exported " + strconv.Itoa(n) + " record(s)."
}

// Filename is {idPrefix}_{epochMillis}.{ext}.
func Filename(idPrefix string, now time.Time, format string) string {
	return idPrefix + "_" + strconv.FormatInt(now.UnixMilli(), 10) + "." + format
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// CSV renders the export: an unquoted header line, then one line per record
// with every field quoted. Lines are joined by "\n" with no trailing newline.
func CSV(records []models.Record, columns []models.Column) string {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(Headers(columns), ","))
	for _, r := range records {
		fields := make([]string, 0, len(columns)+2)
		fields = append(fields, quote(r.RegistrationID.String()))
		for _, c := range columns {
			fields = append(fields, quote(c.Export(r)))
		}
		fields = append(fields, quote(models.FormatTimestamp(r.RegisteredAt)))
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

// XLSX renders the same grid as CSV into a single-sheet workbook.
func XLSX(records []models.Record, columns []models.Column) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, 0, len(columns)+2)
	for _, h := range Headers(columns) {
		header = append(header, h)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		row := make([]any, 0, len(columns)+2)
		row = append(row, r.RegistrationID.String())
		for _, c := range columns {
			row = append(row, c.Export(r))
		}
		row = append(row, models.FormatTimestamp(r.RegisteredAt))

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("locate row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

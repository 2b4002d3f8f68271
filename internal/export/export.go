// Package export writes employee and attendance lists as JSON, YAML or an
// Excel workbook.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/errors"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatXLSX}
}

// ParseFormat accepts a format name, case-insensitively. "yml" is YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", errors.New(errors.ErrCodeValidationFailed, fmt.Sprintf("unsupported export format %q", s)).
		WithSuggestion("Use one of: json, yaml, xlsx")
}

// FormatForPath guesses the format from a file extension. It returns
// false when the extension is not recognised.
func FormatForPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	return f, err == nil
}

// Table is the spreadsheet rendition of a dataset.
type Table struct {
	Sheet  string
	Header []string
	Rows   [][]string
}

func EmployeesTable(list []api.Employee) Table {
	t := Table{
		Sheet:  "Employees",
		Header: []string{"ID", "Name", "Email", "Role", "Department", "Position", "Phone", "Status"},
	}
	for _, e := range list {
		t.Rows = append(t.Rows, []string{
			e.ID, e.Name, e.Email, string(e.Role), e.Department, e.Position, e.Phone, e.DisplayStatus(),
		})
	}
	return t
}

func AttendanceTable(list []api.AttendanceRecord) Table {
	t := Table{
		Sheet:  "Attendance",
		Header: []string{"ID", "Employee", "Date", "Status", "Check In", "Check Out", "Notes"},
	}
	for _, r := range list {
		t.Rows = append(t.Rows, []string{
			r.ID, r.Employee.DisplayName(), api.FormatDate(r.Date), string(r.Status), r.CheckIn, r.CheckOut, r.Notes,
		})
	}
	return t
}

// Employees writes list to w in format.
func Employees(w io.Writer, format Format, list []api.Employee) error {
	return write(w, format, emptyIfNil(list), EmployeesTable(list))
}

// Attendance writes list to w in format.
func Attendance(w io.Writer, format Format, list []api.AttendanceRecord) error {
	return write(w, format, emptyIfNil(list), AttendanceTable(list))
}

func emptyIfNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

func write(w io.Writer, format Format, records any, table Table) error {
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(records)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(records); err == nil {
			err = enc.Close()
		}
	case FormatXLSX:
		err = WriteWorkbook(w, table)
	default:
		_, err = ParseFormat(string(format))
		return err
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, fmt.Sprintf("failed to write %s export", format), err)
	}
	return nil
}

// WriteWorkbook writes t as a single-sheet workbook with a bold, frozen
// header row.
func WriteWorkbook(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := t.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := setRow(f, sheet, 1, t.Header); err != nil {
		return err
	}
	if len(t.Header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(t.Header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return err
		}
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return err
		}
	}

	for i, row := range t.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

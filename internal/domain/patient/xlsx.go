package patient

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Patients"

var xlsxHeader = []string{
	"Hospital ID",
	"Name",
	"Date of Birth",
	"Gender",
	"Weight (kg)",
	"Height (cm)",
	"Department",
	"Notes",
	"Entry Date",
}

// ExportXLSX renders the patients scoped to entryDate (or all, when empty)
// as a spreadsheet whose layout round-trips through ImportXLSX.
func (s *Service) ExportXLSX(ctx context.Context, entryDate string) ([]byte, error) {
	patients, err := s.List(ctx, entryDate)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	for col, header := range xlsxHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i, p := range patients {
		row := []any{
			p.HospitalID, p.Name, p.DOB, p.Gender,
			floatOrEmpty(p.WeightKg), floatOrEmpty(p.HeightCm),
			p.Department, p.Notes, p.EntryDate,
		}
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	f.Close()
	return buf.Bytes(), nil
}

// ImportResult reports what an ImportXLSX call did. Rows that fail
// validation are skipped, not fatal, so a single bad line does not sink a
// whole worklist upload.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportXLSX reads a spreadsheet in the ExportXLSX layout and creates one
// patient per data row. When defaultEntryDate is non-empty it fills rows
// whose Entry Date cell is blank.
func (s *Service) ImportXLSX(ctx context.Context, r io.Reader, defaultEntryDate string) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := sheetName
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) < 2 {
		return &ImportResult{}, nil
	}

	res := &ImportResult{}
	// All inserts share one transaction; a storage failure rolls the whole
	// upload back, while per-row validation failures are only skipped.
	err = s.store.WithTx(ctx, func(ctx context.Context) error {
		for n, row := range rows[1:] {
			in, err := rowToInput(row, defaultEntryDate)
			if err != nil {
				res.Skipped++
				res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", n+2, err))
				continue
			}
			if _, err := s.Create(ctx, in); err != nil {
				return fmt.Errorf("row %d: %w", n+2, err)
			}
			res.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func rowToInput(row []string, defaultEntryDate string) (Input, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	in := Input{
		HospitalID: cell(0),
		Name:       cell(1),
		DOB:        cell(2),
		Gender:     cell(3),
		Department: cell(6),
		Notes:      cell(7),
		EntryDate:  cell(8),
	}
	if in.EntryDate == "" {
		in.EntryDate = defaultEntryDate
	}

	var err error
	if in.WeightKg, err = parseOptionalFloat(cell(4)); err != nil {
		return Input{}, fmt.Errorf("weight: %w", err)
	}
	if in.HeightCm, err = parseOptionalFloat(cell(5)); err != nil {
		return Input{}, fmt.Errorf("height: %w", err)
	}
	return in, in.validate()
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func floatOrEmpty(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

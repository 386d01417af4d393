package xlsx

import (
	"fmt"

	"github.com/okian/execdash/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Write saves tables to a new workbook at path, one worksheet per table in
// order. Names in order that are missing from tables are written as empty
// worksheets with no header.
func Write(path string, tables model.TableSet, order ...string) error {
	if len(order) == 0 {
		order = tables.Names()
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	keepDefault := false
	for i, name := range order {
		if name == defaultSheet {
			keepDefault = true
		}
		idx, err := f.NewSheet(name)
		if err != nil {
			return fmt.Errorf("create worksheet %q: %w", name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		t, ok := tables[name]
		if !ok {
			continue
		}
		if err := writeTable(f, name, t); err != nil {
			return err
		}
	}
	if !keepDefault && len(order) > 0 {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("drop default worksheet: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, t model.Table) error {
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header of %q: %w", sheet, err)
	}
	for r, row := range t.Rows() {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("address row %d of %q: %w", r+2, sheet, err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d of %q: %w", r+2, sheet, err)
		}
	}
	return nil
}

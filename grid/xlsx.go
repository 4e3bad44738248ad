package grid

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signadot/gridtree/ir"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads one sheet of a workbook into a Mem grid.  An empty sheet
// name selects the first sheet.  Cell types recorded in the workbook are
// kept: numbers and booleans become typed scalars, everything else strings.
func ReadXLSX(r io.Reader, sheet string) (*Mem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open workbook: %w", err)
	}
	defer f.Close()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", sheet, err)
	}
	m := NewMem()
	for r, row := range rows {
		for c, raw := range row {
			if raw == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheet, axis)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", axis, err)
			}
			m.put(r, c, xlsxScalar(typ, raw))
		}
	}
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, fmt.Errorf("could not read merged cells of %q: %w", sheet, err)
	}
	for _, mc := range merges {
		sc, sr, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			return nil, err
		}
		ec, _, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			return nil, err
		}
		// only the top row of a rectangular merge is a region here
		if err := m.MergeRegion(Region{Row: sr - 1, Col: sc - 1, Span: ec - sc + 1}); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func xlsxScalar(typ excelize.CellType, raw string) *ir.Node {
	switch typ {
	case excelize.CellTypeBool:
		return ir.FromBool(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return ir.FromInt(i)
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return ir.FromFloat(f)
		}
	}
	return ir.FromString(raw)
}

// XLSXWriter writes a grid into a single sheet of a new workbook.
type XLSXWriter struct {
	f       *excelize.File
	sheet   string
	written map[cellKey]bool
	regions regionIndex
}

func NewXLSXWriter(sheet string) (*XLSXWriter, error) {
	f := excelize.NewFile()
	if sheet == "" {
		sheet = "Sheet1"
	}
	if def := f.GetSheetList()[0]; def != sheet {
		if err := f.SetSheetName(def, sheet); err != nil {
			f.Close()
			return nil, err
		}
	}
	return &XLSXWriter{f: f, sheet: sheet, written: map[cellKey]bool{}}, nil
}

func (x *XLSXWriter) SetCell(row, col int, v *ir.Node) error {
	if err := checkScalar(row, col, v); err != nil {
		return err
	}
	k := cellKey{row, col}
	if x.written[k] {
		return fmt.Errorf("%w: (%d, %d)", ErrCellWritten, row, col)
	}
	x.written[k] = true
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return err
	}
	return x.f.SetCellValue(x.sheet, axis, xlsxValue(v))
}

func xlsxValue(v *ir.Node) any {
	if v == nil {
		return nil
	}
	switch v.Type {
	case ir.StringType:
		return v.String
	case ir.BoolType:
		return v.Bool
	case ir.NumberType:
		if v.Int64 != nil {
			return *v.Int64
		}
		if v.Float64 != nil {
			return *v.Float64
		}
		return v.Number
	default:
		// nulls have no cell representation
		return nil
	}
}

func (x *XLSXWriter) MergeRegion(r Region) error {
	if err := x.regions.add(r); err != nil {
		return err
	}
	if r.Span == 1 {
		return nil
	}
	start, err := excelize.CoordinatesToCellName(r.Col+1, r.Row+1)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(r.End(), r.Row+1)
	if err != nil {
		return err
	}
	return x.f.MergeCell(x.sheet, start, end)
}

// Write serializes the workbook.
func (x *XLSXWriter) Write(w io.Writer) error {
	return x.f.Write(w)
}

func (x *XLSXWriter) Close() error {
	return x.f.Close()
}

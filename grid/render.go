package grid

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/xuri/excelize/v2"
)

type renderOpts struct {
	format  func(row, col int, text string) string
	maxRows int
}

type RenderOption func(*renderOpts)

// RenderCells sets a hook decorating each non-empty cell text, typically
// with terminal colors.
func RenderCells(f func(row, col int, text string) string) RenderOption {
	return func(o *renderOpts) { o.format = f }
}

// RenderMaxRows limits the number of rows rendered; 0 means all.
func RenderMaxRows(n int) RenderOption {
	return func(o *renderOpts) { o.maxRows = n }
}

// Render draws the grid as a text table with spreadsheet style column
// letters and one-based row numbers.  Merged regions show their text in the
// first cell and leave the covered cells blank.
func Render(r Reader, opts ...RenderOption) string {
	o := &renderOpts{}
	for _, opt := range opts {
		opt(o)
	}
	nRows := r.RowCount()
	if o.maxRows > 0 {
		nRows = min(nRows, o.maxRows)
	}
	nCols := r.MaxColumn()
	headers := make([]string, nCols+1)
	for c := 0; c < nCols; c++ {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			name = strconv.Itoa(c + 1)
		}
		headers[c+1] = name
	}
	rows := make([][]string, nRows)
	for row := 0; row < nRows; row++ {
		cells := make([]string, nCols+1)
		cells[0] = strconv.Itoa(row + 1)
		for c := 0; c < nCols; c++ {
			v := r.Cell(row, c)
			if IsEmpty(v) {
				continue
			}
			text := v.Text()
			if o.format != nil {
				text = o.format(row, c, text)
			}
			cells[c+1] = text
		}
		rows[row] = cells
	}
	dim := lipgloss.NewStyle().Faint(true)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return cell.Inherit(dim)
			}
			return cell
		})
	return t.String()
}

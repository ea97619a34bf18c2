package terminal

import "strings"

// Grid is a rows x cols matrix of cells.
type Grid struct {
	rows, cols int
	lines      [][]Cell
}

func newGrid(rows, cols int, pen Cell) *Grid {
	g := &Grid{rows: rows, cols: cols, lines: make([][]Cell, rows)}
	for r := range g.lines {
		g.lines[r] = blankLine(cols, pen)
	}
	return g
}

func blankLine(cols int, pen Cell) []Cell {
	line := make([]Cell, cols)
	fillCells(line, blankCell(pen))
	return line
}

func fillCells(cells []Cell, c Cell) {
	for i := range cells {
		cells[i] = c
	}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Cell returns the cell at (row, col), or a blank cell when out of bounds.
func (g *Grid) Cell(row, col int) Cell {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return blankCell(Cell{})
	}
	return g.lines[row][col]
}

// Line returns a copy of a row.
func (g *Grid) Line(row int) []Cell {
	if row < 0 || row >= g.rows {
		return nil
	}
	out := make([]Cell, g.cols)
	copy(out, g.lines[row])
	return out
}

// Text returns the printable text of a row with trailing blanks removed.
func (g *Grid) Text(row int) string {
	if row < 0 || row >= g.rows {
		return ""
	}
	return cellsText(g.lines[row])
}

func cellsText(cells []Cell) string {
	var sb strings.Builder
	for _, c := range cells {
		if c.Continuation() {
			continue
		}
		if c.Rune == 0 {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteRune(c.Rune)
	}
	return strings.TrimRight(sb.String(), " ")
}

// resized copies the grid into a new one of the given size, aligned top-left,
// dropping the first skip rows.
func (g *Grid) resized(rows, cols, skip int, pen Cell) *Grid {
	out := newGrid(rows, cols, pen)
	for r := 0; r < rows && r+skip < g.rows; r++ {
		copy(out.lines[r], g.lines[r+skip])
		// A wide rune cut in half at the right edge becomes a blank.
		if cols > 0 && cols < g.cols && out.lines[r][cols-1].Width == 2 {
			out.lines[r][cols-1] = blankCell(pen)
		}
	}
	return out
}

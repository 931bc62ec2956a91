package models

import (
	"encoding/json"
	"fmt"
)

const (
	GridRows      = 3
	GridColumns   = 9
	NumbersPerRow = 5
	TicketNumbers = GridRows * NumbersPerRow

	MinNumber = 1
	MaxNumber = 90
)

// Blank marks a cell without a number
const Blank = 0

// Grid is the 3x9 ticket layout. Blank cells hold 0.
type Grid [GridRows][GridColumns]int

// Template marks the number-eligible cells of every generated ticket
var Template = [GridRows][GridColumns]bool{
	{true, false, true, true, false, true, false, true, false},
	{false, true, false, true, false, true, false, true, true},
	{true, false, true, false, true, false, true, false, true},
}

// ColumnRange returns the inclusive number range for a column
func ColumnRange(col int) (int, int) {
	switch {
	case col == 0:
		return 1, 9
	case col == GridColumns-1:
		return 80, 90
	default:
		return col * 10, col*10 + 9
	}
}

// Cell is a single numeric cell of a grid
type Cell struct {
	Row    int
	Col    int
	Number int
}

// Cells returns the numeric cells in row-major order
func (g Grid) Cells() []Cell {
	cells := make([]Cell, 0, TicketNumbers)
	for r := 0; r < GridRows; r++ {
		for c := 0; c < GridColumns; c++ {
			if g[r][c] != Blank {
				cells = append(cells, Cell{Row: r, Col: c, Number: g[r][c]})
			}
		}
	}
	return cells
}

// Numbers returns every number on the grid
func (g Grid) Numbers() []int {
	cells := g.Cells()
	numbers := make([]int, len(cells))
	for i, cell := range cells {
		numbers[i] = cell.Number
	}
	return numbers
}

// RowNumbers returns the numbers of a single row, left to right
func (g Grid) RowNumbers(row int) []int {
	var numbers []int
	for c := 0; c < GridColumns; c++ {
		if g[row][c] != Blank {
			numbers = append(numbers, g[row][c])
		}
	}
	return numbers
}

// ColumnNumbers returns the numbers of a single column, top to bottom
func (g Grid) ColumnNumbers(col int) []int {
	var numbers []int
	for r := 0; r < GridRows; r++ {
		if g[r][col] != Blank {
			numbers = append(numbers, g[r][col])
		}
	}
	return numbers
}

// Validate checks the structural ticket invariants
func (g Grid) Validate() error {
	seen := make(map[int]struct{}, TicketNumbers)

	for r := 0; r < GridRows; r++ {
		count := 0
		for c := 0; c < GridColumns; c++ {
			n := g[r][c]
			if n == Blank {
				continue
			}
			count++

			lo, hi := ColumnRange(c)
			if n < lo || n > hi {
				return fmt.Errorf("number %d at row %d column %d outside range %d-%d", n, r+1, c+1, lo, hi)
			}
			if _, dup := seen[n]; dup {
				return fmt.Errorf("duplicate number %d", n)
			}
			seen[n] = struct{}{}
		}
		if count != NumbersPerRow {
			return fmt.Errorf("row %d has %d numbers, expected %d", r+1, count, NumbersPerRow)
		}
	}

	for c := 0; c < GridColumns; c++ {
		column := g.ColumnNumbers(c)
		for i := 1; i < len(column); i++ {
			if column[i] <= column[i-1] {
				return fmt.Errorf("column %d is not ascending", c+1)
			}
		}
	}

	return nil
}

// MarshalJSON encodes the grid as rows of numbers with null blanks
func (g Grid) MarshalJSON() ([]byte, error) {
	rows := make([][]*int, GridRows)
	for r := 0; r < GridRows; r++ {
		rows[r] = make([]*int, GridColumns)
		for c := 0; c < GridColumns; c++ {
			if g[r][c] != Blank {
				n := g[r][c]
				rows[r][c] = &n
			}
		}
	}
	return json.Marshal(rows)
}

// UnmarshalJSON decodes rows of numbers with null blanks
func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows [][]*int
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("invalid grid: %w", err)
	}
	if len(rows) != GridRows {
		return fmt.Errorf("invalid grid: expected %d rows, got %d", GridRows, len(rows))
	}

	var grid Grid
	for r, row := range rows {
		if len(row) != GridColumns {
			return fmt.Errorf("invalid grid: row %d has %d cells, expected %d", r+1, len(row), GridColumns)
		}
		for c, cell := range row {
			if cell != nil {
				grid[r][c] = *cell
			}
		}
	}
	*g = grid
	return nil
}

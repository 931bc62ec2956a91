package service

import (
	"tambola/models"
)

const (
	doubleLineMinDraws    = 20
	fullColumnMinDraws    = 10
	cornersAdvisoryDraws  = 15
	quickSevenMatches     = 7
	quickFiveMatches      = 5
	rowProgressMinMatches = 3
)

// DrawnSet is the set of numbers drawn so far in a game
type DrawnSet map[int]struct{}

// NewDrawnSet builds a set from a draw sequence
func NewDrawnSet(numbers []int) DrawnSet {
	set := make(DrawnSet, len(numbers))
	for _, n := range numbers {
		set[n] = struct{}{}
	}
	return set
}

// Has reports whether n has been drawn
func (s DrawnSet) Has(n int) bool {
	_, ok := s[n]
	return ok
}

// Evaluation is the result of matching one ticket against the drawn numbers
type Evaluation struct {
	// Patterns holds the single reported pattern, or nothing
	Patterns []models.Pattern
	// Advisory holds informational patterns that never create a winner
	Advisory []models.Pattern
	Matched  int
}

// IsWinner reports whether the evaluation found a winning pattern
func (e *Evaluation) IsWinner() bool {
	return len(e.Patterns) > 0
}

// MatchPatterns evaluates a ticket grid against the drawn numbers and reports
// the highest priority pattern it satisfies. totalDrawn gates the patterns
// that only unlock later in a game. The grid is not validated here.
func MatchPatterns(grid models.Grid, drawn DrawnSet, totalDrawn int) *Evaluation {
	var (
		rowMatched, rowTotal [models.GridRows]int
		colMatched, colTotal [models.GridColumns]int
		matched, total       int
	)
	for _, cell := range grid.Cells() {
		total++
		rowTotal[cell.Row]++
		colTotal[cell.Col]++
		if drawn.Has(cell.Number) {
			matched++
			rowMatched[cell.Row]++
			colMatched[cell.Col]++
		}
	}

	var fullRows []int
	for r := 0; r < models.GridRows; r++ {
		if rowTotal[r] > 0 && rowMatched[r] == rowTotal[r] {
			fullRows = append(fullRows, r+1)
		}
	}

	cornersMatched := countMatchedCorners(grid, drawn)

	eval := &Evaluation{Matched: matched}
	report := func(p models.Pattern) {
		eval.Patterns = []models.Pattern{p}
	}

	switch {
	case total > 0 && matched == total:
		report(models.Pattern{Kind: models.PatternFullHouse, Matched: matched, Total: total})
	case totalDrawn >= doubleLineMinDraws && len(fullRows) >= 2:
		report(models.Pattern{Kind: models.PatternDoubleLine, Rows: fullRows})
	case len(fullRows) > 0:
		report(models.Pattern{Kind: models.PatternFullRow, Index: fullRows[0]})
	case cornersMatched == 4:
		report(models.Pattern{Kind: models.PatternFourCorners, Matched: 4, Total: 4})
	default:
		if col, ok := firstFullColumn(colMatched, colTotal, totalDrawn); ok {
			report(models.Pattern{Kind: models.PatternFullColumn, Index: col})
			break
		}
		switch {
		case matched >= quickSevenMatches:
			report(models.Pattern{Kind: models.PatternQuickSeven, Matched: matched})
		case matched >= quickFiveMatches:
			report(models.Pattern{Kind: models.PatternQuickFive, Matched: matched})
		default:
			// No row is full at this point
			for r := 0; r < models.GridRows; r++ {
				if rowMatched[r] >= rowProgressMinMatches {
					report(models.Pattern{
						Kind:    models.PatternRowProgress,
						Index:   r + 1,
						Matched: rowMatched[r],
						Total:   rowTotal[r],
					})
					break
				}
			}
		}
	}

	if cornersMatched == 3 && totalDrawn < cornersAdvisoryDraws {
		eval.Advisory = append(eval.Advisory, models.Pattern{Kind: models.PatternCorners, Matched: 3, Total: 4})
	}

	return eval
}

// Corners are the first and last numbers of the top and bottom rows
func countMatchedCorners(grid models.Grid, drawn DrawnSet) int {
	count := 0
	for _, r := range []int{0, models.GridRows - 1} {
		row := grid.RowNumbers(r)
		if len(row) == 0 {
			continue
		}
		if drawn.Has(row[0]) {
			count++
		}
		if len(row) > 1 && drawn.Has(row[len(row)-1]) {
			count++
		}
	}
	return count
}

func firstFullColumn(colMatched, colTotal [models.GridColumns]int, totalDrawn int) (int, bool) {
	if totalDrawn < fullColumnMinDraws {
		return 0, false
	}
	for c := 0; c < models.GridColumns; c++ {
		if colTotal[c] > 0 && colMatched[c] == colTotal[c] {
			return c + 1, true
		}
	}
	return 0, false
}

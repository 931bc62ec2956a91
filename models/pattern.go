package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PatternKind identifies a winning pattern. It also keys the reward table.
type PatternKind string

const (
	PatternFullHouse   PatternKind = "full_house"
	PatternDoubleLine  PatternKind = "double_line"
	PatternFullRow     PatternKind = "full_row"
	PatternFourCorners PatternKind = "four_corners"
	PatternFullColumn  PatternKind = "full_column"
	PatternQuickSeven  PatternKind = "quick_seven"
	PatternQuickFive   PatternKind = "quick_five"
	PatternRowProgress PatternKind = "row_progress"

	// PatternCorners is informational only and never recorded as a win
	PatternCorners PatternKind = "corners"

	// PatternSecondFullHouse only exists in the reward table
	PatternSecondFullHouse PatternKind = "second_full_house"
)

var patternPriority = map[PatternKind]int{
	PatternFullHouse:   1,
	PatternDoubleLine:  2,
	PatternFullRow:     3,
	PatternFourCorners: 4,
	PatternFullColumn:  5,
	PatternQuickSeven:  6,
	PatternQuickFive:   7,
	PatternRowProgress: 8,
}

// Priority returns the rank of a winning pattern, lower is better.
// Kinds that never win return 0.
func (k PatternKind) Priority() int {
	return patternPriority[k]
}

// IsRewardKind reports whether the kind may appear in the reward table
func (k PatternKind) IsRewardKind() bool {
	return k.Priority() > 0 || k == PatternSecondFullHouse
}

// Pattern is a matched pattern with the details needed to label it
type Pattern struct {
	Kind    PatternKind `json:"kind"`
	Index   int         `json:"index,omitempty"`
	Matched int         `json:"matched,omitempty"`
	Total   int         `json:"total,omitempty"`
	Rows    []int       `json:"rows,omitempty"`
}

// String returns the display label, e.g. "Full Row 1" or "Row 2 (3/5)"
func (p Pattern) String() string {
	switch p.Kind {
	case PatternFullHouse:
		return "Full House"
	case PatternSecondFullHouse:
		return "Second Full House"
	case PatternDoubleLine:
		rows := make([]string, len(p.Rows))
		for i, r := range p.Rows {
			rows[i] = fmt.Sprintf("%d", r)
		}
		return fmt.Sprintf("Double Line (Rows %s)", strings.Join(rows, "+"))
	case PatternFullRow:
		return fmt.Sprintf("Full Row %d", p.Index)
	case PatternFourCorners:
		return "Four Corners"
	case PatternFullColumn:
		return fmt.Sprintf("Full Column %d", p.Index)
	case PatternQuickSeven:
		return "Quick Seven"
	case PatternQuickFive:
		return "Quick Five"
	case PatternRowProgress:
		return fmt.Sprintf("Row %d (%d/%d)", p.Index, p.Matched, p.Total)
	case PatternCorners:
		return fmt.Sprintf("%d Corners", p.Matched)
	default:
		return string(p.Kind)
	}
}

// MarshalJSON adds the display label next to the structured fields
func (p Pattern) MarshalJSON() ([]byte, error) {
	type plain Pattern
	return json.Marshal(struct {
		plain
		Label string `json:"label"`
	}{plain: plain(p), Label: p.String()})
}

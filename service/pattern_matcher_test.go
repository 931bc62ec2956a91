package service

import (
	"testing"

	"tambola/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Corners are 1, 70, 5 and 85
func testGrid() models.Grid {
	return models.Grid{
		{1, 0, 20, 30, 0, 50, 0, 70, 0},
		{0, 10, 0, 35, 0, 55, 0, 75, 80},
		{5, 0, 25, 0, 40, 0, 60, 0, 85},
	}
}

func TestMatchPatterns(t *testing.T) {
	t.Parallel()

	grid := testGrid()
	row2 := []int{10, 35, 55, 75, 80}
	row3 := []int{5, 25, 40, 60, 85}

	tests := []struct {
		name       string
		drawn      []int
		totalDrawn int
		expected   string
		kind       models.PatternKind
	}{
		{
			name:       "full house",
			drawn:      grid.Numbers(),
			totalDrawn: 15,
			expected:   "Full House",
			kind:       models.PatternFullHouse,
		},
		{
			name:       "two full rows before double line unlocks",
			drawn:      append(append([]int{}, row2...), row3...),
			totalDrawn: 19,
			expected:   "Full Row 2",
			kind:       models.PatternFullRow,
		},
		{
			name:       "double line once unlocked",
			drawn:      append(append([]int{}, row2...), row3...),
			totalDrawn: 20,
			expected:   "Double Line (Rows 2+3)",
			kind:       models.PatternDoubleLine,
		},
		{
			name:       "four corners without a draw gate",
			drawn:      []int{1, 70, 5, 85},
			totalDrawn: 4,
			expected:   "Four Corners",
			kind:       models.PatternFourCorners,
		},
		{
			name:       "full column after ten draws",
			drawn:      []int{10, 2, 3, 4, 6, 7, 8, 9, 11, 12},
			totalDrawn: 10,
			expected:   "Full Column 2",
			kind:       models.PatternFullColumn,
		},
		{
			name:       "quick seven",
			drawn:      []int{1, 20, 30, 50, 10, 35, 55},
			totalDrawn: 9,
			expected:   "Quick Seven",
			kind:       models.PatternQuickSeven,
		},
		{
			name:       "quick five",
			drawn:      []int{1, 20, 30, 10, 35},
			totalDrawn: 5,
			expected:   "Quick Five",
			kind:       models.PatternQuickFive,
		},
		{
			name:       "row progress",
			drawn:      []int{1, 20, 30},
			totalDrawn: 3,
			expected:   "Row 1 (3/5)",
			kind:       models.PatternRowProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			eval := MatchPatterns(grid, NewDrawnSet(tt.drawn), tt.totalDrawn)
			require.True(t, eval.IsWinner())
			require.Len(t, eval.Patterns, 1)
			assert.Equal(t, tt.kind, eval.Patterns[0].Kind)
			assert.Equal(t, tt.expected, eval.Patterns[0].String())
		})
	}
}

func TestMatchPatterns_NoWin(t *testing.T) {
	t.Parallel()

	t.Run("too few matches", func(t *testing.T) {
		eval := MatchPatterns(testGrid(), NewDrawnSet([]int{1, 20}), 2)
		assert.False(t, eval.IsWinner())
		assert.Equal(t, 2, eval.Matched)
	})

	t.Run("full column before ten draws", func(t *testing.T) {
		eval := MatchPatterns(testGrid(), NewDrawnSet([]int{10}), 9)
		assert.False(t, eval.IsWinner())
	})

	t.Run("empty grid never wins full house", func(t *testing.T) {
		eval := MatchPatterns(models.Grid{}, NewDrawnSet([]int{1, 2, 3}), 3)
		assert.False(t, eval.IsWinner())
	})
}

func TestMatchPatterns_FullRowScenario(t *testing.T) {
	t.Parallel()

	// Positions are not validated, only the numbers matter
	grid := models.Grid{
		{1, 5, 12, 23, 34, 0, 0, 0, 0},
		{0, 0, 0, 0, 45, 56, 67, 78, 88},
		{2, 13, 24, 0, 0, 0, 68, 79, 89},
	}

	eval := MatchPatterns(grid, NewDrawnSet([]int{1, 5, 12, 23, 34}), 5)
	require.Len(t, eval.Patterns, 1)
	assert.Equal(t, "Full Row 1", eval.Patterns[0].String())
}

func TestMatchPatterns_CornersAdvisory(t *testing.T) {
	t.Parallel()

	t.Run("three corners early", func(t *testing.T) {
		eval := MatchPatterns(testGrid(), NewDrawnSet([]int{1, 70, 5}), 3)
		assert.False(t, eval.IsWinner())
		require.Len(t, eval.Advisory, 1)
		assert.Equal(t, models.PatternCorners, eval.Advisory[0].Kind)
		assert.Equal(t, "3 Corners", eval.Advisory[0].String())
	})

	t.Run("no advisory from fifteen draws", func(t *testing.T) {
		eval := MatchPatterns(testGrid(), NewDrawnSet([]int{1, 70, 5}), 15)
		assert.Empty(t, eval.Advisory)
		// Column 1 holds only 1 and 5
		require.Len(t, eval.Patterns, 1)
		assert.Equal(t, "Full Column 1", eval.Patterns[0].String())
	})

	t.Run("advisory accompanies a win", func(t *testing.T) {
		eval := MatchPatterns(testGrid(), NewDrawnSet([]int{1, 70, 5, 20, 30}), 5)
		require.Len(t, eval.Patterns, 1)
		assert.Equal(t, models.PatternQuickFive, eval.Patterns[0].Kind)
		assert.Len(t, eval.Advisory, 1)
	})
}

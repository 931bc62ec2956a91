// Standalone pattern frequency analysis for the tambola engine.
// Plays many random games with the same grid generator and matcher the
// service uses and reports when each pattern is first called.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"tambola/models"
	"tambola/service"
)

type patternStats struct {
	games    int
	sumDraw  int
	minDraw  int
	maxDraw  int
	sumSqDrw float64
}

func (s *patternStats) add(draw int) {
	if s.games == 0 || draw < s.minDraw {
		s.minDraw = draw
	}
	if draw > s.maxDraw {
		s.maxDraw = draw
	}
	s.games++
	s.sumDraw += draw
	s.sumSqDrw += float64(draw * draw)
}

func (s *patternStats) mean() float64 {
	return float64(s.sumDraw) / float64(s.games)
}

func (s *patternStats) stddev() float64 {
	m := s.mean()
	return math.Sqrt(s.sumSqDrw/float64(s.games) - m*m)
}

func main() {
	games := flag.Int("games", 2000, "number of simulated games")
	tickets := flag.Int("tickets", 50, "tickets per game")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	if *games < 1 || *tickets < 1 {
		fmt.Fprintln(os.Stderr, "games and tickets must be positive")
		os.Exit(2)
	}

	fmt.Printf("=== Tambola Pattern Analysis ===\n")
	fmt.Printf("Games: %d | Tickets per game: %d | Seed: %d\n\n", *games, *tickets, *seed)

	rng := rand.New(rand.NewSource(*seed))
	stats := make(map[models.PatternKind]*patternStats)
	var fullHouseWinners []int

	for g := 0; g < *games; g++ {
		first, houses := simulateGame(rng, *tickets)
		for kind, draw := range first {
			if stats[kind] == nil {
				stats[kind] = &patternStats{}
			}
			stats[kind].add(draw)
		}
		fullHouseWinners = append(fullHouseWinners, houses)
	}

	printReport(stats, *games)
	printFullHouseSpread(fullHouseWinners)
}

// simulateGame draws every number once and records the draw at which each
// pattern kind is first reported on any ticket, plus how many tickets
// complete a Full House on the same draw as the first one.
func simulateGame(rng *rand.Rand, ticketCount int) (map[models.PatternKind]int, int) {
	grids := make([]models.Grid, ticketCount)
	for i := range grids {
		grids[i] = service.GenerateGrid(rng)
	}

	order := rng.Perm(models.MaxNumber)
	drawn := make(service.DrawnSet, models.MaxNumber)
	won := make([]bool, ticketCount)
	first := make(map[models.PatternKind]int)

	for i, idx := range order {
		drawn[idx+1] = struct{}{}
		total := i + 1
		houses := 0

		for t, grid := range grids {
			if won[t] {
				continue
			}
			eval := service.MatchPatterns(grid, drawn, total)
			if !eval.IsWinner() {
				continue
			}
			won[t] = true
			kind := eval.Patterns[0].Kind
			if _, seen := first[kind]; !seen {
				first[kind] = total
			}
			if kind == models.PatternFullHouse {
				houses++
			}
		}

		if houses > 0 {
			return first, houses
		}
	}
	return first, 0
}

func printReport(stats map[models.PatternKind]*patternStats, games int) {
	kinds := make([]models.PatternKind, 0, len(stats))
	for kind := range stats {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return kinds[i].Priority() < kinds[j].Priority()
	})

	fmt.Printf("%-14s %8s %8s %8s %6s %6s\n", "Pattern", "Seen%", "Mean", "StdDev", "Min", "Max")
	for _, kind := range kinds {
		s := stats[kind]
		fmt.Printf("%-14s %7.1f%% %8.2f %8.2f %6d %6d\n",
			kind, 100*float64(s.games)/float64(games), s.mean(), s.stddev(), s.minDraw, s.maxDraw)
	}
}

func printFullHouseSpread(houses []int) {
	counts := make(map[int]int)
	for _, h := range houses {
		counts[h]++
	}
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	fmt.Println("\n=== Full House winners on the deciding draw ===")
	for _, k := range keys {
		fmt.Printf("%d winner(s): %d games\n", k, counts[k])
	}
}

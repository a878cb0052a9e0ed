// Package schedule turns a ranked list of available players into courts and
// per-court game rotations. It is pure computation over its input snapshot;
// persisting the output is the caller's job.
package schedule

import (
	"errors"
	"fmt"
	"sort"
)

// MinPlayers is the smallest pool that can be scheduled at all.
const MinPlayers = 4

var (
	ErrInsufficientPlayers = errors.New("schedule: need at least 4 available players")

	// ErrUnschedulableRemainder marks a trailing group of 1-3 players, for
	// which no rotation template exists. Generation fails as a whole rather
	// than silently dropping the group.
	ErrUnschedulableRemainder = errors.New("schedule: remainder group has no rotation template")
)

// Player is the generator's entire contract with the roster and availability
// subsystems: an already-filtered, already-confirmed (id, name, rank) triple.
// Rank is used only for ordering; nil sorts last.
type Player struct {
	ID   int
	Name string
	Rank *int
}

// Game is one rotation entry on a court: two pairs and whoever sits it out.
type Game struct {
	Pair1   [2]Player `json:"pair1"`
	Pair2   [2]Player `json:"pair2"`
	Sitting []Player  `json:"sitting,omitempty"`
}

// Court is a contiguous rank-sorted slice of the pool plus its fixed game
// rotation.
type Court struct {
	Number  int      `json:"number"`
	Players []Player `json:"players"`
	Games   []Game   `json:"games"`
}

// rotation indexes into a court's player slice. Templates are fixed per
// group size; they are what guarantees partner and opponent variety.
type rotation struct {
	pair1   [2]int
	pair2   [2]int
	sitting []int
}

// Rotation templates keyed by group size.
//
//   - 4: the three possible pairings of four players, once each.
//   - 5: five games; every player sits exactly once and partners every other
//     player exactly once.
//   - 6: five games with two sitting per game.
//   - 7: six games with three sitting per game.
//
// Group sizes 1-3 have no template and are rejected. Sizes 8+ are handled
// separately (see rotationsFor): only the first four rotate, an acknowledged
// simplification rather than a fair schedule.
var rotationTemplates = map[int][]rotation{
	4: {
		{pair1: [2]int{0, 3}, pair2: [2]int{1, 2}},
		{pair1: [2]int{0, 2}, pair2: [2]int{1, 3}},
		{pair1: [2]int{0, 1}, pair2: [2]int{2, 3}},
	},
	5: {
		{pair1: [2]int{0, 1}, pair2: [2]int{2, 3}, sitting: []int{4}},
		{pair1: [2]int{0, 2}, pair2: [2]int{1, 4}, sitting: []int{3}},
		{pair1: [2]int{0, 3}, pair2: [2]int{2, 4}, sitting: []int{1}},
		{pair1: [2]int{0, 4}, pair2: [2]int{1, 3}, sitting: []int{2}},
		{pair1: [2]int{1, 2}, pair2: [2]int{3, 4}, sitting: []int{0}},
	},
	6: {
		{pair1: [2]int{0, 1}, pair2: [2]int{2, 3}, sitting: []int{4, 5}},
		{pair1: [2]int{0, 2}, pair2: [2]int{4, 5}, sitting: []int{1, 3}},
		{pair1: [2]int{0, 4}, pair2: [2]int{1, 3}, sitting: []int{2, 5}},
		{pair1: [2]int{0, 5}, pair2: [2]int{2, 4}, sitting: []int{1, 3}},
		{pair1: [2]int{1, 2}, pair2: [2]int{3, 5}, sitting: []int{0, 4}},
	},
	7: {
		{pair1: [2]int{0, 1}, pair2: [2]int{2, 3}, sitting: []int{4, 5, 6}},
		{pair1: [2]int{0, 4}, pair2: [2]int{1, 5}, sitting: []int{2, 3, 6}},
		{pair1: [2]int{0, 6}, pair2: [2]int{2, 4}, sitting: []int{1, 3, 5}},
		{pair1: [2]int{1, 2}, pair2: [2]int{3, 6}, sitting: []int{0, 4, 5}},
		{pair1: [2]int{1, 4}, pair2: [2]int{3, 5}, sitting: []int{0, 2, 6}},
		{pair1: [2]int{2, 5}, pair2: [2]int{4, 6}, sitting: []int{0, 1, 3}},
	},
}

// Generate partitions the pool into courts and attaches each court's fixed
// rotation. The input slice is not modified.
func Generate(players []Player) ([]Court, error) {
	n := len(players)
	if n < MinPlayers {
		return nil, fmt.Errorf("%w: found %d", ErrInsufficientPlayers, n)
	}

	sorted := make([]Player, n)
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].Rank, sorted[j].Rank
		switch {
		case ri == nil && rj == nil:
			return sorted[i].Name < sorted[j].Name
		case ri == nil:
			return false
		case rj == nil:
			return true
		case *ri != *rj:
			return *ri < *rj
		default:
			return sorted[i].Name < sorted[j].Name
		}
	})

	sizes := groupSizes(n)

	courts := make([]Court, 0, len(sizes))
	offset := 0
	for i, size := range sizes {
		group := sorted[offset : offset+size]
		offset += size

		games, err := GamesForGroup(group)
		if err != nil {
			return nil, fmt.Errorf("court %d (%d players): %w", i+1, size, err)
		}
		courts = append(courts, Court{
			Number:  i + 1,
			Players: group,
			Games:   games,
		})
	}
	return courts, nil
}

// groupSizes implements the partitioning policy for n >= 4.
func groupSizes(n int) []int {
	switch {
	case n%4 == 0:
		sizes := make([]int, n/4)
		for i := range sizes {
			sizes[i] = 4
		}
		return sizes
	case n >= 5 && n <= 7:
		return []int{n}
	case n == 9:
		return []int{4, 5}
	case n == 10:
		return []int{5, 5}
	case n == 13:
		return []int{4, 4, 5}
	case n == 14:
		return []int{5, 5, 4}
	default:
		groups := n / 4
		sizes := make([]int, groups, groups+1)
		for i := range sizes {
			sizes[i] = 4
		}
		if rem := n % 4; rem > 0 {
			sizes = append(sizes, rem)
		}
		return sizes
	}
}

// GamesForGroup expands one group's rotation template over its players. A
// group of 1-3 players has no template and is an error; 8+ players get the
// explicit first-four-only fallback.
func GamesForGroup(group []Player) ([]Game, error) {
	size := len(group)

	if size >= 8 {
		return firstFourGames(group), nil
	}

	template, ok := rotationTemplates[size]
	if !ok {
		return nil, ErrUnschedulableRemainder
	}

	games := make([]Game, 0, len(template))
	for _, rot := range template {
		g := Game{
			Pair1: [2]Player{group[rot.pair1[0]], group[rot.pair1[1]]},
			Pair2: [2]Player{group[rot.pair2[0]], group[rot.pair2[1]]},
		}
		for _, s := range rot.sitting {
			g.Sitting = append(g.Sitting, group[s])
		}
		games = append(games, g)
	}
	return games, nil
}

// firstFourGames is the 8+ fallback: the top four play the standard
// three-game rotation and everyone else sits all of them.
func firstFourGames(group []Player) []Game {
	pool := group[4:]
	games := make([]Game, 0, 3)
	for _, rot := range rotationTemplates[4] {
		g := Game{
			Pair1:   [2]Player{group[rot.pair1[0]], group[rot.pair1[1]]},
			Pair2:   [2]Player{group[rot.pair2[0]], group[rot.pair2[1]]},
			Sitting: append([]Player(nil), pool...),
		}
		games = append(games, g)
	}
	return games
}

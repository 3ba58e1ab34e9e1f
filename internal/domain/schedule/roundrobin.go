package schedule

// Pair is a single head-to-head pairing inside one week.
type Pair struct {
	Player1 string
	Player2 string
}

// byeSentinel pads an odd roster to an even rotation length. Pairs touching
// the sentinel are dropped, giving one player per week a bye.
const byeSentinel = ""

// WeekPairs returns the circle-method pairings for a 1-indexed week.
// members must be ordered by join time; the ordering is what makes the
// rotation deterministic across calls and processes.
//
// Position 0 stays fixed; the remaining positions rotate one step to the
// right per elapsed week (the last element moves to position 1). Pairing
// then folds the circle: position i meets position n-1-i.
func WeekPairs(members []string, week int) []Pair {
	if len(members) < 2 || week < 1 {
		return nil
	}

	rotation := append([]string(nil), members...)
	if len(rotation)%2 == 1 {
		rotation = append(rotation, byeSentinel)
	}
	n := len(rotation)

	for i := 1; i < week; i++ {
		last := rotation[n-1]
		copy(rotation[2:], rotation[1:n-1])
		rotation[1] = last
	}

	pairs := make([]Pair, 0, n/2)
	for i := 0; i < n/2; i++ {
		p1, p2 := rotation[i], rotation[n-1-i]
		if p1 == byeSentinel || p2 == byeSentinel {
			continue
		}
		pairs = append(pairs, Pair{Player1: p1, Player2: p2})
	}

	return pairs
}

// HasDuplicatePlayer reports whether any player appears more than once in
// the given pairs. A true result after generation is an invariant violation.
func HasDuplicatePlayer(pairs []Pair) bool {
	seen := make(map[string]struct{}, len(pairs)*2)
	for _, pair := range pairs {
		if _, ok := seen[pair.Player1]; ok {
			return true
		}
		seen[pair.Player1] = struct{}{}
		if _, ok := seen[pair.Player2]; ok {
			return true
		}
		seen[pair.Player2] = struct{}{}
	}
	return false
}

package schedule

import (
	"fmt"
	"testing"
)

func TestWeekPairs_FourPlayersGolden(t *testing.T) {
	members := []string{"A", "B", "C", "D"}

	want := map[int][]Pair{
		1: {{Player1: "A", Player2: "D"}, {Player1: "B", Player2: "C"}},
		2: {{Player1: "A", Player2: "C"}, {Player1: "D", Player2: "B"}},
		3: {{Player1: "A", Player2: "B"}, {Player1: "C", Player2: "D"}},
	}

	for week, expected := range want {
		got := WeekPairs(members, week)
		if len(got) != len(expected) {
			t.Fatalf("week %d: expected %d pairs, got %d", week, len(expected), len(got))
		}
		for i := range expected {
			if got[i] != expected[i] {
				t.Fatalf("week %d pair %d: got %+v want %+v", week, i, got[i], expected[i])
			}
		}
	}
}

func TestWeekPairs_OddRosterGetsBye(t *testing.T) {
	members := []string{"A", "B", "C", "D", "E"}

	byes := make(map[string]int)
	for week := 1; week <= 5; week++ {
		pairs := WeekPairs(members, week)
		if len(pairs) != 2 {
			t.Fatalf("week %d: expected 2 pairs with a bye, got %d", week, len(pairs))
		}
		playing := make(map[string]bool)
		for _, pair := range pairs {
			playing[pair.Player1] = true
			playing[pair.Player2] = true
		}
		for _, m := range members {
			if !playing[m] {
				byes[m]++
			}
		}
	}

	// Over a full 5-week cycle every player sits out exactly once.
	for _, m := range members {
		if byes[m] != 1 {
			t.Fatalf("player %s: expected exactly 1 bye, got %d", m, byes[m])
		}
	}
}

func TestWeekPairs_NoDuplicatesAnyWeek(t *testing.T) {
	for size := 2; size <= 14; size++ {
		members := make([]string, 0, size)
		for i := 0; i < size; i++ {
			members = append(members, fmt.Sprintf("m%02d", i))
		}
		for week := 1; week <= 12; week++ {
			pairs := WeekPairs(members, week)
			if HasDuplicatePlayer(pairs) {
				t.Fatalf("size=%d week=%d produced a duplicate player: %+v", size, week, pairs)
			}
			for _, pair := range pairs {
				if pair.Player1 == pair.Player2 {
					t.Fatalf("size=%d week=%d produced a self pairing: %+v", size, week, pair)
				}
			}
		}
	}
}

func TestWeekPairs_DeterministicAcrossCalls(t *testing.T) {
	members := []string{"A", "B", "C", "D", "E", "F"}
	for week := 1; week <= 6; week++ {
		first := WeekPairs(members, week)
		second := WeekPairs(members, week)
		if len(first) != len(second) {
			t.Fatalf("week %d: nondeterministic pair count", week)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("week %d: nondeterministic pairing at %d", week, i)
			}
		}
	}
}

func TestWeekPairs_InputUntouched(t *testing.T) {
	members := []string{"A", "B", "C"}
	_ = WeekPairs(members, 3)
	if members[0] != "A" || members[1] != "B" || members[2] != "C" {
		t.Fatalf("input slice was mutated: %v", members)
	}
}

func TestHasDuplicatePlayer(t *testing.T) {
	if HasDuplicatePlayer([]Pair{{Player1: "A", Player2: "B"}, {Player1: "C", Player2: "D"}}) {
		t.Fatal("expected no duplicates")
	}
	if !HasDuplicatePlayer([]Pair{{Player1: "A", Player2: "B"}, {Player1: "B", Player2: "C"}}) {
		t.Fatal("expected duplicate to be detected")
	}
}

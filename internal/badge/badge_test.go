package badge

import (
	"testing"

	"github.com/iliyamo/takedown-tracker/internal/model"
)

func TestEarnedNothingForFreshUser(t *testing.T) {
	if got := Earned(model.User{}); len(got) != 0 {
		t.Fatalf("fresh user earned %d badges, want 0", len(got))
	}
}

func TestEarnedThresholdsAreInclusive(t *testing.T) {
	u := model.User{MissionsCompleted: 1}
	got := Earned(u)
	if len(got) != 1 || got[0].ID != "first_mission" {
		t.Fatalf("user with 1 mission earned %+v, want exactly first_mission", got)
	}
}

func TestEarnedAccumulatesAcrossMetrics(t *testing.T) {
	u := model.User{MissionsCompleted: 10, ReportsSubmitted: 5, RankPoints: 500}
	got := Earned(u)

	want := map[string]bool{
		"first_mission": true, "hunter_10": true,
		"reporter_5": true, "points_500": true,
	}
	if len(got) != len(want) {
		t.Fatalf("earned %d badges, want %d: %+v", len(got), len(want), got)
	}
	for _, b := range got {
		if !want[b.ID] {
			t.Fatalf("unexpected badge %q", b.ID)
		}
	}
}

func TestEarnedPreservesTableOrder(t *testing.T) {
	u := model.User{MissionsCompleted: 100, ReportsSubmitted: 25, RankPoints: 5000}
	got := Earned(u)
	if len(got) != len(Table) {
		t.Fatalf("maxed user earned %d of %d badges", len(got), len(Table))
	}
	for i, b := range got {
		if b.ID != Table[i].ID {
			t.Fatalf("badge %d = %q, want table order %q", i, b.ID, Table[i].ID)
		}
	}
}

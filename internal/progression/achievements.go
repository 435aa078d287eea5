package progression

import (
	"time"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/state"
	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/tables"
)

// achievementChecks maps each achievement id to its predicate. Every id
// in tables.Achievements must have an entry here.
var achievementChecks = map[string]func(*state.GameState) bool{
	"first-breath": func(s *state.GameState) bool { return s.TimesMeditated >= 1 },
	"qi-novice":    func(s *state.GameState) bool { return s.TotalQiGenerated >= 1_000 },
	"qi-ocean":     func(s *state.GameState) bool { return s.TotalQiGenerated >= 1_000_000 },
	"first-ascent": func(s *state.GameState) bool { return s.SuccessfulBreakthroughs >= 1 },
	"tribulation-scars": func(s *state.GameState) bool {
		return s.FailedBreakthroughs >= 10
	},
	"foundation-laid": func(s *state.GameState) bool {
		return tables.RealmOrdinal(s.Realm) >= tables.RealmOrdinal(tables.RealmFoundation)
	},
	"core-bearer": func(s *state.GameState) bool {
		return tables.RealmOrdinal(s.Realm) >= tables.RealmOrdinal(tables.RealmCore)
	},
	"dedicated": func(s *state.GameState) bool { return s.TimeCultivating >= 24*3600 },
}

// UpdateAchievements evaluates every achievement predicate once. Newly
// satisfied, not-yet-earned achievements are marked earned and stamped
// with now. Earned achievements are write-once; nothing ever unsets them.
//
// When nothing changed, the input state is returned unmodified so callers
// can detect "no change" with a pointer compare.
func UpdateAchievements(s *state.GameState, now time.Time) (*state.GameState, []string) {
	var earned []string
	for _, id := range tables.AchievementOrder {
		if s.Achievements[id].Earned {
			continue
		}
		check, ok := achievementChecks[id]
		if !ok {
			continue
		}
		if check(s) {
			earned = append(earned, id)
		}
	}
	if len(earned) == 0 {
		return s, nil
	}

	next := s.Clone()
	for _, id := range earned {
		at := now
		next.Achievements[id] = state.AchievementState{Earned: true, EarnedAt: &at}
	}
	return next, earned
}

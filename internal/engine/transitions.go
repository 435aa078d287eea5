package engine

import (
	"time"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/progression"
	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/state"
	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/tables"
)

// The transition functions below are the pure core of the engine: each
// takes the committed state and returns the replacement state plus the
// events to emit. They never touch the clock, the store, or the sinks,
// so tests can drive them directly.
//
// A returned state pointer equal to the input means "no change".

func tickTransition(s *state.GameState, elapsed float64, now time.Time) (*state.GameState, []Event) {
	if elapsed <= 0 {
		return s, nil
	}
	next := s.Clone()

	gained := next.QiRate * elapsed
	next.Qi += gained
	next.CultivationProgress += gained * 0.1 // progress fills at 10% of raw gain
	next.ClampQi()

	next.TotalQiGenerated += gained
	if next.Qi > next.HighestQi {
		next.HighestQi = next.Qi
	}
	next.TimeCultivating += elapsed

	next, earned := progression.UpdateAchievements(next, now)
	events := make([]Event, 0, len(earned))
	for _, id := range earned {
		events = append(events, Event{Type: EventAchievementUnlocked, ID: id, At: now})
	}
	return next, events
}

func meditateTransition(s *state.GameState, baseManual float64) (*state.GameState, []Event) {
	next := s.Clone()
	amount := progression.ManualAmount(next, baseManual)

	next.Qi += amount
	next.ClampQi()
	next.TimesMeditated++
	next.TotalQiGenerated += amount
	if next.Qi > next.HighestQi {
		next.HighestQi = next.Qi
	}
	return next, nil
}

func buyUpgradeTransition(s *state.GameState, id string) (*state.GameState, []Event) {
	def, ok := tables.Upgrades[id]
	if !ok || !progression.UpgradeAvailable(id, s) {
		return s, []Event{{Type: EventInsufficientQi, Action: "buy_upgrade", ID: id, Reason: "unavailable"}}
	}
	cur := s.Upgrades[id]
	if s.Qi < cur.Cost {
		return s, []Event{{Type: EventInsufficientQi, Action: "buy_upgrade", ID: id, Reason: "not enough qi"}}
	}

	next := s.Clone()
	next.Qi -= cur.Cost
	cur.Level++
	cur.Cost = progression.CostOfLevel(def.BaseCost, def.CostMultiplier, cur.Level)
	next.Upgrades[id] = cur

	switch def.Effect {
	case tables.EffectQiRate:
		next.QiRate += def.Magnitude
	case tables.EffectCapacity, tables.EffectManual, tables.EffectBreakthrough:
		// capacity applies at the next breakthrough; manual and
		// breakthrough bonuses are derived from levels on demand
	}

	return next, []Event{{Type: EventUpgradePurchased, ID: id, Level: cur.Level}}
}

func upgradeSkillTransition(s *state.GameState, id string) (*state.GameState, []Event) {
	def, ok := tables.Skills[id]
	if !ok || !progression.SkillAvailable(id, s) {
		return s, []Event{{Type: EventInsufficientQi, Action: "upgrade_skill", ID: id, Reason: "unavailable"}}
	}
	cur := s.Skills[id]
	if s.Qi < cur.Cost {
		return s, []Event{{Type: EventInsufficientQi, Action: "upgrade_skill", ID: id, Reason: "not enough qi"}}
	}

	next := s.Clone()
	next.Qi -= cur.Cost
	cur.Level++
	cur.Unlocked = true
	cur.Effect += def.EffectPerLevel
	cur.Cost = progression.CostOfLevel(def.BaseCost, def.CostMultiplier, cur.Level)
	next.Skills[id] = cur

	if def.Effect == tables.EffectQiRate {
		next.QiRate += def.EffectPerLevel
	}

	return next, []Event{{Type: EventSkillUpgraded, ID: id, Level: cur.Level}}
}

// breakthroughTransition consumes the full qi reserve win or lose. The
// roll is injected so tests can force either outcome.
func breakthroughTransition(s *state.GameState, roll, baseChance float64) (*state.GameState, []Event) {
	if s.Qi < s.MaxQi {
		return s, []Event{{Type: EventInsufficientQi, Action: "breakthrough", Reason: "reserve not full"}}
	}

	chance := progression.BreakthroughChance(s, baseChance)
	success := roll <= chance

	next := s.Clone()
	next.Qi -= next.MaxQi

	if success {
		next.CultivationLevel++
		next.SuccessfulBreakthroughs++
		next.CultivationProgress = 0

		if next.RealmStage < tables.MaxStage {
			next.RealmStage++
		} else if next.Realm != tables.FinalRealm() {
			next.Realm = tables.NextRealm(next.Realm)
			next.RealmStage = 1
		}
		// at the final realm's final stage the level still climbs but
		// realm and stage stay pinned

		next.MaxQi = progression.NextLevelRequirement(next) * progression.CapacityMultiplier(next)
	} else {
		next.FailedBreakthroughs++
		next.CultivationProgress /= 2
	}
	next.ClampQi()

	return next, []Event{{
		Type:    EventBreakthrough,
		Success: &success,
		Realm:   next.Realm,
		Stage:   next.RealmStage,
		Level:   next.CultivationLevel,
	}}
}

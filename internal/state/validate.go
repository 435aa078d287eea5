package state

import (
	"fmt"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/tables"
)

// Validate is the structural schema check applied at the persistence
// boundary. In-memory action handlers never call it; they assume a valid
// state and rely on clamping.
func (s *GameState) Validate() error {
	if s == nil {
		return fmt.Errorf("nil game state")
	}
	if s.MaxQi <= 0 {
		return fmt.Errorf("max_qi must be positive, got %v", s.MaxQi)
	}
	if s.Qi < 0 || s.Qi > s.MaxQi {
		return fmt.Errorf("qi %v outside [0, %v]", s.Qi, s.MaxQi)
	}
	if s.QiRate < 0 {
		return fmt.Errorf("qi_rate must be non-negative, got %v", s.QiRate)
	}
	if s.CultivationLevel < 1 {
		return fmt.Errorf("cultivation_level must be >= 1, got %d", s.CultivationLevel)
	}
	if s.CultivationProgress < 0 || s.CultivationProgress > s.MaxQi {
		return fmt.Errorf("cultivation_progress %v outside [0, %v]", s.CultivationProgress, s.MaxQi)
	}
	if !tables.ValidRealm(s.Realm) {
		return fmt.Errorf("unknown realm %q", s.Realm)
	}
	if s.RealmStage < 1 || s.RealmStage > tables.MaxStage {
		return fmt.Errorf("realm_stage %d outside [1, %d]", s.RealmStage, tables.MaxStage)
	}
	for id, u := range s.Upgrades {
		def, ok := tables.Upgrades[id]
		if !ok {
			return fmt.Errorf("unknown upgrade %q", id)
		}
		if u.Level < 0 {
			return fmt.Errorf("upgrade %q level %d is negative", id, u.Level)
		}
		if def.MaxLevel > 0 && u.Level > def.MaxLevel {
			return fmt.Errorf("upgrade %q level %d exceeds max %d", id, u.Level, def.MaxLevel)
		}
	}
	for id, sk := range s.Skills {
		def, ok := tables.Skills[id]
		if !ok {
			return fmt.Errorf("unknown skill %q", id)
		}
		if sk.Level < 0 || sk.Level > def.MaxLevel {
			return fmt.Errorf("skill %q level %d outside [0, %d]", id, sk.Level, def.MaxLevel)
		}
	}
	for id := range s.Achievements {
		if _, ok := tables.Achievements[id]; !ok {
			return fmt.Errorf("unknown achievement %q", id)
		}
	}
	if s.TotalQiGenerated < 0 || s.TimesMeditated < 0 ||
		s.SuccessfulBreakthroughs < 0 || s.FailedBreakthroughs < 0 ||
		s.HighestQi < 0 || s.TimeCultivating < 0 {
		return fmt.Errorf("lifetime counters must be non-negative")
	}
	return nil
}

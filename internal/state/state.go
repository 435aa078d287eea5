package state

import (
	"time"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/tables"
)

// UpgradeState tracks one upgrade's purchased level and the precomputed
// cost of the next level.
type UpgradeState struct {
	Level int     `json:"level"`
	Cost  float64 `json:"cost"`
}

// SkillState tracks one skill's level, the precomputed next cost, and the
// accumulated effect (EffectPerLevel summed over levels).
type SkillState struct {
	Level    int     `json:"level"`
	MaxLevel int     `json:"max_level"`
	Unlocked bool    `json:"unlocked"`
	Cost     float64 `json:"cost"`
	Effect   float64 `json:"effect"`
}

// AchievementState is write-once: Earned never flips back to false and
// EarnedAt is stamped exactly once.
type AchievementState struct {
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

// CombatStats are the combat-facing derived stats. The core engine carries
// them through saves but never recalculates them; equipment operations own
// that.
type CombatStats struct {
	Health      float64 `json:"health"`
	MaxHealth   float64 `json:"max_health"`
	Attack      float64 `json:"attack"`
	Defense     float64 `json:"defense"`
	CritChance  float64 `json:"crit_chance"`
	DodgeChance float64 `json:"dodge_chance"`
}

// GameState is the root aggregate for one player's progress. The engine
// owns the live value; everyone else sees snapshots.
type GameState struct {
	Qi                  float64      `json:"qi"`
	QiRate              float64      `json:"qi_rate"`
	MaxQi               float64      `json:"max_qi"`
	CultivationLevel    int          `json:"cultivation_level"`
	CultivationProgress float64      `json:"cultivation_progress"`
	Realm               tables.Realm `json:"realm"`
	RealmStage          int          `json:"realm_stage"`

	Upgrades     map[string]UpgradeState     `json:"upgrades"`
	Skills       map[string]SkillState       `json:"skills"`
	Achievements map[string]AchievementState `json:"achievements"`

	Combat CombatStats `json:"combat"`

	TotalQiGenerated        float64 `json:"total_qi_generated"`
	TimesMeditated          int64   `json:"times_meditated"`
	SuccessfulBreakthroughs int64   `json:"successful_breakthroughs"`
	FailedBreakthroughs     int64   `json:"failed_breakthroughs"`
	HighestQi               float64 `json:"highest_qi"`
	TimeCultivating         float64 `json:"time_cultivating"` // seconds

	LastSaved time.Time `json:"last_saved"`
}

// New builds the state for a fresh character: Qi Condensation stage 1,
// empty reserve, all table content at level zero with next costs
// precomputed.
func New() *GameState {
	s := &GameState{
		Qi:               0,
		QiRate:           1,
		MaxQi:            tables.BaseStorage,
		CultivationLevel: 1,
		Realm:            tables.RealmSequence[0],
		RealmStage:       1,
		Upgrades:         map[string]UpgradeState{},
		Skills:           map[string]SkillState{},
		Achievements:     map[string]AchievementState{},
		Combat: CombatStats{
			Health:      100,
			MaxHealth:   100,
			Attack:      10,
			Defense:     5,
			CritChance:  5,
			DodgeChance: 5,
		},
	}
	s.Normalize()
	return s
}

// Normalize fills in map entries for any table content the state does not
// know about yet. Saves written before a new upgrade/skill/achievement
// shipped still load cleanly; existing entries are left alone.
func (s *GameState) Normalize() {
	if s.Upgrades == nil {
		s.Upgrades = map[string]UpgradeState{}
	}
	if s.Skills == nil {
		s.Skills = map[string]SkillState{}
	}
	if s.Achievements == nil {
		s.Achievements = map[string]AchievementState{}
	}
	for id, def := range tables.Upgrades {
		if _, ok := s.Upgrades[id]; !ok {
			s.Upgrades[id] = UpgradeState{Level: 0, Cost: def.BaseCost}
		}
	}
	for id, def := range tables.Skills {
		if _, ok := s.Skills[id]; !ok {
			s.Skills[id] = SkillState{Level: 0, MaxLevel: def.MaxLevel, Cost: def.BaseCost}
		}
	}
	for id := range tables.Achievements {
		if _, ok := s.Achievements[id]; !ok {
			s.Achievements[id] = AchievementState{}
		}
	}
}

// Clone returns a deep copy. Action handlers mutate the clone and commit
// it wholesale, so readers of the previous value are never surprised.
func (s *GameState) Clone() *GameState {
	out := *s
	out.Upgrades = make(map[string]UpgradeState, len(s.Upgrades))
	for k, v := range s.Upgrades {
		out.Upgrades[k] = v
	}
	out.Skills = make(map[string]SkillState, len(s.Skills))
	for k, v := range s.Skills {
		out.Skills[k] = v
	}
	out.Achievements = make(map[string]AchievementState, len(s.Achievements))
	for k, v := range s.Achievements {
		if v.EarnedAt != nil {
			t := *v.EarnedAt
			v.EarnedAt = &t
		}
		out.Achievements[k] = v
	}
	return &out
}

// ClampQi pulls Qi and CultivationProgress back inside [0, MaxQi].
// Transient overshoot during a tick is allowed; at rest the invariant
// holds.
func (s *GameState) ClampQi() {
	if s.Qi < 0 {
		s.Qi = 0
	}
	if s.Qi > s.MaxQi {
		s.Qi = s.MaxQi
	}
	if s.CultivationProgress < 0 {
		s.CultivationProgress = 0
	}
	if s.CultivationProgress > s.MaxQi {
		s.CultivationProgress = s.MaxQi
	}
}

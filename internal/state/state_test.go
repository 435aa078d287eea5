package state

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/tables"
)

func TestNew_StartsAtQiRealmStageOne(t *testing.T) {
	s := New()

	assert.Equal(t, tables.RealmQi, s.Realm)
	assert.Equal(t, 1, s.RealmStage)
	assert.Equal(t, 1, s.CultivationLevel)
	assert.Equal(t, tables.BaseStorage, s.MaxQi)
	assert.Equal(t, 0.0, s.Qi)

	// every table entry gets a seeded map entry with the base cost
	for id, def := range tables.Upgrades {
		u, ok := s.Upgrades[id]
		require.True(t, ok, "upgrade %s missing", id)
		assert.Equal(t, 0, u.Level)
		assert.Equal(t, def.BaseCost, u.Cost)
	}
	for id := range tables.Skills {
		_, ok := s.Skills[id]
		assert.True(t, ok, "skill %s missing", id)
	}
	for id := range tables.Achievements {
		a, ok := s.Achievements[id]
		require.True(t, ok, "achievement %s missing", id)
		assert.False(t, a.Earned)
	}
}

func TestNormalize_BackfillsOlderSaves(t *testing.T) {
	// a blob written before skills/achievements shipped
	blob := []byte(`{
		"qi": 42,
		"qi_rate": 2,
		"max_qi": 150,
		"cultivation_level": 2,
		"cultivation_progress": 10,
		"realm": "qi",
		"realm_stage": 3
	}`)

	var s GameState
	require.NoError(t, json.Unmarshal(blob, &s))
	s.Normalize()

	assert.Equal(t, 42.0, s.Qi)
	assert.NotEmpty(t, s.Upgrades)
	assert.NotEmpty(t, s.Skills)
	assert.NotEmpty(t, s.Achievements)
	assert.NoError(t, s.Validate())
}

func TestNormalize_LeavesExistingEntriesAlone(t *testing.T) {
	s := New()
	u := s.Upgrades["meridian"]
	u.Level = 7
	u.Cost = 999
	s.Upgrades["meridian"] = u

	s.Normalize()
	assert.Equal(t, 7, s.Upgrades["meridian"].Level)
	assert.Equal(t, 999.0, s.Upgrades["meridian"].Cost)
}

func TestClone_IsDeep(t *testing.T) {
	s := New()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.Achievements["first-breath"] = AchievementState{Earned: true, EarnedAt: &at}

	c := s.Clone()
	u := c.Upgrades["meridian"]
	u.Level = 5
	c.Upgrades["meridian"] = u
	*c.Achievements["first-breath"].EarnedAt = at.Add(time.Hour)

	assert.Equal(t, 0, s.Upgrades["meridian"].Level)
	assert.Equal(t, at, *s.Achievements["first-breath"].EarnedAt)
}

func TestValidate_RejectsBadStates(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*GameState)
	}{
		{"negative qi", func(s *GameState) { s.Qi = -1 }},
		{"qi above capacity", func(s *GameState) { s.Qi = s.MaxQi + 1 }},
		{"zero capacity", func(s *GameState) { s.MaxQi = 0 }},
		{"negative rate", func(s *GameState) { s.QiRate = -0.5 }},
		{"level zero", func(s *GameState) { s.CultivationLevel = 0 }},
		{"unknown realm", func(s *GameState) { s.Realm = "celestial" }},
		{"stage zero", func(s *GameState) { s.RealmStage = 0 }},
		{"stage overflow", func(s *GameState) { s.RealmStage = tables.MaxStage + 1 }},
		{"unknown upgrade", func(s *GameState) { s.Upgrades["typo"] = UpgradeState{} }},
		{"unknown skill", func(s *GameState) { s.Skills["typo"] = SkillState{} }},
		{"unknown achievement", func(s *GameState) { s.Achievements["typo"] = AchievementState{} }},
		{"negative counter", func(s *GameState) { s.FailedBreakthroughs = -1 }},
		{"skill over cap", func(s *GameState) {
			sk := s.Skills["turtle-breathing"]
			sk.Level = tables.Skills["turtle-breathing"].MaxLevel + 1
			s.Skills["turtle-breathing"] = sk
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New()
			tc.mutate(s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestValidate_AcceptsFreshState(t *testing.T) {
	assert.NoError(t, New().Validate())
}

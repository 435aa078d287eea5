package engine

import (
	"time"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/tables"
)

// EventType names the notifications the engine emits toward whatever is
// presenting the game. Events carry no required response.
type EventType string

const (
	EventOfflineProgress     EventType = "offline_progress_granted"
	EventAchievementUnlocked EventType = "achievement_unlocked"
	EventUpgradePurchased    EventType = "upgrade_purchased"
	EventSkillUpgraded       EventType = "skill_upgraded"
	EventInsufficientQi      EventType = "insufficient_qi"
	EventBreakthrough        EventType = "breakthrough_result"
	EventSaveSucceeded       EventType = "save_succeeded"
	EventSaveFailed          EventType = "save_failed"
	EventGameLoaded          EventType = "game_loaded"
	EventGameReset           EventType = "game_reset"
)

// Event is a single notification. Only the fields relevant to the type
// are populated.
type Event struct {
	Type   EventType `json:"type"`
	ID     string    `json:"id,omitempty"`     // upgrade/skill/achievement id
	Level  int       `json:"level,omitempty"`  // new level after a purchase
	Amount float64   `json:"amount,omitempty"` // qi amounts
	Action string    `json:"action,omitempty"` // which action hit a precondition

	// Success is set only on breakthrough results; other events leave it
	// off the wire entirely.
	Success *bool        `json:"success,omitempty"`
	Realm   tables.Realm `json:"realm,omitempty"`
	Stage   int          `json:"stage,omitempty"`
	At      time.Time    `json:"at,omitempty"`
	Reason  string       `json:"reason,omitempty"`
}

// Sink receives engine events synchronously, in emit order.
type Sink func(Event)

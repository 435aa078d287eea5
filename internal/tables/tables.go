package tables

// Realm represents one tier of the cultivation ladder
type Realm string

const (
	RealmQi         Realm = "qi"
	RealmFoundation Realm = "foundation"
	RealmCore       Realm = "core"
	RealmNascent    Realm = "nascent"
	RealmSpirit     Realm = "spirit"
	RealmAscension  Realm = "ascension"
)

// RealmSequence is the fixed ordinal progression. All "realm X at least
// realm Y" comparisons go through ordinal position, never string compare.
var RealmSequence = []Realm{
	RealmQi,
	RealmFoundation,
	RealmCore,
	RealmNascent,
	RealmSpirit,
	RealmAscension,
}

// MaxStage is the number of stages inside each realm before a breakthrough
// rolls over into the next realm.
const MaxStage = 9

// BaseStorage seeds the qi threshold curve at cultivation level 1.
const BaseStorage = 100.0

// StorageGrowth is the per-level multiplier on the qi threshold.
const StorageGrowth = 1.5

// EffectKind dispatches what an upgrade or skill level actually does
type EffectKind string

const (
	EffectQiRate       EffectKind = "qi_rate"      // adds to passive qi per second
	EffectCapacity     EffectKind = "capacity"     // multiplies max qi after breakthroughs
	EffectManual       EffectKind = "manual"       // adds to qi gained per meditation
	EffectBreakthrough EffectKind = "breakthrough" // adds to breakthrough chance
)

// Upgrade is a purchasable, repeatable improvement
type Upgrade struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	BaseCost       float64    `json:"base_cost"`
	CostMultiplier float64    `json:"cost_multiplier"`
	MaxLevel       int        `json:"max_level"` // 0 = uncapped
	Effect         EffectKind `json:"effect"`
	Magnitude      float64    `json:"magnitude"` // per-level effect size
	RequiredRealm  Realm      `json:"required_realm,omitempty"`
}

// Skill is a technique with a level cap and realm/stage gating
type Skill struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	BaseCost       float64    `json:"base_cost"`
	CostMultiplier float64    `json:"cost_multiplier"`
	MaxLevel       int        `json:"max_level"`
	Effect         EffectKind `json:"effect"`
	EffectPerLevel float64    `json:"effect_per_level"`
	RequiredRealm  Realm      `json:"required_realm,omitempty"`
	RequiredStage  int        `json:"required_stage,omitempty"`
}

// Achievement pairs an id with a human label; predicates live in the
// progression package since they read GameState.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var Upgrades = map[string]Upgrade{
	"meridian": {
		ID:             "meridian",
		Name:           "Meridian Opening",
		Description:    "Widen your meridians to draw in ambient qi faster.",
		BaseCost:       10,
		CostMultiplier: 1.15,
		Effect:         EffectQiRate,
		Magnitude:      0.5,
	},
	"dantian": {
		ID:             "dantian",
		Name:           "Dantian Expansion",
		Description:    "Expand your dantian, raising qi capacity after each breakthrough.",
		BaseCost:       50,
		CostMultiplier: 1.5,
		MaxLevel:       20,
		Effect:         EffectCapacity,
		Magnitude:      0.1,
	},
	"insight": {
		ID:             "insight",
		Name:           "Spiritual Insight",
		Description:    "Sharpen each meditation session's intake.",
		BaseCost:       25,
		CostMultiplier: 1.25,
		Effect:         EffectManual,
		Magnitude:      1,
	},
	"dao-heart": {
		ID:             "dao-heart",
		Name:           "Dao Heart Tempering",
		Description:    "Steady the mind against breakthrough tribulations.",
		BaseCost:       200,
		CostMultiplier: 2,
		MaxLevel:       10,
		Effect:         EffectBreakthrough,
		Magnitude:      2,
		RequiredRealm:  RealmFoundation,
	},
}

// UpgradeOrder keeps listings deterministic.
var UpgradeOrder = []string{"meridian", "dantian", "insight", "dao-heart"}

var Skills = map[string]Skill{
	"turtle-breathing": {
		ID:             "turtle-breathing",
		Name:           "Turtle Breathing Art",
		Description:    "A foundational breathing cycle that slowly gathers qi.",
		BaseCost:       15,
		CostMultiplier: 1.2,
		MaxLevel:       50,
		Effect:         EffectQiRate,
		EffectPerLevel: 0.2,
	},
	"iron-body": {
		ID:             "iron-body",
		Name:           "Iron Body Tempering",
		Description:    "Temper flesh and bone; each session extracts more qi.",
		BaseCost:       40,
		CostMultiplier: 1.3,
		MaxLevel:       30,
		Effect:         EffectManual,
		EffectPerLevel: 0.5,
		RequiredRealm:  RealmQi,
		RequiredStage:  3,
	},
	"heaven-gazing": {
		ID:             "heaven-gazing",
		Name:           "Heaven Gazing Sutra",
		Description:    "Glimpse the heavens to steel yourself for tribulation.",
		BaseCost:       500,
		CostMultiplier: 1.8,
		MaxLevel:       15,
		Effect:         EffectBreakthrough,
		EffectPerLevel: 1,
		RequiredRealm:  RealmCore,
	},
}

var SkillOrder = []string{"turtle-breathing", "iron-body", "heaven-gazing"}

var Achievements = map[string]Achievement{
	"first-breath":      {ID: "first-breath", Name: "First Breath", Description: "Meditate for the first time."},
	"qi-novice":         {ID: "qi-novice", Name: "Qi Novice", Description: "Generate 1,000 total qi."},
	"qi-ocean":          {ID: "qi-ocean", Name: "Ocean of Qi", Description: "Generate 1,000,000 total qi."},
	"first-ascent":      {ID: "first-ascent", Name: "First Ascent", Description: "Succeed at a breakthrough."},
	"tribulation-scars": {ID: "tribulation-scars", Name: "Tribulation Scars", Description: "Fail ten breakthroughs."},
	"foundation-laid":   {ID: "foundation-laid", Name: "Foundation Laid", Description: "Reach the Foundation realm."},
	"core-bearer":       {ID: "core-bearer", Name: "Core Bearer", Description: "Reach the Core realm."},
	"dedicated":         {ID: "dedicated", Name: "Dedicated Cultivator", Description: "Cultivate for 24 hours of real time."},
}

var AchievementOrder = []string{
	"first-breath",
	"qi-novice",
	"qi-ocean",
	"first-ascent",
	"tribulation-scars",
	"foundation-laid",
	"core-bearer",
	"dedicated",
}

// RealmOrdinal returns the index of a realm in the fixed sequence, or -1
// for an unknown realm.
func RealmOrdinal(r Realm) int {
	for i, candidate := range RealmSequence {
		if candidate == r {
			return i
		}
	}
	return -1
}

// FinalRealm is the last tier; breakthroughs never advance past it.
func FinalRealm() Realm {
	return RealmSequence[len(RealmSequence)-1]
}

// NextRealm returns the realm after r, or r itself when r is the final
// tier or unknown.
func NextRealm(r Realm) Realm {
	ord := RealmOrdinal(r)
	if ord < 0 || ord >= len(RealmSequence)-1 {
		return r
	}
	return RealmSequence[ord+1]
}

// ValidRealm reports whether r is a member of the realm sequence.
func ValidRealm(r Realm) bool {
	return RealmOrdinal(r) >= 0
}

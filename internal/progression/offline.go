package progression

import (
	"math"
	"time"
)

const (
	// DefaultOfflineCap limits how much away time counts toward offline
	// gains.
	DefaultOfflineCap = 12 * time.Hour

	// offlineDecayWindow is the span over which efficiency decays
	// linearly from 1 toward the floor. Because elapsed time is capped
	// before the decay applies, a 12h cap makes the practical floor
	// 0.5, not the nominal 0.1.
	offlineDecayWindow = 24 * time.Hour

	DefaultOfflineDecayFloor = 0.1
)

// OfflinePolicy tunes the offline reconciler. The zero value is not
// usable; start from DefaultOfflinePolicy and override from config.
type OfflinePolicy struct {
	Cap        time.Duration
	DecayFloor float64
}

func DefaultOfflinePolicy() OfflinePolicy {
	return OfflinePolicy{Cap: DefaultOfflineCap, DecayFloor: DefaultOfflineDecayFloor}
}

// Progress computes the qi accrued between two timestamps while the
// session was not running. Cap elapsed at the policy cap, then apply a
// linear efficiency decay, then cap the result at capacity. Equal
// timestamps yield zero; elapsed is taken as an absolute value so clock
// skew never produces a negative gain.
func (p OfflinePolicy) Progress(last, now time.Time, ratePerSecond, capacity float64) float64 {
	elapsed := now.Sub(last)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	if elapsed > p.Cap {
		elapsed = p.Cap
	}
	seconds := elapsed.Seconds()

	efficiency := 1 - seconds/offlineDecayWindow.Seconds()
	if efficiency < p.DecayFloor {
		efficiency = p.DecayFloor
	}

	gained := seconds * ratePerSecond * efficiency
	return math.Min(gained, capacity)
}

// OfflineProgress applies the default policy.
func OfflineProgress(last, now time.Time, ratePerSecond, capacity float64) float64 {
	return DefaultOfflinePolicy().Progress(last, now, ratePerSecond, capacity)
}

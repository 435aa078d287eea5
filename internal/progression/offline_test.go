package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return parsed
}

func TestOfflineProgress_SixHours(t *testing.T) {
	last := ts(t, "2024-01-01T00:00:00Z")
	now := ts(t, "2024-01-01T06:00:00Z")

	// 21600s elapsed, efficiency 1 - 21600/86400 = 0.75
	got := OfflineProgress(last, now, 1, 100000)
	assert.InDelta(t, 16200.0, got, 1e-9)
}

func TestOfflineProgress_ZeroElapsed(t *testing.T) {
	at := ts(t, "2024-01-01T00:00:00Z")
	assert.Equal(t, 0.0, OfflineProgress(at, at, 5, 1000))
}

func TestOfflineProgress_ClockSkew(t *testing.T) {
	last := ts(t, "2024-01-01T06:00:00Z")
	now := ts(t, "2024-01-01T00:00:00Z")

	// now before last: absolute elapsed, never negative
	got := OfflineProgress(last, now, 1, 100000)
	assert.InDelta(t, 16200.0, got, 1e-9)
}

func TestOfflineProgress_CappedAtTwelveHours(t *testing.T) {
	last := ts(t, "2024-01-01T00:00:00Z")

	atCap := OfflineProgress(last, last.Add(12*time.Hour), 1, 1e9)
	wellPast := OfflineProgress(last, last.Add(72*time.Hour), 1, 1e9)
	assert.Equal(t, atCap, wellPast)

	// 12h capped elapsed means efficiency bottoms out at 0.5 in
	// practice, not the nominal 0.1 floor
	assert.InDelta(t, 12*3600*0.5, atCap, 1e-9)
}

func TestOfflineProgress_CappedAtCapacity(t *testing.T) {
	last := ts(t, "2024-01-01T00:00:00Z")
	got := OfflineProgress(last, last.Add(6*time.Hour), 10, 500)
	assert.Equal(t, 500.0, got)
}

func TestOfflinePolicy_TunedCapAndFloor(t *testing.T) {
	last := ts(t, "2024-01-01T00:00:00Z")
	policy := OfflinePolicy{Cap: 24 * time.Hour, DecayFloor: 0.25}

	// a 24h cap lets the decay run the whole window down to its floor
	got := policy.Progress(last, last.Add(48*time.Hour), 1, 1e9)
	assert.InDelta(t, 24*3600*0.25, got, 1e-9)

	// a tighter cap bites before the decay does
	tight := OfflinePolicy{Cap: time.Hour, DecayFloor: 0.1}
	got = tight.Progress(last, last.Add(6*time.Hour), 1, 1e9)
	assert.InDelta(t, 3600*(1-3600.0/86400.0), got, 1e-9)
}

func TestOfflineProgress_BoundsAndMonotonicity(t *testing.T) {
	last := ts(t, "2024-01-01T00:00:00Z")
	const capacity = 1e12

	capped := OfflineProgress(last, last.Add(12*time.Hour), 2.5, capacity)

	prev := 0.0
	for minutes := 0; minutes <= 14*60; minutes += 7 {
		now := last.Add(time.Duration(minutes) * time.Minute)
		got := OfflineProgress(last, now, 2.5, capacity)

		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, capacity)
		assert.GreaterOrEqual(t, got, prev, "gain should not shrink (at %dm)", minutes)
		if minutes >= 12*60 {
			assert.Equal(t, capped, got, "gain should be flat past the cap (at %dm)", minutes)
		}
		prev = got
	}
}

package world_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/deltaland/internal/game/world"
)

func TestNextRaidTime(t *testing.T) {
	last := time.Date(2024, 3, 10, 16, 0, 0, 0, time.UTC)
	assert.Equal(t, last.Add(8*time.Hour), world.NextRaidTime(last))
}

func TestFirstRaidTime_AnchorsToHour(t *testing.T) {
	now := time.Date(2024, 3, 10, 16, 42, 13, 0, time.UTC)
	got := world.FirstRaidTime(now)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), got)
	assert.True(t, got.After(now))
}

func TestNextDayTime(t *testing.T) {
	now := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), world.NextDayTime(now))
}

func TestNextMonthTime_YearWrap(t *testing.T) {
	now := time.Date(2024, 12, 15, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), world.NextMonthTime(now))

	now = time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), world.NextMonthTime(now))
}

func TestNextYearTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), world.NextYearTime(now))
}

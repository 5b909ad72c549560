package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocation_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, "Europe/Lisbon", Location("Europe/Lisbon").String())
	assert.Equal(t, DefaultTimezone, Location("Not/AZone").String())
	assert.Equal(t, DefaultTimezone, Location("").String())
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("America/New_York"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Mars/Olympus"))

	_, cached := locations.Get("America/New_York")
	assert.True(t, cached)
}

func TestNowIn_UsesClock(t *testing.T) {
	instant := time.Date(2026, 5, 1, 15, 0, 0, 0, time.UTC)
	now := NowIn(FixedClock{T: instant}, "America/Sao_Paulo")

	assert.True(t, now.Equal(instant))
	assert.Equal(t, 12, now.Hour())
}

package timezone

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultTimezone = "America/Sao_Paulo"

var locations, _ = lru.New[string, *time.Location](64)

func load(tz string) (*time.Location, bool) {
	if tz == "" {
		return nil, false
	}
	if loc, ok := locations.Get(tz); ok {
		return loc, true
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, false
	}
	locations.Add(tz, loc)
	return loc, true
}

func IsValid(tz string) bool {
	_, ok := load(tz)
	return ok
}

// Location resolves tz, falling back to DefaultTimezone and then UTC.
func Location(tz string) *time.Location {
	if loc, ok := load(tz); ok {
		return loc
	}
	if loc, ok := load(DefaultTimezone); ok {
		return loc
	}
	return time.UTC
}

// Clock is the only source of "now" for time-sensitive scheduling rules.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns T. Used by tests and replays.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}

func NowIn(clock Clock, tz string) time.Time {
	return clock.Now().In(Location(tz))
}

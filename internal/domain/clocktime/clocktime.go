// Package clocktime provides wall-clock arithmetic on minutes since
// midnight, plus calendar-date helpers. Everything here is pure.
package clocktime

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schederr"
)

// Minutes counts minutes since midnight. 24:00 (1440) is a valid end bound.
type Minutes int

const (
	EndOfDay   Minutes = 24 * 60
	DateLayout         = "2006-01-02"
)

// Parse accepts HH:MM or HH:MM:SS. Seconds are validated and truncated.
func Parse(s string) (Minutes, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, schederr.Format(schederr.ReasonMalformedTime, s)
	}

	var fields [3]int
	for i, p := range parts {
		if len(p) != 2 || !isDigit(p[0]) || !isDigit(p[1]) {
			return 0, schederr.Format(schederr.ReasonMalformedTime, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, schederr.Format(schederr.ReasonMalformedTime, s)
		}
		fields[i] = n
	}

	h, m, sec := fields[0], fields[1], fields[2]
	if h > 24 || m > 59 || sec > 59 {
		return 0, schederr.Format(schederr.ReasonMalformedTime, s)
	}
	if h == 24 && (m != 0 || sec != 0) {
		return 0, schederr.Format(schederr.ReasonMalformedTime, s)
	}

	return Minutes(h*60 + m), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Minutes {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

func Format(m Minutes) string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

func (m Minutes) String() string {
	return Format(m)
}

func (m Minutes) MarshalText() ([]byte, error) {
	return []byte(Format(m)), nil
}

func (m *Minutes) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func AddMinutes(t Minutes, delta int) Minutes {
	return t + Minutes(delta)
}

// Overlaps reports whether [startA, endA) and [startB, endB) intersect.
// Touching endpoints do not overlap.
func Overlaps(startA, endA, startB, endB Minutes) bool {
	return startA < endB && startB < endA
}

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, schederr.Format(schederr.ReasonMalformedDate, s)
	}
	return d, nil
}

func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// DateOf returns the calendar date of t's wall clock, as UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// OfDay returns the wall-clock minute of t.
func OfDay(t time.Time) Minutes {
	return Minutes(t.Hour()*60 + t.Minute())
}

// At returns the instant of minute m on date, interpreted in loc.
func At(date time.Time, m Minutes, loc *time.Location) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, 0, int(m), 0, 0, loc)
}

package clocktime_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schederr"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want clocktime.Minutes
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"09:30:00", 570},
		{"17:45:59", 17*60 + 45},
		{"24:00", clocktime.EndOfDay},
	}

	for _, tc := range cases {
		got, err := clocktime.Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, in := range []string{"", "9:00", "09", "09:60", "25:00", "24:01", "ab:cd", "09:00:00:00", "-1:00",
		"+9:00", "09:+5", "09:-5", "+1:+1:+1", "09:00:+1", " 9:00", "٠٩:00"} {
		_, err := clocktime.Parse(in)
		require.Error(t, err, in)
		assert.True(t, schederr.Is(err, schederr.KindFormat), in)
	}
}

func TestFormatAndAdd(t *testing.T) {
	assert.Equal(t, "09:05", clocktime.Format(545))
	assert.Equal(t, "24:00", clocktime.Format(clocktime.EndOfDay))
	assert.Equal(t, clocktime.Minutes(600), clocktime.AddMinutes(540, 60))
	assert.Equal(t, "10:00", clocktime.AddMinutes(clocktime.MustParse("09:30"), 30).String())
}

func TestOverlaps(t *testing.T) {
	assert.True(t, clocktime.Overlaps(600, 660, 630, 690))
	assert.True(t, clocktime.Overlaps(600, 700, 620, 640))
	assert.False(t, clocktime.Overlaps(600, 660, 660, 720), "touching endpoints")
	assert.False(t, clocktime.Overlaps(660, 720, 600, 660), "touching endpoints")
}

func TestJSONRoundTripAsClockString(t *testing.T) {
	type payload struct {
		Start clocktime.Minutes `json:"start"`
	}

	b, err := json.Marshal(payload{Start: 13*60 + 15})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"13:15"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"08:05"}`), &p))
	assert.Equal(t, clocktime.Minutes(485), p.Start)

	assert.Error(t, json.Unmarshal([]byte(`{"start":"8h"}`), &p))
}

func TestDates(t *testing.T) {
	d, err := clocktime.ParseDate("2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), d)

	_, err = clocktime.ParseDate("14/03/2026")
	assert.True(t, schederr.Is(err, schederr.KindFormat))

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	late := time.Date(2026, 3, 14, 23, 30, 0, 0, loc)
	assert.Equal(t, d, clocktime.DateOf(late))
	assert.True(t, clocktime.SameDate(d, late))
	assert.Equal(t, clocktime.Minutes(23*60+30), clocktime.OfDay(late))

	at := clocktime.At(d, 570, loc)
	assert.Equal(t, 9, at.Hour())
	assert.Equal(t, 30, at.Minute())
	assert.Equal(t, loc, at.Location())
}

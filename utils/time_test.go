package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOf(t *testing.T) {
	at := time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "2026-03-14", DayOf(at))

	next := at.Add(time.Second)
	assert.Equal(t, "2026-03-15", DayOf(next))
}

func TestParseDayRoundTrip(t *testing.T) {
	day, err := ParseDay("2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", day.Format(DayLayout))

	_, err = ParseDay("14/03/2026")
	assert.Error(t, err)
}

func TestDayBounds(t *testing.T) {
	day, err := ParseDay("2026-03-14")
	require.NoError(t, err)

	start, end := DayBounds(day)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
	assert.Equal(t, 0, start.Hour())

	inside := time.Date(2026, 3, 14, 12, 0, 0, 0, AttendanceLocation())
	assert.False(t, inside.Before(start))
	assert.True(t, inside.Before(end))
}

func TestParseClock(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	deadline, err := ParseClock("20:00:00", date)
	require.NoError(t, err)
	assert.Equal(t, 20, deadline.Hour())
	assert.Equal(t, date.Day(), deadline.Day())

	_, err = ParseClock("8pm", date)
	assert.Error(t, err)
}

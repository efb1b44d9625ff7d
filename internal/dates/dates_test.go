package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday afternoon.
var now = time.Date(2026, 2, 25, 15, 30, 0, 0, time.UTC)

func TestParse_ISO(t *testing.T) {
	d, err := Parse(" 2026-03-04 ", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-04", d.Format(Layout))
}

func TestParse_Phrases(t *testing.T) {
	d, err := Parse("tomorrow", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-26", d.Format(Layout))

	d, err = Parse("Today", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-25", d.Format(Layout))
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse("  ", now)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestWeek(t *testing.T) {
	tests := []struct {
		day        time.Time
		start, end string
	}{
		{time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC), "2026-02-23", "2026-03-01"},
		{now, "2026-02-23", "2026-03-01"},
		{time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC), "2026-02-23", "2026-03-01"},
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "2025-12-29", "2026-01-04"},
	}
	for _, tt := range tests {
		start, end := Week(tt.day)
		assert.Equal(t, tt.start, start, tt.day.String())
		assert.Equal(t, tt.end, end, tt.day.String())
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		name       string
		from, to   string
		start, end string
	}{
		{"default week", "", "", "2026-02-23", "2026-03-01"},
		{"from only", "2026-03-02", "", "2026-02-23", "2026-03-01"},
		{"to only", "", "2026-02-27", "2026-02-23", "2026-03-01"},
		{"both", "2026-02-24", "2026-02-24", "2026-02-24", "2026-02-24"},
		{"end before start", "2026-03-02", "2026-03-01", "2026-03-02", "2026-03-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := Range(tt.from, tt.to, now)
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

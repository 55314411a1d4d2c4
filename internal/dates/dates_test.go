package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormatRoundTrip(t *testing.T) {
	d, err := Parse("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", Format(d))
	assert.Equal(t, 0, d.Hour())
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "2024-13-01", "24-01-01", "2024/01/01"} {
		_, err := Parse(s)
		assert.Error(t, err, s)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2024-01-01", "2024-01-01", 0},
		{"2024-01-01", "2024-01-08", 7},
		{"2024-01-08", "2024-01-01", -7},
		{"2024-02-28", "2024-03-01", 2},
		{"2024-03-09", "2024-03-11", 2}, // US DST change weekend
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysBetween(MustParse(tt.a), MustParse(tt.b)), "%s -> %s", tt.a, tt.b)
	}
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, IsWeekend(MustParse("2024-01-06")))
	assert.True(t, IsWeekend(MustParse("2024-01-07")))
	assert.False(t, IsWeekend(MustParse("2024-01-08")))
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2024, 5, 6, 17, 30, 0, 0, time.Local)
	assert.Equal(t, "2024-05-06", Format(StartOfDay(ts)))
	assert.Equal(t, 0, StartOfDay(ts).Hour())
	assert.Equal(t, ts.Day(), StartOfDay(ts).Day())
}

func TestResolve(t *testing.T) {
	now := time.Date(2024, 3, 31, 22, 15, 0, 0, time.Local)
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "2024-03-31"},
		{in: "today", want: "2024-03-31"},
		{in: " Tomorrow ", want: "2024-04-01"},
		{in: "yesterday", want: "2024-03-30"},
		{in: "+2", want: "2024-04-02"},
		{in: "-31", want: "2024-02-29"},
		{in: "2023-12-25", want: "2023-12-25"},
		{in: "+x", wantErr: true},
		{in: "next week", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Resolve(tt.in, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

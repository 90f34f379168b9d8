package timeofday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Day
		wantErr bool
	}{
		{name: "lowercase", input: "monday", want: Monday},
		{name: "capitalized", input: "Tuesday", want: Tuesday},
		{name: "upper with spaces", input: "  SUNDAY ", want: Sunday},
		{name: "abbreviation", input: "mon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "unknown", input: "funday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDayName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDay_RoundTrip(t *testing.T) {
	seen := make(map[string]bool)
	for d := Monday; d <= Sunday; d++ {
		name := d.String()
		assert.False(t, seen[name], "duplicate name %q", name)
		seen[name] = true

		parsed, err := ParseDay(name)
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
	assert.Len(t, seen, 7)
}

func TestDay_Invalid(t *testing.T) {
	assert.False(t, Day(0).Valid())
	assert.False(t, Day(8).Valid())
	assert.Equal(t, "day(8)", Day(8).String())
}

func TestDay_Weekday(t *testing.T) {
	assert.Equal(t, time.Monday, Monday.Weekday())
	assert.Equal(t, time.Saturday, Saturday.Weekday())
	assert.Equal(t, time.Sunday, Sunday.Weekday())

	for w := time.Sunday; w <= time.Saturday; w++ {
		assert.Equal(t, w, DayOf(w).Weekday())
	}
}

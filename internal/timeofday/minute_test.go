package timeofday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinute(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Minute
		wantErr bool
	}{
		{name: "midnight", input: "12:00 AM", want: 0},
		{name: "noon", input: "12:00 PM", want: 720},
		{name: "single digit hour", input: "1:30 AM", want: 90},
		{name: "afternoon", input: "01:30 PM", want: 810},
		{name: "last minute", input: "11:59 PM", want: 1439},
		{name: "lowercase meridiem", input: "09:15 am", want: 555},
		{name: "hour zero", input: "00:30 AM", wantErr: true},
		{name: "hour thirteen", input: "13:00 PM", wantErr: true},
		{name: "minute sixty", input: "10:60 AM", wantErr: true},
		{name: "missing meridiem", input: "10:30", wantErr: true},
		{name: "24 hour clock", input: "22:30", wantErr: true},
		{name: "garbage", input: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMinute(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMinute_String(t *testing.T) {
	assert.Equal(t, "12:00 AM", Minute(0).String())
	assert.Equal(t, "12:00 PM", Minute(720).String())
	assert.Equal(t, "01:30 PM", Minute(810).String())
	assert.Equal(t, "11:59 PM", Minute(1439).String())
	assert.Equal(t, "12:00 AM", EndOfDay.String())
	assert.Equal(t, "minute(1441)", Minute(1441).String())
}

func TestMinute_RoundTrip(t *testing.T) {
	for m := Midnight; m <= LastMinute; m++ {
		text := m.String()
		parsed, err := ParseMinute(text)
		require.NoError(t, err, "minute %d formatted as %q", m, text)
		require.Equal(t, m, parsed)
		require.Equal(t, text, parsed.String())
	}
}

func TestMinuteOf(t *testing.T) {
	ts := time.Date(2026, time.March, 3, 14, 45, 30, 0, time.UTC)
	assert.Equal(t, Clock(14, 45), MinuteOf(ts))
	assert.Equal(t, 14, MinuteOf(ts).Hour())
}

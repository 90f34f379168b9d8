package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/optimeet/internal/timeofday"
)

func TestIntArg(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		want    int
		wantErr bool
	}{
		{name: "missing uses default", args: map[string]any{}, want: 60},
		{name: "json number", args: map[string]any{"n": float64(30)}, want: 30},
		{name: "int", args: map[string]any{"n": 45}, want: 45},
		{name: "numeric string", args: map[string]any{"n": " 15 "}, want: 15},
		{name: "empty string uses default", args: map[string]any{"n": ""}, want: 60},
		{name: "fraction", args: map[string]any{"n": 1.5}, wantErr: true},
		{name: "text", args: map[string]any{"n": "soon"}, wantErr: true},
		{name: "wrong type", args: map[string]any{"n": true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IntArg(tt.args, "n", 60)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringListArg(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    []string
		wantErr bool
	}{
		{name: "missing", value: nil, want: nil},
		{name: "single", value: "Marcos", want: []string{"Marcos"}},
		{name: "comma separated", value: " Marcos, Huy ,", want: []string{"Marcos", "Huy"}},
		{name: "only commas", value: ", ,", want: nil},
		{name: "array", value: []any{"Marcos", " ", "Huy"}, want: []string{"Marcos", "Huy"}},
		{name: "array with non-string", value: []any{"Marcos", 3}, wantErr: true},
		{name: "wrong type", value: 3.0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StringListArg(map[string]any{"contacts": tt.value}, "contacts")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringAndBoolArg(t *testing.T) {
	args := map[string]any{"s": "  text ", "b": true, "n": 3.0}

	assert.Equal(t, "text", StringArg(args, "s"))
	assert.Equal(t, "", StringArg(args, "n"))
	assert.Equal(t, "", StringArg(args, "missing"))

	assert.True(t, BoolArg(args, "b", false))
	assert.True(t, BoolArg(args, "missing", true))
	assert.False(t, BoolArg(args, "s", false))
}

func TestContactFromArgs(t *testing.T) {
	assert.Equal(t, "Marcos", ContactFromArgs(map[string]any{"contact": "Marcos", "contacts": "Huy"}))
	assert.Equal(t, "Huy", ContactFromArgs(map[string]any{"contacts": []any{"Huy", "Ann"}}))
	assert.Equal(t, "", ContactFromArgs(map[string]any{}))
}

func TestDayAndStartArgs(t *testing.T) {
	day, start, err := DayAndStartArgs(map[string]any{"day": "Thursday", "start_time": "9:30 am"})
	require.NoError(t, err)
	assert.Equal(t, timeofday.Thursday, day)
	assert.Equal(t, timeofday.Clock(9, 30), start)

	_, _, err = DayAndStartArgs(map[string]any{"day": "thursday"})
	assert.EqualError(t, err, "day and start_time are required")

	_, _, err = DayAndStartArgs(map[string]any{"day": "someday", "start_time": "09:00 AM"})
	assert.ErrorIs(t, err, timeofday.ErrInvalidDayName)

	_, _, err = DayAndStartArgs(map[string]any{"day": "monday", "start_time": "25:00"})
	assert.ErrorIs(t, err, timeofday.ErrInvalidTimeFormat)
}

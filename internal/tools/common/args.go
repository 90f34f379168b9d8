package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/teemow/optimeet/internal/timeofday"
)

// StringArg returns the trimmed string argument name, or "" when it is
// missing or not a string.
func StringArg(args map[string]any, name string) string {
	if v, ok := args[name].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// IntArg returns the integer argument name, or def when it is missing.
// JSON numbers arrive as float64; numeric strings are accepted too.
func IntArg(args map[string]any, name string, def int) (int, error) {
	switch v := args[name].(type) {
	case nil:
		return def, nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be a whole number", name)
		}
		return int(v), nil
	case int:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return def, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%s must be a number", name)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be a number", name)
	}
}

// BoolArg returns the boolean argument name, or def when it is missing or
// not a boolean.
func BoolArg(args map[string]any, name string, def bool) bool {
	if v, ok := args[name].(bool); ok {
		return v
	}
	return def
}

// StringListArg parses an argument that is either an array of strings or a
// comma-separated string. A missing argument yields nil.
func StringListArg(args map[string]any, name string) ([]string, error) {
	switch v := args[name].(type) {
	case nil:
		return nil, nil
	case string:
		return parseCommaSeparatedList(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", name, i)
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", name)
	}
}

// ContactFromArgs returns the contact a tool call is about: the "contact"
// argument, or the first entry of "contacts".
func ContactFromArgs(args map[string]any) string {
	if c := StringArg(args, "contact"); c != "" {
		return c
	}
	if list, err := StringListArg(args, "contacts"); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}

// DayAndStartArgs reads a meeting position given as "day" and "start_time"
// ("09:00 AM").
func DayAndStartArgs(args map[string]any) (timeofday.Day, timeofday.Minute, error) {
	dayText := StringArg(args, "day")
	startText := StringArg(args, "start_time")
	if dayText == "" || startText == "" {
		return 0, 0, errors.New("day and start_time are required")
	}
	day, err := timeofday.ParseDay(dayText)
	if err != nil {
		return 0, 0, err
	}
	start, err := timeofday.ParseMinute(startText)
	if err != nil {
		return 0, 0, err
	}
	return day, start, nil
}

func parseCommaSeparatedList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

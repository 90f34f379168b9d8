package schedule

import (
	"sort"

	"github.com/teemow/optimeet/internal/timeofday"
)

// Interval is a [Start, End) span of minutes within one day.
type Interval struct {
	Start timeofday.Minute
	End   timeofday.Minute
}

// Len returns the length of the interval in minutes.
func (i Interval) Len() int {
	return int(i.End - i.Start)
}

// String renders the interval as "09:00 AM-09:30 AM".
func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

// Window bounds the minutes in which slots may be placed.
type Window struct {
	Earliest timeofday.Minute
	// Latest is the end of the window. Zero means LastMinute; it may be
	// EndOfDay for a window running through midnight.
	Latest timeofday.Minute
}

// HoursWindow returns the window [earliestHour:00, latestHour:00]. A latest
// hour of 24 or more ends the window at EndOfDay, so the 23:00 hour is
// usable in full.
func HoursWindow(earliestHour, latestHour int) Window {
	latest := timeofday.Clock(latestHour, 0)
	if latest > timeofday.EndOfDay {
		latest = timeofday.EndOfDay
	}
	return Window{Earliest: timeofday.Clock(earliestHour, 0), Latest: latest}
}

func (w Window) bounds() (timeofday.Minute, timeofday.Minute) {
	earliest, latest := w.Earliest, w.Latest
	if earliest < timeofday.Midnight {
		earliest = timeofday.Midnight
	}
	switch {
	case latest == 0:
		latest = timeofday.LastMinute
	case latest > timeofday.EndOfDay:
		latest = timeofday.EndOfDay
	}
	return earliest, latest
}

// Coalesce sorts busy intervals and merges those that overlap or touch into
// maximal disjoint spans. Empty and inverted intervals are dropped.
func Coalesce(busy []Interval) []Interval {
	sorted := make([]Interval, 0, len(busy))
	for _, b := range busy {
		if b.End > b.Start {
			sorted = append(sorted, b)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	var merged []Interval
	for _, b := range sorted {
		if n := len(merged); n > 0 && b.Start <= merged[n-1].End {
			if b.End > merged[n-1].End {
				merged[n-1].End = b.End
			}
			continue
		}
		merged = append(merged, b)
	}
	return merged
}

// FreeSlots lists every free slot of exactly duration minutes inside window,
// in chronological order. Each gap between busy spans contributes
// gap/duration back-to-back slots starting at the gap's beginning.
func FreeSlots(busy []Interval, duration int, window Window) []Interval {
	earliest, latest := window.bounds()
	if duration <= 0 || earliest >= latest {
		return nil
	}

	// Clip to the window so busy time straddling its edges still blocks.
	clipped := make([]Interval, 0, len(busy))
	for _, b := range busy {
		if b.End <= earliest || b.Start >= latest {
			continue
		}
		if b.Start < earliest {
			b.Start = earliest
		}
		if b.End > latest {
			b.End = latest
		}
		clipped = append(clipped, b)
	}

	// Zero-length sentinels make the window edges behave like busy spans.
	spans := make([]Interval, 0, len(clipped)+2)
	spans = append(spans, Interval{Start: earliest, End: earliest})
	spans = append(spans, Coalesce(clipped)...)
	spans = append(spans, Interval{Start: latest, End: latest})

	var slots []Interval
	for i := 0; i+1 < len(spans); i++ {
		current, next := spans[i], spans[i+1]
		gap := int(next.Start - current.End)
		for j := 0; j < gap/duration; j++ {
			start := current.End + timeofday.Minute(j*duration)
			slots = append(slots, Interval{Start: start, End: start + timeofday.Minute(duration)})
		}
	}
	return slots
}

// FindFreeSlot returns the order-th (1-based) slot of FreeSlots, or false
// when there are fewer slots than order.
func FindFreeSlot(busy []Interval, duration, order int, window Window) (Interval, bool) {
	if order < 1 {
		return Interval{}, false
	}
	slots := FreeSlots(busy, duration, window)
	if order > len(slots) {
		return Interval{}, false
	}
	return slots[order-1], true
}

// FindTimeSlot returns the order-th free slot on day in the calendar.
func (c *Calendar) FindTimeSlot(day timeofday.Day, duration, order int, window Window) (Interval, bool) {
	return FindFreeSlot(c.BusyOn(day), duration, order, window)
}

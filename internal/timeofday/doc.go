// Package timeofday encodes the two scalar time values the scheduler works in:
// the day of the week (Monday=1 through Sunday=7) and the minute of the day
// (0 through 1439 minutes after local midnight).
//
// Both types convert to and from the human text used by the record files and
// the tools layer:
//
//	day, err := timeofday.ParseDay("Tuesday")    // timeofday.Tuesday
//	start, err := timeofday.ParseMinute("1:30 PM") // 810
//	fmt.Println(day, start)                       // "tuesday 01:30 PM"
package timeofday

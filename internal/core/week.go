package core

import "fmt"

// WeekIdentifier maps a calendar date to its ISO-8601 week label, formatted
// as "YYYY-Www" (e.g. "2025-W40"). Week 1 is the week containing the year's
// first Thursday; weeks run Monday through Sunday. The year in the label is
// the ISO year, which near year boundaries can differ from the calendar year:
// 2024-12-30 belongs to 2025-W01.
func WeekIdentifier(d Date) string {
	year, week := d.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

package report

import (
	"strconv"
	"time"
)

// calendarTime builds a timestamp from numeric date-time fields and verifies
// they form a real calendar date. time.Date silently normalises out-of-range
// fields (month 13 becomes January of the next year), so the components are
// compared back after construction.
func calendarTime(year, month, day, hour, minute, second int) (time.Time, bool) {
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	ok := t.Year() == year &&
		int(t.Month()) == month &&
		t.Day() == day &&
		t.Hour() == hour &&
		t.Minute() == minute &&
		t.Second() == second
	if !ok {
		return time.Time{}, false
	}
	return t, true
}

// atoiFields converts regex submatches to ints. The grammars only capture
// digit runs, so conversion cannot fail; the bool covers empty captures.
func atoiFields(fields ...string) ([]int, bool) {
	result := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, false
		}
		result[i] = n
	}
	return result, true
}

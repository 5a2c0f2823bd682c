package enums

import (
	"fmt"
	"time"
)

// Weekday follows the ISO numbering promotions are stored with:
// 1=Monday .. 7=Sunday.
type Weekday int

const (
	Monday    Weekday = 1
	Tuesday   Weekday = 2
	Wednesday Weekday = 3
	Thursday  Weekday = 4
	Friday    Weekday = 5
	Saturday  Weekday = 6
	Sunday    Weekday = 7
)

var weekdayNames = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// String implements fmt.Stringer.
func (w Weekday) String() string {
	if name, ok := weekdayNames[w]; ok {
		return name
	}
	return fmt.Sprintf("Weekday(%d)", int(w))
}

// IsValid reports whether the value is in the 1..7 range.
func (w Weekday) IsValid() bool {
	return w >= Monday && w <= Sunday
}

// ParseWeekday converts raw input into a Weekday.
func ParseWeekday(value int) (Weekday, error) {
	day := Weekday(value)
	if !day.IsValid() {
		return 0, fmt.Errorf("invalid weekday %d", value)
	}
	return day, nil
}

// WeekdayOf maps a calendar date onto the ISO weekday numbering.
func WeekdayOf(t time.Time) Weekday {
	day := int(t.Weekday())
	if day == 0 {
		return Sunday
	}
	return Weekday(day)
}

// ParseWeekdays validates a candidate day selection, rejecting duplicates.
func ParseWeekdays(values []int) ([]Weekday, error) {
	seen := map[Weekday]struct{}{}
	days := make([]Weekday, 0, len(values))
	for _, value := range values {
		day, err := ParseWeekday(value)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[day]; dup {
			return nil, fmt.Errorf("duplicate weekday %d", value)
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	return days, nil
}

// README: Calendar rules: weekends, fixed national holidays, early-registration window.
package pricing

import "time"

// DateLayout is the YYYY-MM-DD form date format.
const DateLayout = "2006-01-02"

// holidays are year-independent "MM-DD" keys.
var holidays = map[string]struct{}{
	"01-01": {}, "01-02": {}, "01-03": {}, "01-04": {},
	"01-05": {}, "01-06": {}, "01-07": {}, "01-08": {},
	"02-23": {},
	"03-08": {},
	"05-01": {},
	"05-09": {},
	"06-12": {},
	"11-04": {},
}

// IsWeekendOrHoliday reports Saturdays, Sundays and the fixed holiday dates.
// Only the calendar fields of d are used.
func IsWeekendOrHoliday(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	_, ok := holidays[d.Format("01-02")]
	return ok
}

// ParseDate parses a YYYY-MM-DD form value into a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Calendar evaluates date rules relative to "today".
type Calendar struct {
	now func() time.Time
	loc *time.Location
}

// NewCalendar builds a Calendar. Today is taken from now() in loc; nil
// arguments fall back to time.Now and UTC.
func NewCalendar(now func() time.Time, loc *time.Location) Calendar {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{now: now, loc: loc}
}

// Today is the current calendar date as a UTC midnight.
func (c Calendar) Today() time.Time {
	if c.now == nil {
		return dateOnly(time.Now().UTC())
	}
	loc := c.loc
	if loc == nil {
		loc = time.UTC
	}
	return dateOnly(c.now().In(loc))
}

// DaysUntil counts whole calendar days from today to start; negative when
// start is in the past.
func (c Calendar) DaysUntil(start time.Time) int {
	return int(dateOnly(start).Sub(c.Today()).Hours() / 24)
}

// CheckEarlyRegistration is true when start is at least
// EarlyRegistrationMinDays after today. Exactly 30 days qualifies.
func (c Calendar) CheckEarlyRegistration(start time.Time) bool {
	return c.DaysUntil(start) >= EarlyRegistrationMinDays
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

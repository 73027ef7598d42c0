// README: Turns raw booking form values into a BookingRequest with defaults.
package pricing

import (
	"errors"
	"strings"
)

const (
	defaultFee         = 100
	defaultPersons     = 1
	defaultWeekLength  = 1
	defaultTotalLength = 1
	defaultDuration    = 1

	defaultCourseTime = "12:00"
	defaultTutorTime  = "09:00"
)

// ErrIncompleteDraft is returned by Validate when a required field is
// missing or not positive.
var ErrIncompleteDraft = errors.New("please fill in all required fields")

// Validate applies the submit-time rule: date and time are required,
// persons must be at least one, and tutor bookings need at least one hour.
// Quoting never validates; it falls back to defaults instead.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Date) == "" || strings.TrimSpace(d.Time) == "" {
		return ErrIncompleteDraft
	}
	if _, err := ParseDate(strings.TrimSpace(d.Date)); err != nil {
		return ErrIncompleteDraft
	}
	if n, ok := leadingInt(d.Persons); !ok || n < 1 {
		return ErrIncompleteDraft
	}
	if d.Kind == KindTutor {
		if n, ok := leadingInt(d.Duration); !ok || n < 1 {
			return ErrIncompleteDraft
		}
	}
	return nil
}

// Prepare sanitizes a draft and derives calendar and eligibility flags.
// Missing or unparseable numbers take their defaults; counts below one are
// treated as missing.
func Prepare(d Draft, cal Calendar) Prepared {
	persons := parseCount(d.Persons, defaultPersons, 1)
	fee := parseCount(d.Fee, defaultFee, 0)

	var p Prepared
	weekend := false
	if start, err := ParseDate(strings.TrimSpace(d.Date)); err == nil {
		p.StartDate = start
		weekend = IsWeekendOrHoliday(start)
		p.Eligibility.EarlyRegistration = cal.CheckEarlyRegistration(start)
	}
	p.Eligibility.GroupEnrollment = CheckGroupEnrollment(persons)

	req := BookingRequest{
		HourlyFee:          float64(fee),
		IsWeekendOrHoliday: weekend,
		StudentCount:       persons,
		Options: Options{
			SupplementaryMaterials: d.Supplementary,
			PersonalizedSessions:   d.Personalized,
			Excursions:             d.Excursions,
			LevelAssessment:        d.Assessment,
			InteractivePlatform:    d.Interactive,
		},
	}

	switch d.Kind {
	case KindTutor:
		req.DurationHours = float64(parseCount(d.Duration, defaultDuration, 1))
		req.TotalWeeks = 1
		req.StartTime = normalizeTime(d.Time, defaultTutorTime)
		// A tutor lesson is a single weekly session.
		p.Eligibility.IntensiveCourse = CheckIntensiveCourse(1)
	default:
		total := parseCount(d.TotalLength, defaultTotalLength, 1)
		req.DurationHours = float64(total)
		req.TotalWeeks = total
		req.StartTime = normalizeTime(d.Time, defaultCourseTime)
		p.Eligibility.IntensiveCourse = CheckIntensiveCourse(parseCount(d.WeekLength, defaultWeekLength, 1))
	}

	req.Options.EarlyRegistration = p.Eligibility.EarlyRegistration
	req.Options.GroupEnrollment = p.Eligibility.GroupEnrollment
	req.Options.IntensiveCourse = p.Eligibility.IntensiveCourse

	p.Request = req
	return p
}

// parseCount reads a leading integer; values below floor fall back to def.
func parseCount(raw string, def, floor int) int {
	n, ok := leadingInt(raw)
	if !ok || n < floor {
		return def
	}
	return n
}

// normalizeTime accepts "HH:MM" and the compact "HHMM" form.
func normalizeTime(raw, def string) string {
	t := strings.TrimSpace(raw)
	if t == "" {
		return def
	}
	if len(t) == 4 && !strings.Contains(t, ":") {
		return t[:2] + ":" + t[2:]
	}
	return t
}

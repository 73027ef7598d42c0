// README: Pure price computation: base fee, calendar and time surcharges, tier modifier, add-ons.
package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	weekendMultiplier = 1.5

	morningSurcharge = 400
	eveningSurcharge = 1000

	earlyRegistrationMultiplier = 0.9
	groupEnrollmentMultiplier   = 0.85
	intensiveCourseMultiplier   = 1.2

	supplementaryPerStudent = 2000
	personalizedPerWeek     = 1500
	assessmentFee           = 300

	excursionsMultiplier  = 1.25
	interactiveMultiplier = 1.5
)

// Compute prices a booking. It never fails and never touches shared state,
// so it is safe to call concurrently. Rounding happens once, at the end.
func Compute(req BookingRequest) Quote {
	breakdown := make([]string, 0, 12)

	base := req.HourlyFee * req.DurationHours
	breakdown = append(breakdown, fmt.Sprintf("Базовая: %s × %s ч = %s ₽",
		formatAmount(req.HourlyFee), formatAmount(req.DurationHours), formatAmount(base)))

	price := base
	if req.IsWeekendOrHoliday {
		price *= weekendMultiplier
		breakdown = append(breakdown, fmt.Sprintf("Выходной/праздник: ×1.5 = %s ₽", formatAmount(price)))
	}

	// Morning is [09:00, 12:00), evening is [18:00, 21:00).
	if hour, ok := parseHour(req.StartTime); ok {
		if hour >= 9 && hour < 12 {
			price += morningSurcharge
			breakdown = append(breakdown, fmt.Sprintf("Утренняя надбавка: +%d ₽", morningSurcharge))
		}
		if hour >= 18 && hour < 21 {
			price += eveningSurcharge
			breakdown = append(breakdown, fmt.Sprintf("Вечерняя надбавка: +%d ₽", eveningSurcharge))
		}
	}

	price *= float64(req.StudentCount)
	if req.StudentCount > 1 {
		breakdown = append(breakdown, fmt.Sprintf("× %d студентов = %s ₽", req.StudentCount, formatAmount(price)))
	}

	if label, multiplier, ok := tierModifier(req.Options); ok {
		price *= multiplier
		breakdown = append(breakdown, fmt.Sprintf("%s = %d ₽", label, roundHalfUp(price)))
	}

	var additional float64
	if req.Options.SupplementaryMaterials {
		cost := supplementaryPerStudent * req.StudentCount
		additional += float64(cost)
		breakdown = append(breakdown, fmt.Sprintf("Доп. материалы: +%d ₽", cost))
	}
	if req.Options.PersonalizedSessions {
		cost := personalizedPerWeek * req.TotalWeeks
		additional += float64(cost)
		breakdown = append(breakdown, fmt.Sprintf("Индивид. занятия: +%d ₽", cost))
	}
	if req.Options.LevelAssessment {
		additional += assessmentFee
		breakdown = append(breakdown, fmt.Sprintf("Оценка уровня: +%d ₽", assessmentFee))
	}
	price += additional

	percentage := 1.0
	if req.Options.Excursions {
		percentage *= excursionsMultiplier
		breakdown = append(breakdown, "Экскурсии: +25%")
	}
	if req.Options.InteractivePlatform {
		percentage *= interactiveMultiplier
		breakdown = append(breakdown, "Интерактив. платформа: +50%")
	}

	return Quote{
		FinalPrice: roundHalfUp(price * percentage),
		Breakdown:  breakdown,
	}
}

// tierModifier picks at most one of early registration, group enrollment,
// intensive course, in that precedence.
func tierModifier(o Options) (string, float64, bool) {
	switch {
	case o.EarlyRegistration:
		return "Ранняя регистрация: -10%", earlyRegistrationMultiplier, true
	case o.GroupEnrollment:
		return "Групповая запись: -15%", groupEnrollmentMultiplier, true
	case o.IntensiveCourse:
		return "Интенсивный курс: +20%", intensiveCourseMultiplier, true
	}
	return "", 1, false
}

// parseHour reads the integer before ':' the way a lenient form parser does:
// leading blanks, an optional sign, then digits. Trailing junk is ignored.
func parseHour(t string) (int, bool) {
	head, _, _ := strings.Cut(t, ":")
	n, ok := leadingInt(head)
	return n, ok
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// roundHalfUp rounds x.5 toward +Inf.
func roundHalfUp(v float64) int64 {
	f := math.Floor(v)
	if v-f >= 0.5 {
		return int64(f) + 1
	}
	return int64(f)
}

// formatAmount prints the shortest decimal that round-trips: 3200, 4800, 1234.5.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

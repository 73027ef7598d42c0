package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testCalendar() Calendar {
	return NewCalendar(fixedNow(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)), time.UTC)
}

func TestPrepare_CourseDraft(t *testing.T) {
	p := Prepare(Draft{
		Kind:          KindCourse,
		Date:          "2026-11-21", // Saturday, 33 days out
		Time:          "18:00",
		Persons:       "6",
		Fee:           "250",
		WeekLength:    "5",
		TotalLength:   "8",
		Supplementary: true,
		Interactive:   true,
	}, testCalendar())

	assert.Equal(t, BookingRequest{
		HourlyFee:          250,
		DurationHours:      8,
		IsWeekendOrHoliday: true,
		StartTime:          "18:00",
		StudentCount:       6,
		TotalWeeks:         8,
		Options: Options{
			EarlyRegistration:      true,
			GroupEnrollment:        true,
			IntensiveCourse:        true,
			SupplementaryMaterials: true,
			InteractivePlatform:    true,
		},
	}, p.Request)
	assert.Equal(t, Eligibility{EarlyRegistration: true, GroupEnrollment: true, IntensiveCourse: true}, p.Eligibility)
	assert.Equal(t, "2026-11-21", p.StartDate.Format(DateLayout))
}

func TestPrepare_Defaults(t *testing.T) {
	p := Prepare(Draft{Kind: KindCourse, Persons: "abc", Fee: "", WeekLength: "0", TotalLength: "-3"}, testCalendar())

	assert.Equal(t, float64(defaultFee), p.Request.HourlyFee)
	assert.Equal(t, 1, p.Request.StudentCount)
	assert.Equal(t, float64(1), p.Request.DurationHours)
	assert.Equal(t, 1, p.Request.TotalWeeks)
	assert.Equal(t, defaultCourseTime, p.Request.StartTime)
	assert.False(t, p.Request.IsWeekendOrHoliday)
	assert.True(t, p.StartDate.IsZero())
	assert.Equal(t, Eligibility{}, p.Eligibility)
}

func TestPrepare_LenientNumbers(t *testing.T) {
	p := Prepare(Draft{Kind: KindCourse, Fee: "300руб", Persons: " 2 ", TotalLength: "4weeks"}, testCalendar())
	assert.Equal(t, float64(300), p.Request.HourlyFee)
	assert.Equal(t, 2, p.Request.StudentCount)
	assert.Equal(t, 4, p.Request.TotalWeeks)

	p = Prepare(Draft{Kind: KindCourse, Fee: "0"}, testCalendar())
	assert.Equal(t, float64(0), p.Request.HourlyFee, "a zero fee is valid")
}

func TestPrepare_TutorDraft(t *testing.T) {
	p := Prepare(Draft{
		Kind:     KindTutor,
		Date:     "2026-10-20",
		Time:     "1030",
		Duration: "3",
		Persons:  "1",
		Fee:      "900",
	}, testCalendar())

	assert.Equal(t, "10:30", p.Request.StartTime)
	assert.Equal(t, float64(3), p.Request.DurationHours)
	assert.Equal(t, 1, p.Request.TotalWeeks)
	assert.False(t, p.Eligibility.IntensiveCourse)
	assert.False(t, p.Eligibility.EarlyRegistration)

	q := Compute(p.Request)
	// 900 * 3 + 400 morning
	assert.Equal(t, int64(3100), q.FinalPrice)
}

func TestPrepare_TutorDefaultTime(t *testing.T) {
	p := Prepare(Draft{Kind: KindTutor}, testCalendar())
	assert.Equal(t, defaultTutorTime, p.Request.StartTime)
	assert.Equal(t, float64(defaultDuration), p.Request.DurationHours)
}

func TestDraftValidate(t *testing.T) {
	valid := Draft{Kind: KindCourse, Date: "2026-11-20", Time: "10:00", Persons: "1"}
	cases := []struct {
		name  string
		patch func(*Draft)
		ok    bool
	}{
		{"complete course", func(*Draft) {}, true},
		{"missing date", func(d *Draft) { d.Date = "" }, false},
		{"garbage date", func(d *Draft) { d.Date = "next week" }, false},
		{"blank time", func(d *Draft) { d.Time = "  " }, false},
		{"zero persons", func(d *Draft) { d.Persons = "0" }, false},
		{"missing persons", func(d *Draft) { d.Persons = "" }, false},
		{"lenient persons", func(d *Draft) { d.Persons = "3 people" }, true},
		{"tutor without hours", func(d *Draft) { d.Kind = KindTutor }, false},
		{"tutor with hours", func(d *Draft) { d.Kind = KindTutor; d.Duration = "2" }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := valid
			tc.patch(&d)
			err := d.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrIncompleteDraft)
			}
		})
	}
}

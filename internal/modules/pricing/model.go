// README: Booking request, quote, and option set for the course pricing engine.
package pricing

import (
	"time"

	"linguaschool/internal/types"
)

// BookingRequest is the full input of one price computation.
type BookingRequest struct {
	HourlyFee          float64
	DurationHours      float64
	IsWeekendOrHoliday bool
	StartTime          string // "HH:MM", 24-hour
	StudentCount       int
	TotalWeeks         int
	Options            Options
}

// Quote is the engine output. Breakdown lists the rules that fired, in order.
type Quote struct {
	FinalPrice int64    `json:"price"`
	Breakdown  []string `json:"breakdown"`
}

func (q Quote) Money() types.Money {
	return types.RUB(q.FinalPrice)
}

// Kind selects how a draft maps onto a BookingRequest.
type Kind string

const (
	KindCourse Kind = "course"
	KindTutor  Kind = "tutor"
)

// Draft is the raw, unsanitized booking form.
type Draft struct {
	Kind        Kind
	Date        string // YYYY-MM-DD
	Time        string // HH:MM, or HHMM from the tutor form
	Persons     string
	Fee         string
	WeekLength  string // sessions per week (courses)
	TotalLength string // course length in weeks (courses)
	Duration    string // hours (tutors)

	Supplementary bool
	Personalized  bool
	Excursions    bool
	Assessment    bool
	Interactive   bool
}

// Eligibility reports which tier modifiers the booking qualifies for.
type Eligibility struct {
	EarlyRegistration bool `json:"early_registration"`
	GroupEnrollment   bool `json:"group_enrollment"`
	IntensiveCourse   bool `json:"intensive_course"`
}

// Prepared is a sanitized draft ready for the engine.
type Prepared struct {
	Request     BookingRequest
	Eligibility Eligibility
	StartDate   time.Time // zero when the draft had no valid date
}

// Snapshot is a persisted quote for an order.
type Snapshot struct {
	ID        int64
	OrderID   types.ID
	Request   BookingRequest
	Quote     Quote
	CreatedAt time.Time
}

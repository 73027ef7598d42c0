// README: Course/tutor order as held by the remote order service, plus conversions.
package order

import (
	"linguaschool/internal/modules/pricing"
	"linguaschool/internal/orderapi"
	"linguaschool/internal/types"
)

// Order is one booking of a course or a tutor. Exactly one of CourseID and
// TutorID is set.
type Order struct {
	ID        types.ID        `json:"id"`
	CourseID  types.ID        `json:"course_id,omitempty"`
	TutorID   types.ID        `json:"tutor_id,omitempty"`
	DateStart string          `json:"date_start"`
	TimeStart string          `json:"time_start"`
	Duration  int             `json:"duration"`
	Persons   int             `json:"persons"`
	Price     int64           `json:"price"`
	Options   pricing.Options `json:"options"`
}

func (o Order) Kind() pricing.Kind {
	if o.TutorID > 0 {
		return pricing.KindTutor
	}
	return pricing.KindCourse
}

// Placed is a submitted or updated order together with the quote it was
// priced with.
type Placed struct {
	Order       Order               `json:"order"`
	Quote       pricing.Quote       `json:"quote"`
	Eligibility pricing.Eligibility `json:"eligibility"`
}

func fromRemote(r orderapi.Order) Order {
	return Order{
		ID:        types.ID(r.ID),
		CourseID:  types.ID(r.CourseID),
		TutorID:   types.ID(r.TutorID),
		DateStart: r.DateStart,
		TimeStart: r.TimeStart,
		Duration:  r.Duration,
		Persons:   r.Persons,
		Price:     r.Price,
		Options: pricing.Options{
			EarlyRegistration:      r.EarlyRegistration,
			GroupEnrollment:        r.GroupEnrollment,
			IntensiveCourse:        r.IntensiveCourse,
			SupplementaryMaterials: r.Supplementary,
			PersonalizedSessions:   r.Personalized,
			Excursions:             r.Excursions,
			LevelAssessment:        r.Assessment,
			InteractivePlatform:    r.Interactive,
		},
	}
}

func toRemote(o Order) orderapi.Order {
	return orderapi.Order{
		ID:                int64(o.ID),
		CourseID:          int64(o.CourseID),
		TutorID:           int64(o.TutorID),
		DateStart:         o.DateStart,
		TimeStart:         o.TimeStart,
		Duration:          o.Duration,
		Persons:           o.Persons,
		Price:             o.Price,
		EarlyRegistration: o.Options.EarlyRegistration,
		GroupEnrollment:   o.Options.GroupEnrollment,
		IntensiveCourse:   o.Options.IntensiveCourse,
		Supplementary:     o.Options.SupplementaryMaterials,
		Personalized:      o.Options.PersonalizedSessions,
		Excursions:        o.Options.Excursions,
		Assessment:        o.Options.LevelAssessment,
		Interactive:       o.Options.InteractivePlatform,
	}
}

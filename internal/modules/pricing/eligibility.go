// README: Eligibility thresholds for tier modifiers.
package pricing

const (
	EarlyRegistrationMinDays   = 30
	GroupMinStudents           = 5
	IntensiveMinWeeklySessions = 5
)

// CheckGroupEnrollment: group pricing starts at five students.
func CheckGroupEnrollment(studentCount int) bool {
	return studentCount >= GroupMinStudents
}

// CheckIntensiveCourse: five or more sessions a week is intensive.
func CheckIntensiveCourse(weeklySessions int) bool {
	return weeklySessions >= IntensiveMinWeeklySessions
}

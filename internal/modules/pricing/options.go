// README: Named option set and its comma-joined storage form.
package pricing

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownOption = errors.New("unknown pricing option")

// Options is the set of rule switches on a booking. Tier modifiers
// (EarlyRegistration, GroupEnrollment, IntensiveCourse) are mutually
// exclusive at pricing time; add-ons stack.
type Options struct {
	EarlyRegistration      bool
	GroupEnrollment        bool
	IntensiveCourse        bool
	SupplementaryMaterials bool
	PersonalizedSessions   bool
	Excursions             bool
	LevelAssessment        bool
	InteractivePlatform    bool
}

// Storage names, in serialization order.
const (
	OptEarlyRegistration = "earlyRegistration"
	OptGroupEnrollment   = "groupEnrollment"
	OptIntensiveCourse   = "intensiveCourse"
	OptSupplementary     = "supplementary"
	OptPersonalized      = "personalized"
	OptExcursions        = "excursions"
	OptAssessment        = "assessment"
	OptInteractive       = "interactive"
)

var optionFields = []struct {
	name  string
	field func(*Options) *bool
}{
	{OptEarlyRegistration, func(o *Options) *bool { return &o.EarlyRegistration }},
	{OptGroupEnrollment, func(o *Options) *bool { return &o.GroupEnrollment }},
	{OptIntensiveCourse, func(o *Options) *bool { return &o.IntensiveCourse }},
	{OptSupplementary, func(o *Options) *bool { return &o.SupplementaryMaterials }},
	{OptPersonalized, func(o *Options) *bool { return &o.PersonalizedSessions }},
	{OptExcursions, func(o *Options) *bool { return &o.Excursions }},
	{OptAssessment, func(o *Options) *bool { return &o.LevelAssessment }},
	{OptInteractive, func(o *Options) *bool { return &o.InteractivePlatform }},
}

// Names returns the selected option names in canonical order.
func (o Options) Names() []string {
	names := make([]string, 0, len(optionFields))
	for _, f := range optionFields {
		if *f.field(&o) {
			names = append(names, f.name)
		}
	}
	return names
}

// String renders the comma-joined form, e.g. "earlyRegistration,supplementary".
func (o Options) String() string {
	return strings.Join(o.Names(), ",")
}

// ParseOptions reads the comma-joined form. Blank entries are skipped.
func ParseOptions(s string) (Options, error) {
	var o Options
	for _, raw := range strings.Split(s, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		matched := false
		for _, f := range optionFields {
			if f.name == name {
				*f.field(&o) = true
				matched = true
				break
			}
		}
		if !matched {
			return Options{}, fmt.Errorf("%w: %q", ErrUnknownOption, name)
		}
	}
	return o, nil
}

func (o Options) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Options) UnmarshalText(b []byte) error {
	parsed, err := ParseOptions(string(b))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

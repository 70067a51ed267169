package patient

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLabel is returned when an enum label is not part of its vocabulary.
var ErrUnknownLabel = errors.New("unknown label")

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

type WorkType string

const (
	WorkPrivate      WorkType = "Private"
	WorkSelfEmployed WorkType = "Self-employed"
	WorkGovtJob      WorkType = "Govt_job"
	WorkChildren     WorkType = "children"
	WorkNeverWorked  WorkType = "Never_worked"
)

type ResidenceType string

const (
	ResidenceUrban ResidenceType = "Urban"
	ResidenceRural ResidenceType = "Rural"
)

type SmokingStatus string

const (
	SmokingNever    SmokingStatus = "never smoked"
	SmokingFormerly SmokingStatus = "formerly smoked"
	SmokingSmokes   SmokingStatus = "smokes"
	SmokingUnknown  SmokingStatus = "Unknown"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "Low Risk"
	RiskModerate RiskLevel = "Moderate Risk"
	RiskHigh     RiskLevel = "High Risk"
)

var (
	Genders         = []Gender{GenderMale, GenderFemale, GenderOther}
	WorkTypes       = []WorkType{WorkPrivate, WorkSelfEmployed, WorkGovtJob, WorkChildren, WorkNeverWorked}
	ResidenceTypes  = []ResidenceType{ResidenceUrban, ResidenceRural}
	SmokingStatuses = []SmokingStatus{SmokingNever, SmokingFormerly, SmokingSmokes, SmokingUnknown}
	RiskLevels      = []RiskLevel{RiskLow, RiskModerate, RiskHigh}
)

// parseLabel matches s against the vocabulary ignoring case, spaces,
// dashes and underscores, so "SelfEmployed", "self-employed" and
// "Self_employed" all resolve to the same value.
func parseLabel[T ~string](kind string, vocab []T, s string) (T, error) {
	key := normalizeLabel(s)
	for _, v := range vocab {
		if normalizeLabel(string(v)) == key {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w %q for %s", ErrUnknownLabel, s, kind)
}

func normalizeLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func ParseGender(s string) (Gender, error) { return parseLabel("gender", Genders, s) }

func ParseWorkType(s string) (WorkType, error) { return parseLabel("work type", WorkTypes, s) }

func ParseResidenceType(s string) (ResidenceType, error) {
	return parseLabel("residence type", ResidenceTypes, s)
}

func ParseSmokingStatus(s string) (SmokingStatus, error) {
	return parseLabel("smoking status", SmokingStatuses, s)
}

func ParseRiskLevel(s string) (RiskLevel, error) { return parseLabel("risk level", RiskLevels, s) }

func (g *Gender) UnmarshalText(text []byte) error {
	v, err := ParseGender(string(text))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

func (w *WorkType) UnmarshalText(text []byte) error {
	v, err := ParseWorkType(string(text))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

func (r *ResidenceType) UnmarshalText(text []byte) error {
	v, err := ParseResidenceType(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (s *SmokingStatus) UnmarshalText(text []byte) error {
	v, err := ParseSmokingStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (r *RiskLevel) UnmarshalText(text []byte) error {
	v, err := ParseRiskLevel(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Package validation decides whether a patient record can be submitted for
// prediction.
package validation

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/Skufu/strokerisk/internal/patient"
)

// Wire names of the validated fields.
const (
	FieldAge             = "age"
	FieldAvgGlucoseLevel = "avgGlucoseLevel"
	FieldBMI             = "bmi"
)

// SummaryMessage accompanies any set of field errors.
const SummaryMessage = "Please correct the highlighted fields before submitting."

var validate = validator.New()

// Errors holds one message per validated field. An empty message means the
// field is valid.
type Errors struct {
	Age             string
	AvgGlucoseLevel string
	BMI             string
}

// Valid reports whether no field failed.
func (e Errors) Valid() bool {
	return e.Age == "" && e.AvgGlucoseLevel == "" && e.BMI == ""
}

// Fields returns the failing fields keyed by wire name.
func (e Errors) Fields() map[string]string {
	out := make(map[string]string, 3)
	if e.Age != "" {
		out[FieldAge] = e.Age
	}
	if e.AvgGlucoseLevel != "" {
		out[FieldAvgGlucoseLevel] = e.AvgGlucoseLevel
	}
	if e.BMI != "" {
		out[FieldBMI] = e.BMI
	}
	return out
}

// Summary returns the form-level message, or "" when valid.
func (e Errors) Summary() string {
	if e.Valid() {
		return ""
	}
	return SummaryMessage
}

// Validate checks every numeric field independently. Enum fields are valid by
// construction.
func Validate(in patient.Input) Errors {
	return Errors{
		Age:             checkMeasure("Age", in.Age, patient.AgeRange),
		AvgGlucoseLevel: checkMeasure("Average glucose level", in.AvgGlucoseLevel, patient.GlucoseRange),
		BMI:             checkMeasure("BMI", in.BMI, patient.BMIRange),
	}
}

func checkMeasure(label string, m patient.Measure, r patient.Range) string {
	if m.IsInvalid() {
		return label + " must be a number"
	}
	v, ok := m.Get()
	if !ok {
		return label + " is required"
	}

	tag := fmt.Sprintf("gte=%s,lte=%s", formatBound(r.Min), formatBound(r.Max))
	if err := validate.Var(v, tag); err != nil {
		return fmt.Sprintf("%s must be between %s and %s", label, formatBound(r.Min), formatBound(r.Max))
	}
	return ""
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

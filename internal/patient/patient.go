// Package patient holds the records exchanged between the intake form,
// the validator and the prediction gateway.
package patient

// Input is the data collected by the intake form. Enum fields always hold a
// valid value; the numeric fields may be unset until the user fills them in.
type Input struct {
	Gender          Gender        `json:"gender"`
	Age             Measure       `json:"age"`
	Hypertension    bool          `json:"hypertension"`
	HeartDisease    bool          `json:"heartDisease"`
	EverMarried     bool          `json:"everMarried"`
	WorkType        WorkType      `json:"workType"`
	ResidenceType   ResidenceType `json:"residenceType"`
	AvgGlucoseLevel Measure       `json:"avgGlucoseLevel"`
	BMI             Measure       `json:"bmi"`
	SmokingStatus   SmokingStatus `json:"smokingStatus"`
}

// NewInput returns a blank form: defaults for the enums, numbers unset.
func NewInput() Input {
	return Input{
		Gender:        GenderMale,
		WorkType:      WorkPrivate,
		ResidenceType: ResidenceUrban,
		SmokingStatus: SmokingNever,
	}
}

// Result is the stroke-risk estimate returned by the remote model.
type Result struct {
	StrokePrediction bool      `json:"strokePrediction" yaml:"strokePrediction"`
	Probability      float64   `json:"probability" yaml:"probability"`
	RiskLevel        RiskLevel `json:"riskLevel" yaml:"riskLevel"`
}

// Range is an inclusive numeric bound.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

var (
	AgeRange         = Range{Min: 0, Max: 120}
	GlucoseRange     = Range{Min: 30, Max: 600}
	BMIRange         = Range{Min: 10, Max: 100}
	ProbabilityRange = Range{Min: 0, Max: 100}
)

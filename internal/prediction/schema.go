package prediction

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Skufu/strokerisk/internal/patient"
)

// Reply property names.
const (
	PropStrokePrediction = "strokePrediction"
	PropProbability      = "probability"
	PropRiskLevel        = "riskLevel"
)

// Schema is the subset of JSON Schema the providers understand. Providers
// translate it into their own request types.
type Schema struct {
	Type                 string             `json:"type"`
	Description          string             `json:"description,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Enum                 []string           `json:"enum,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
}

// Map returns the schema as a generic JSON document.
func (s *Schema) Map() (map[string]any, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OutputSchema declares the reply the model must produce: exactly the three
// result properties, all required.
func OutputSchema() *Schema {
	levels := make([]string, 0, len(patient.RiskLevels))
	for _, l := range patient.RiskLevels {
		levels = append(levels, string(l))
	}
	closed := false

	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			PropStrokePrediction: {
				Type:        "boolean",
				Description: "Whether the patient is likely to have a stroke.",
			},
			PropProbability: {
				Type:        "number",
				Description: "Estimated stroke probability as a percentage from 0 to 100.",
			},
			PropRiskLevel: {
				Type:        "string",
				Description: "Overall stroke risk category.",
				Enum:        levels,
			},
		},
		Required:             []string{PropStrokePrediction, PropProbability, PropRiskLevel},
		AdditionalProperties: &closed,
	}
}

var replySchema = compileReplySchema()

func compileReplySchema() *jsonschema.Schema {
	raw, err := json.Marshal(OutputSchema())
	if err != nil {
		panic(err)
	}
	return jsonschema.MustCompileString("reply.json", string(raw))
}

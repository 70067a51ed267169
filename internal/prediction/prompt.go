package prediction

import (
	"encoding/json"
	"fmt"

	"github.com/Skufu/strokerisk/internal/patient"
)

const promptTemplate = `You are a clinical decision-support assistant. Assess the stroke risk of the patient described by the record below.

Patient record (JSON):
%s

Field notes:
- age is in years.
- hypertension, heartDisease and everMarried are true or false.
- avgGlucoseLevel is the average blood glucose level in mg/dL.
- bmi is the body mass index in kg/m^2.

Respond with a JSON object with exactly these properties:
- strokePrediction: true if the patient is likely to have a stroke, otherwise false.
- probability: the estimated probability of a stroke as a percentage between 0 and 100.
- riskLevel: one of "Low Risk", "Moderate Risk" or "High Risk".`

// BuildPrompt renders the instruction sent to the model for one patient.
func BuildPrompt(in patient.Input) (string, error) {
	record, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize patient record: %w", err)
	}
	return fmt.Sprintf(promptTemplate, record), nil
}

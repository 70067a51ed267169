// Package prediction turns a patient record into a request to a hosted
// generative model and turns the model's JSON reply into a risk estimate.
package prediction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Skufu/strokerisk/internal/patient"
)

// Request is one structured-generation call.
type Request struct {
	Model  string
	Prompt string
	Schema *Schema
}

// Generator is a remote model that answers a prompt with text constrained by
// a schema.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// Predictor produces a risk estimate for a patient.
type Predictor interface {
	Predict(ctx context.Context, in patient.Input) (patient.Result, error)
}

// Gateway is the Predictor backed by a Generator. It does not validate the
// input, retry, or impose a timeout.
type Gateway struct {
	gen   Generator
	model string
}

func NewGateway(gen Generator, model string) *Gateway {
	return &Gateway{gen: gen, model: model}
}

// Provider names the generator in use.
func (g *Gateway) Provider() string {
	return g.gen.Name()
}

func (g *Gateway) Model() string {
	return g.model
}

// Predict sends a single request. Errors from the generator are returned
// unchanged.
func (g *Gateway) Predict(ctx context.Context, in patient.Input) (patient.Result, error) {
	prompt, err := BuildPrompt(in)
	if err != nil {
		return patient.Result{}, err
	}

	text, err := g.gen.Generate(ctx, Request{
		Model:  g.model,
		Prompt: prompt,
		Schema: OutputSchema(),
	})
	if err != nil {
		return patient.Result{}, err
	}

	return ParseResult(text)
}

type reply struct {
	StrokePrediction bool              `json:"strokePrediction"`
	Probability      float64           `json:"probability"`
	RiskLevel        patient.RiskLevel `json:"riskLevel"`
}

// ParseResult decodes a model reply. Empty text is ErrNoResponse; anything
// that is not JSON matching OutputSchema is a *MalformedResponseError.
func ParseResult(text string) (patient.Result, error) {
	payload := stripCodeFences(text)
	if payload == "" {
		return patient.Result{}, ErrNoResponse
	}

	var doc any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return patient.Result{}, &MalformedResponseError{Payload: text, Err: err}
	}
	if err := replySchema.Validate(doc); err != nil {
		return patient.Result{}, &MalformedResponseError{Payload: text, Err: err}
	}

	var r reply
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return patient.Result{}, &MalformedResponseError{Payload: text, Err: err}
	}
	if !patient.ProbabilityRange.Contains(r.Probability) {
		return patient.Result{}, &MalformedResponseError{
			Payload: text,
			Err:     fmt.Errorf("probability %v outside [0, 100]", r.Probability),
		}
	}

	return patient.Result{
		StrokePrediction: r.StrokePrediction,
		Probability:      r.Probability,
		RiskLevel:        r.RiskLevel,
	}, nil
}

// stripCodeFences removes a markdown fence some models wrap JSON in even in
// JSON mode.
func stripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

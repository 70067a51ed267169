package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Skufu/strokerisk/internal/config"
	"github.com/Skufu/strokerisk/internal/patient"
	"github.com/Skufu/strokerisk/internal/prediction"
	"github.com/Skufu/strokerisk/internal/validation"
)

var errInvalidInput = errors.New(validation.SummaryMessage)

type assessFlags struct {
	file         string
	dryRun       bool
	age          string
	glucose      string
	bmi          string
	gender       string
	workType     string
	residence    string
	smoking      string
	hypertension bool
	heartDisease bool
	everMarried  bool
}

type dryRunOutput struct {
	Provider string         `json:"provider" yaml:"provider"`
	Model    string         `json:"model" yaml:"model"`
	Prompt   string         `json:"prompt" yaml:"prompt"`
	Schema   map[string]any `json:"schema" yaml:"schema"`
}

func newAssessCmd(outputFormat *string) *cobra.Command {
	var f assessFlags

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Validate a patient record and request a stroke-risk estimate",
		Example: `  strokerisk assess --age 67 --glucose 228.7 --bmi 36.6 --hypertension --smoking "formerly smoked"
  strokerisk assess --file patient.json -o json
  strokerisk assess --file patient.json --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := f.input(cmd)
			if err != nil {
				return err
			}

			errs := validation.Validate(in)
			if !errs.Valid() {
				fields := errs.Fields()
				names := make([]string, 0, len(fields))
				for name := range fields {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", name, fields[name])
				}
				return errInvalidInput
			}

			ai := config.LoadAI()

			if f.dryRun {
				prompt, err := prediction.BuildPrompt(in)
				if err != nil {
					return err
				}
				schema, err := prediction.OutputSchema().Map()
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), *outputFormat, dryRunOutput{
					Provider: ai.Provider,
					Model:    ai.Model(),
					Prompt:   prompt,
					Schema:   schema,
				})
			}

			gateway, err := prediction.NewGatewayFromConfig(cmd.Context(), ai)
			if err != nil {
				return err
			}
			result, err := gateway.Predict(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("prediction failed: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), *outputFormat, result)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.file, "file", "f", "", "patient record as JSON (flags override its fields)")
	flags.BoolVar(&f.dryRun, "dry-run", false, "print the prompt and output schema instead of calling the model")
	flags.StringVar(&f.age, "age", "", "age in years (0-120)")
	flags.StringVar(&f.glucose, "glucose", "", "average glucose level in mg/dL (30-600)")
	flags.StringVar(&f.bmi, "bmi", "", "body mass index (10-100)")
	flags.StringVar(&f.gender, "gender", string(patient.GenderMale), "Male, Female or Other")
	flags.StringVar(&f.workType, "work-type", string(patient.WorkPrivate), "Private, Self-employed, Govt_job, children or Never_worked")
	flags.StringVar(&f.residence, "residence", string(patient.ResidenceUrban), "Urban or Rural")
	flags.StringVar(&f.smoking, "smoking", string(patient.SmokingNever), `"never smoked", "formerly smoked", smokes or Unknown`)
	flags.BoolVar(&f.hypertension, "hypertension", false, "patient has hypertension")
	flags.BoolVar(&f.heartDisease, "heart-disease", false, "patient has heart disease")
	flags.BoolVar(&f.everMarried, "ever-married", false, "patient has ever been married")

	return cmd
}

// input builds the record from --file, then applies explicitly set flags.
func (f *assessFlags) input(cmd *cobra.Command) (patient.Input, error) {
	in := patient.NewInput()

	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return in, fmt.Errorf("read patient file: %w", err)
		}
		if err := json.Unmarshal(data, &in); err != nil {
			return in, fmt.Errorf("parse patient file: %w", err)
		}
	}

	changed := cmd.Flags().Changed
	var err error
	if changed("age") {
		in.Age = patient.ParseMeasure(f.age)
	}
	if changed("glucose") {
		in.AvgGlucoseLevel = patient.ParseMeasure(f.glucose)
	}
	if changed("bmi") {
		in.BMI = patient.ParseMeasure(f.bmi)
	}
	if changed("gender") {
		if in.Gender, err = patient.ParseGender(f.gender); err != nil {
			return in, err
		}
	}
	if changed("work-type") {
		if in.WorkType, err = patient.ParseWorkType(f.workType); err != nil {
			return in, err
		}
	}
	if changed("residence") {
		if in.ResidenceType, err = patient.ParseResidenceType(f.residence); err != nil {
			return in, err
		}
	}
	if changed("smoking") {
		if in.SmokingStatus, err = patient.ParseSmokingStatus(f.smoking); err != nil {
			return in, err
		}
	}
	if changed("hypertension") {
		in.Hypertension = f.hypertension
	}
	if changed("heart-disease") {
		in.HeartDisease = f.heartDisease
	}
	if changed("ever-married") {
		in.EverMarried = f.everMarried
	}

	return in, nil
}

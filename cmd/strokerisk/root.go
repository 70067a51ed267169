package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRootCmd() *cobra.Command {
	var outputFormat string

	root := &cobra.Command{
		Use:   "strokerisk",
		Short: "Stroke risk assessment backed by a hosted language model",
		Long: `strokerisk validates a patient record and asks the configured model
(Gemini or OpenAI, see AI_PROVIDER) for a stroke-risk estimate.

The API key is read from GEMINI_API_KEY or OPENAI_API_KEY, or from a .env
file in the working directory.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&outputFormat, "output", "o", "yaml", "output format: yaml or json")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		switch outputFormat {
		case "yaml", "json":
			return nil
		default:
			return fmt.Errorf("unsupported output format %q", outputFormat)
		}
	}

	root.AddCommand(newAssessCmd(&outputFormat))
	return root
}

func writeOutput(w io.Writer, format string, v any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

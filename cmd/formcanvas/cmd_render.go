package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formcanvas/pkg/model"
	"github.com/goliatone/go-formcanvas/pkg/orchestrator"
	"github.com/goliatone/go-formcanvas/pkg/render"
	tuirender "github.com/goliatone/go-formcanvas/pkg/renderers/tui"
	"github.com/goliatone/go-formcanvas/pkg/schema"
	"github.com/goliatone/go-formcanvas/pkg/storage"
)

var (
	renderName    string
	renderTheme   string
	renderVariant string
	renderOutput  string
	renderPresets []string

	validateStore bool

	fillFormat string
	fillSubmit bool
)

var renderCmd = &cobra.Command{
	Use:   "render [form-id]",
	Short: "Render a stored form as HTML",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var schemaCmd = &cobra.Command{
	Use:   "schema [form-id]",
	Short: "Print the OpenAPI document describing a form's submission",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchema,
}

var validateCmd = &cobra.Command{
	Use:   "validate [form-id] [submission.json]",
	Short: "Check a JSON submission against a form",
	Args:  cobra.ExactArgs(2),
	RunE:  runValidate,
}

var fillCmd = &cobra.Command{
	Use:   "fill [form-id]",
	Short: "Answer a form from the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runFill,
}

func init() {
	renderCmd.Flags().StringVarP(&renderName, "renderer", "r", "vanilla", "Renderer (vanilla or canvas)")
	renderCmd.Flags().StringVar(&renderTheme, "theme", "", "Theme name (defaults to the form's theme)")
	renderCmd.Flags().StringVar(&renderVariant, "variant", "", "Theme variant")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file (stdout if empty)")
	renderCmd.Flags().StringSliceVar(&renderPresets, "preset", nil, "JSON or YAML preset files applied before rendering")

	validateCmd.Flags().BoolVar(&validateStore, "store", false, "Store the submission when it is valid")

	fillCmd.Flags().StringVar(&fillFormat, "format", string(tuirender.OutputFormatJSON), "Output format (json, form or pretty)")
	fillCmd.Flags().BoolVar(&fillSubmit, "submit", false, "Store the answers as a submission")
}

func runRender(cmd *cobra.Command, args []string) error {
	repo, err := openRepository(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	gen, err := newOrchestrator(cfg, repo, renderPresets...)
	if err != nil {
		return err
	}
	res, err := gen.Generate(cmd.Context(), orchestrator.Request{
		FormID:   args[0],
		Renderer: renderName,
		Theme:    renderTheme,
		Variant:  renderVariant,
	})
	if err != nil {
		return err
	}
	out := res.Body

	if renderOutput == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(renderOutput, out, 0o644); err != nil {
		return err
	}
	logger.Info("form written", zap.String("form", res.Form.ID), zap.String("path", renderOutput))
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	repo, err := openRepository(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	_, built, err := formModel(cmd, repo, args[0])
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), schema.Document(built))
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("decode submission: %w", err)
	}

	repo, err := openRepository(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	form, built, err := formModel(cmd, repo, args[0])
	if err != nil {
		return err
	}

	if err := schema.ValidateSubmission(built, values); err != nil {
		var invalid *schema.ValidationError
		if errors.As(err, &invalid) {
			for _, fe := range invalid.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", fieldOrForm(fe.Field), fe.Message)
			}
		}
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")

	if validateStore {
		return storeSubmission(cmd, repo, form.ID, values)
	}
	return nil
}

func runFill(cmd *cobra.Command, args []string) error {
	repo, err := openRepository(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	form, built, err := formModel(cmd, repo, args[0])
	if err != nil {
		return err
	}

	var collected map[string]any
	options := []tuirender.Option{
		tuirender.WithOutput(cmd.ErrOrStderr()),
		tuirender.WithOutputFormat(tuirender.OutputFormat(fillFormat)),
		tuirender.WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
			collected = values
			return values, nil
		}),
	}
	if promptDriver != nil {
		options = append(options, tuirender.WithPromptDriver(promptDriver))
	}
	renderer, err := tuirender.New(options...)
	if err != nil {
		return err
	}

	out, err := renderer.Render(cmd.Context(), built, render.RenderOptions{})
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return err
	}
	if fillFormat != string(tuirender.OutputFormatPrettyText) {
		io.WriteString(cmd.OutOrStdout(), "\n")
	}

	if fillSubmit {
		return storeSubmission(cmd, repo, form.ID, collected)
	}
	return nil
}

func formModel(cmd *cobra.Command, repo storage.Repository, id string) (storage.Form, model.FormModel, error) {
	gen, err := newOrchestrator(cfg, repo)
	if err != nil {
		return storage.Form{}, model.FormModel{}, err
	}
	return gen.Model(cmd.Context(), id)
}

func storeSubmission(cmd *cobra.Command, repo storage.Repository, formID string, values map[string]any) error {
	sub, err := repo.AddSubmission(cmd.Context(), storage.Submission{FormID: formID, Values: values})
	if err != nil {
		return err
	}
	logger.Info("submission stored", zap.String("form", formID), zap.String("submission", sub.ID))
	return nil
}

func fieldOrForm(name string) string {
	if name == "" {
		return "form"
	}
	return name
}

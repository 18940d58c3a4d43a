package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/layout"
	"github.com/goliatone/go-formcanvas/pkg/storage"
)

var exportFormat string

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "List, import and export stored forms",
}

var formsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored forms",
	RunE:  runFormsList,
}

var formsImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Create forms from a JSON or YAML layout document",
	Args:  cobra.ExactArgs(1),
	RunE:  runFormsImport,
}

var formsExportCmd = &cobra.Command{
	Use:   "export [form-id...]",
	Short: "Write stored forms as a layout document",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFormsExport,
}

func init() {
	formsExportCmd.Flags().StringVar(&exportFormat, "format", layout.FormatYAML, "Output format (yaml or json)")

	formsCmd.AddCommand(formsListCmd)
	formsCmd.AddCommand(formsImportCmd)
	formsCmd.AddCommand(formsExportCmd)
}

func runFormsList(cmd *cobra.Command, args []string) error {
	repo, err := openRepository(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	forms, err := repo.ListForms(cmd.Context())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTHEME\tVERSION")
	for _, form := range forms {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", form.ID, form.Title, form.Theme, form.Version)
	}
	return w.Flush()
}

func runFormsImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	parsed, err := layout.Parse(data, args[0])
	if err != nil {
		return err
	}

	repo, err := openRepository(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	for _, form := range parsed {
		created, err := repo.CreateForm(cmd.Context(), storage.Form{
			ID:          form.ID,
			Title:       form.Title,
			Description: form.Description,
			Theme:       form.Theme,
			Variant:     form.Variant,
			Elements:    form.Elements,
		})
		if err != nil {
			return err
		}
		logger.Info("imported form", zap.String("form", created.ID), zap.Int("elements", len(created.Elements)))
		fmt.Fprintln(cmd.OutOrStdout(), created.ID)
	}
	return nil
}

func runFormsExport(cmd *cobra.Command, args []string) error {
	repo, err := openRepository(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	forms := make([]layout.Form, 0, len(args))
	for _, id := range args {
		stored, err := repo.GetForm(cmd.Context(), id)
		if err != nil {
			return err
		}
		forms = append(forms, layout.Form{
			ID:          stored.ID,
			Title:       stored.Title,
			Description: stored.Description,
			Theme:       stored.Theme,
			Variant:     stored.Variant,
			Elements:    stored.Elements,
		})
	}
	data, err := layout.Encode(strings.ToLower(exportFormat), forms...)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// describeElements prints one line per element in reading order.
func describeElements(cmd *cobra.Command, elements []canvas.Element) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tX\tY\tW\tH\tGROUP\tLABEL")
	for _, e := range elements {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
			e.ID, e.Type, e.Position.X, e.Position.Y, e.Size.Width, e.Size.Height, e.GroupID, e.Label())
	}
	w.Flush()
}

package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formcanvas/internal/logging"
	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/openapi"
	"github.com/goliatone/go-formcanvas/pkg/schema"
	"github.com/goliatone/go-formcanvas/pkg/storage"
	"github.com/goliatone/go-formcanvas/pkg/tui"
)

// promptDriver replaces the survey prompts in tests.
var promptDriver tui.PromptDriver

var (
	editCreate bool
	editTitle  string
	importOpID string
	importAt   string
	importNew  bool
)

var editCmd = &cobra.Command{
	Use:   "edit [form-id]",
	Short: "Edit a form's canvas interactively",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var importOpenAPICmd = &cobra.Command{
	Use:   "import-openapi [form-id] [file-or-url]",
	Short: "Add fields suggested by an OpenAPI request body",
	Long: `Reads an OpenAPI 3 document from a file or URL, takes the JSON request body of the
operation and places one field per property, stacked from --at.

Example:
  formcanvas import-openapi signup api.yaml --operation createUser`,
	Args: cobra.ExactArgs(2),
	RunE: runImportOpenAPI,
}

func init() {
	editCmd.Flags().BoolVar(&editCreate, "create", false, "Create the form when it does not exist")
	editCmd.Flags().StringVar(&editTitle, "title", "", "Title for a created form")

	importOpenAPICmd.Flags().StringVar(&importOpID, "operation", "", "Operation ID (defaults to the first operation with a JSON body)")
	importOpenAPICmd.Flags().StringVar(&importAt, "at", "", "Top-left point of the imported fields, as x,y")
	importOpenAPICmd.Flags().BoolVar(&importNew, "create", false, "Create the form when it does not exist")
}

// getOrCreate returns the stored form, creating an empty one when allowed.
func getOrCreate(ctx context.Context, repo storage.Repository, id, title string, create bool) (storage.Form, error) {
	form, err := repo.GetForm(ctx, id)
	if err == nil || !create || !errors.Is(err, storage.ErrNotFound) {
		return form, err
	}
	if title == "" {
		title = strings.ReplaceAll(id, "-", " ")
	}
	logger.Info("creating form", zap.String("form", id))
	return repo.CreateForm(ctx, storage.Form{ID: id, Title: title})
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	form, err := getOrCreate(ctx, repo, args[0], editTitle, editCreate)
	if err != nil {
		return err
	}

	driver := promptDriver
	if driver == nil {
		driver = tui.NewSurveyDriver(cmd.ErrOrStderr())
	}
	editor, err := tui.NewEditor(driver, form.Elements,
		tui.WithNotifier(logging.Notifier(logger, zap.String("form", form.ID))),
		tui.WithSave(func(ctx context.Context, elements []canvas.Element) error {
			form.Elements = elements
			saved, err := repo.SaveForm(ctx, form)
			if err != nil {
				return err
			}
			form = saved
			return nil
		}),
	)
	if err != nil {
		return err
	}

	err = editor.Run(ctx)
	if errors.Is(err, tui.ErrAborted) {
		logger.Info("editor aborted", zap.String("form", form.ID))
		return nil
	}
	return err
}

func runImportOpenAPI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	src, err := openapi.ParseSource(args[1])
	if err != nil {
		return err
	}
	data, err := openapi.NewLoader(openapi.WithHTTPFallback(30*time.Second)).Load(ctx, src)
	if err != nil {
		return err
	}
	suggestions, err := schema.SuggestionsFromOpenAPI(ctx, data, importOpID)
	if err != nil {
		return err
	}

	origin := canvas.DefaultImportOrigin
	if importAt != "" {
		if origin, err = tui.ParsePoint(importAt); err != nil {
			return err
		}
	}

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	if _, err := getOrCreate(ctx, repo, args[0], "", importNew); err != nil {
		return err
	}
	form, board, err := openBoard(ctx, repo, args[0], canvas.NeverConfirm)
	if err != nil {
		return err
	}
	result, err := board.Apply(ctx, canvas.ImportIntent{Suggestions: suggestions, Origin: origin})
	if err != nil {
		return err
	}
	if result.Mutated() {
		if _, err := saveBoard(ctx, repo, form, board); err != nil {
			return err
		}
	}
	describeElements(cmd, result.Created)
	return nil
}

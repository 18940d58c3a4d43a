package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formcanvas/internal/logging"
	"github.com/goliatone/go-formcanvas/pkg/canvas"
	"github.com/goliatone/go-formcanvas/pkg/storage"
	"github.com/goliatone/go-formcanvas/pkg/tui"
)

var applyCascade bool

var placeCmd = &cobra.Command{
	Use:   "place [form-id] [type] [x,y]",
	Short: "Drop a new element onto a stored form",
	Long: `Drops an element of the given type at the requested point. The point is
snapped to the grid and moved below the existing elements when it would
overlap one.

Example:
  formcanvas place contact email 100,300`,
	Args: cobra.ExactArgs(3),
	RunE: runPlace,
}

var previewCmd = &cobra.Command{
	Use:   "preview [form-id] [type] [x,y]",
	Short: "Show where an element would land without placing it",
	Args:  cobra.ExactArgs(3),
	RunE:  runPreview,
}

var applyCmd = &cobra.Command{
	Use:   "apply [form-id] [file]",
	Short: "Apply editor intents read as JSON lines",
	Long: `Reads one intent envelope per line from file (or stdin when file is "-"
or omitted), applies them in order and saves the form once at the end.

Example:
  echo '{"kind":"drop","type":"text","position":{"x":100,"y":100}}' | formcanvas apply contact`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().BoolVar(&applyCascade, "cascade", false, "Delete whole groups when a grouped element is deleted")
}

// openBoard loads a stored form into a board whose notifications are logged.
func openBoard(ctx context.Context, repo storage.Repository, id string, confirmer canvas.Confirmer) (storage.Form, *canvas.Board, error) {
	form, err := repo.GetForm(ctx, id)
	if err != nil {
		return storage.Form{}, nil, err
	}
	board := canvas.NewBoard(
		canvas.WithNotifier(logging.Notifier(logger, zap.String("form", id))),
		canvas.WithConfirmer(confirmer),
	)
	if err := board.Load(form.Elements); err != nil {
		return storage.Form{}, nil, err
	}
	return form, board, nil
}

func saveBoard(ctx context.Context, repo storage.Repository, form storage.Form, board *canvas.Board) (storage.Form, error) {
	form.Elements = board.Elements()
	return repo.SaveForm(ctx, form)
}

func parseDrop(args []string) (canvas.ElementType, canvas.Point, error) {
	t := canvas.ParseElementType(args[1])
	if !t.Known() {
		return "", canvas.Point{}, fmt.Errorf("%w: unknown element type %q", canvas.ErrInvalidElement, args[1])
	}
	p, err := tui.ParsePoint(args[2])
	if err != nil {
		return "", canvas.Point{}, err
	}
	return t, p, nil
}

func runPlace(cmd *cobra.Command, args []string) error {
	t, p, err := parseDrop(args)
	if err != nil {
		return err
	}
	repo, err := openRepository(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	form, board, err := openBoard(cmd.Context(), repo, args[0], canvas.NeverConfirm)
	if err != nil {
		return err
	}
	element := board.Drop(t, p)
	if _, err := saveBoard(cmd.Context(), repo, form, board); err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), element)
}

func runPreview(cmd *cobra.Command, args []string) error {
	t, p, err := parseDrop(args)
	if err != nil {
		return err
	}
	repo, err := openRepository(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	_, board, err := openBoard(cmd.Context(), repo, args[0], canvas.NeverConfirm)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), board.Preview(t, p))
}

// maxEnvelopeLine bounds one intent line. Import envelopes carry whole
// generator responses.
const maxEnvelopeLine = 10 << 20

func runApply(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 2 && args[1] != "-" {
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	repo, err := openRepository(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	confirmer := canvas.NeverConfirm
	if applyCascade {
		confirmer = canvas.AlwaysConfirm
	}
	form, board, err := openBoard(cmd.Context(), repo, args[0], confirmer)
	if err != nil {
		return err
	}

	var (
		results []canvas.Result
		changed bool
		line    int
	)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxEnvelopeLine)
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		intent, err := canvas.DecodeIntent(raw)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		result, err := board.Apply(cmd.Context(), intent)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		changed = changed || result.Mutated()
		results = append(results, result)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if changed {
		saved, err := saveBoard(cmd.Context(), repo, form, board)
		if err != nil {
			return err
		}
		logger.Info("applied intents", zap.String("form", saved.ID), zap.Int("intents", len(results)), zap.Int("version", saved.Version))
	}
	return writeJSON(cmd.OutOrStdout(), results)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

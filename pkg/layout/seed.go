package layout

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formcanvas/pkg/storage"
)

// Seed copies every layout into repo under its layout id. Forms that already
// exist are left alone. Seed returns the ids it created.
func (s *Store) Seed(ctx context.Context, repo storage.Repository) ([]string, error) {
	var created []string
	for _, id := range s.IDs() {
		form, _ := s.Form(id)
		_, err := repo.CreateForm(ctx, storage.Form{
			ID:          form.ID,
			Title:       form.Title,
			Description: form.Description,
			Theme:       form.Theme,
			Variant:     form.Variant,
			Elements:    form.Elements,
		})
		if errors.Is(err, storage.ErrConflict) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("layout: seed %s: %w", id, err)
		}
		created = append(created, id)
	}
	return created, nil
}

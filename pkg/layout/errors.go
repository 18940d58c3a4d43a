package layout

import "errors"

var (
	// ErrEmptyDocument is returned for blank layout files.
	ErrEmptyDocument = errors.New("layout: document is empty")
	// ErrDuplicateForm is returned when two documents define the same form id.
	ErrDuplicateForm = errors.New("layout: duplicate form id")
	// ErrUnknownFormat is returned by Encode for unsupported formats.
	ErrUnknownFormat = errors.New("layout: unknown format")
)

package organizer

import (
	"errors"

	"github.com/MrSnakeDoc/tidymark/internal/store"
)

var (
	// ErrNotFound is returned for unknown bookmark or category ids.
	ErrNotFound = store.ErrNotFound
	// ErrConflict is returned when a custom category name is already taken.
	ErrConflict = errors.New("already exists")
	// ErrInvalid is returned for input the service refuses outright.
	ErrInvalid = errors.New("invalid input")
)

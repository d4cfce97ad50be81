package tui

import "errors"

// ErrMissingBuilder is returned when the builder is not provided.
var ErrMissingBuilder = errors.New("tui: builder is required")

// ErrMissingRegistry is returned when the component registry is not provided.
var ErrMissingRegistry = errors.New("tui: component registry is required")

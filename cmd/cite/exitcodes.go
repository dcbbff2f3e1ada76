package main

import (
	"errors"

	"github.com/scholarsite/citekit/internal/config"
	"github.com/scholarsite/citekit/internal/content"
	"github.com/scholarsite/citekit/internal/library"
)

const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unknown key, invalid value, missing site)
	ExitDataError   = 3 // Data error (malformed bibliography or content document)
	ExitUnavailable = 4 // No bibliography could be obtained
	ExitNotFound    = 5 // Publication or entry not found
)

// exitCodeFor maps an error to the exit code reported for it.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, library.ErrUnavailable):
		return ExitUnavailable
	case errors.Is(err, library.ErrMalformed), errors.Is(err, content.ErrInvalid):
		return ExitDataError
	case errors.Is(err, config.ErrUnknownKey):
		return ExitConfigError
	default:
		return ExitError
	}
}

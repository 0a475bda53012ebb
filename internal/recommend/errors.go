// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEntity is returned when a person or item is not in the matrix.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrNotLoaded is returned by the engine before the first successful load.
	ErrNotLoaded = errors.New("no dataset loaded")

	// ErrRebuildInProgress is returned when a rebuild is requested while
	// another one is still running.
	ErrRebuildInProgress = errors.New("rebuild already in progress")

	// ErrInvalidConfig wraps every Config.Validate failure.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidParam is returned for unrecognized request parameters.
	ErrInvalidParam = errors.New("invalid parameter")
)

func unknownEntity(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrUnknownEntity)
}

func newInvalidParamError(param, value string) error {
	return fmt.Errorf("%s %q: %w", param, value, ErrInvalidParam)
}

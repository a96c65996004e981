// SPDX-License-Identifier: MIT

package panel

import "errors"

var (
	// ErrUnknownLabel is returned when a label is not in the encoder's vocabulary.
	ErrUnknownLabel = errors.New("panel: unknown label")

	// ErrUnknownState is returned when decoding a state outside [0, n).
	ErrUnknownState = errors.New("panel: unknown state")

	// ErrDuplicateLabel is returned when an encoder vocabulary repeats a label.
	ErrDuplicateLabel = errors.New("panel: duplicate label")

	// ErrNoLabels is returned for an empty vocabulary.
	ErrNoLabels = errors.New("panel: no labels")

	// ErrBadRecord is returned for a CSV row that cannot be parsed.
	ErrBadRecord = errors.New("panel: malformed record")
)

// SPDX-License-Identifier: MIT

package ctmc

import (
	"context"
	"log/slog"
)

// diagnostics routes warnings according to the configured mode.
// One instance lives for one pipeline call; nothing is shared across calls.
type diagnostics struct {
	mode     DiagnosticsMode
	logger   *slog.Logger
	warnings []Warning
}

func newDiagnostics(o Options) *diagnostics {
	return &diagnostics{mode: o.Diagnostics, logger: o.Logger}
}

// note handles one warning. In raise mode the warning comes back as the error
// that aborts the call.
func (d *diagnostics) note(w Warning) error {
	switch d.mode {
	case DiagnosticsRaise:
		return w
	case DiagnosticsSilent:
		return nil
	}

	d.warnings = append(d.warnings, w)
	if d.logger != nil {
		d.logger.LogAttrs(context.Background(), slog.LevelWarn, w.Message,
			slog.Int("example", w.Example),
			slog.Int("index", w.Index),
			slog.Int("state", w.State),
		)
	}

	return nil
}

// replay feeds buffered warnings through note in order.
func (d *diagnostics) replay(ws []Warning) error {
	for _, w := range ws {
		if err := d.note(w); err != nil {
			return err
		}
	}

	return nil
}

// collected returns the warnings recorded so far (nil unless collecting).
func (d *diagnostics) collected() []Warning {
	if len(d.warnings) == 0 {
		return nil
	}
	out := make([]Warning, len(d.warnings))
	copy(out, d.warnings)

	return out
}

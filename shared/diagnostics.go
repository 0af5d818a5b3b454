// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package shared

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

type DiagnosticKind string

const (
	DiagnosticUnresolvedIdentity DiagnosticKind = "unresolved-identity"
	DiagnosticFallbackReference  DiagnosticKind = "fallback-reference"
	DiagnosticPlaceholder        DiagnosticKind = "placeholder"
	DiagnosticMissingRating      DiagnosticKind = "missing-rating"
	DiagnosticCycle              DiagnosticKind = "cycle"
)

// Diagnostic is an advisory message about a degraded input. Processing
// always continues after a diagnostic was recorded.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind" yaml:"kind"`
	Subject string         `json:"subject" yaml:"subject"`
	Message string         `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Kind, d.Subject, d.Message)
}

// Diagnostics records diagnostics in emission order and logs each of them.
// The zero value is usable and logs to slog.Default().
type Diagnostics struct {
	mu      sync.Mutex
	entries []Diagnostic
	logger  *slog.Logger
}

func NewDiagnostics(logger *slog.Logger) *Diagnostics {
	return &Diagnostics{logger: logger}
}

func (d *Diagnostics) log() *slog.Logger {
	if d.logger == nil {
		return slog.Default()
	}
	return d.logger
}

// Add records a diagnostic. Cycles are expected in real documents and are
// only logged at info level, everything else is a warning.
func (d *Diagnostics) Add(kind DiagnosticKind, subject, format string, args ...any) {
	if d == nil {
		return
	}
	diag := Diagnostic{Kind: kind, Subject: subject, Message: fmt.Sprintf(format, args...)}

	d.mu.Lock()
	d.entries = append(d.entries, diag)
	d.mu.Unlock()

	level := slog.LevelWarn
	if kind == DiagnosticCycle {
		level = slog.LevelInfo
	}
	d.log().Log(context.Background(), level, diag.Message, "kind", string(kind), "subject", subject)
}

// Entries returns a copy of all recorded diagnostics in emission order.
func (d *Diagnostics) Entries() []Diagnostic {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	res := make([]Diagnostic, len(d.entries))
	copy(res, d.entries)
	return res
}

func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// OfKind returns all diagnostics of the given kind in emission order.
func (d *Diagnostics) OfKind(kind DiagnosticKind) []Diagnostic {
	res := make([]Diagnostic, 0)
	for _, e := range d.Entries() {
		if e.Kind == kind {
			res = append(res, e)
		}
	}
	return res
}

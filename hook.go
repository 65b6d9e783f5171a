package main

import (
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Diagnostics receives warnings and faults on behalf of the host. The
// engine never writes to it directly.
type Diagnostics interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// slogDiagnostics adapts a *slog.Logger to Diagnostics.
type slogDiagnostics struct {
	logger *slog.Logger
}

func newSlogDiagnostics(logger *slog.Logger) Diagnostics {
	return &slogDiagnostics{logger: logger}
}

func (d *slogDiagnostics) Warn(msg string, args ...any) {
	d.logger.Warn(msg, args...)
}

func (d *slogDiagnostics) Error(msg string, args ...any) {
	d.logger.Error(msg, args...)
}

// SaveReason is why the host is saving a document.
type SaveReason int

const (
	SaveManual SaveReason = iota
	SaveAfterDelay
	SaveFocusOut
	SaveWindowChange
)

func (r SaveReason) String() string {
	switch r {
	case SaveManual:
		return "manual"
	case SaveAfterDelay:
		return "after-delay"
	case SaveFocusOut:
		return "focus-out"
	case SaveWindowChange:
		return "window-change"
	default:
		return "unknown"
	}
}

// ParseSaveReason parses the names produced by SaveReason.String.
func ParseSaveReason(s string) (SaveReason, error) {
	for _, r := range []SaveReason{SaveManual, SaveAfterDelay, SaveFocusOut, SaveWindowChange} {
		if strings.EqualFold(s, r.String()) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown save reason %q", s)
}

// SaveHook applies the engine's call discipline for editor saves: only
// manual saves are tidied, text without linkage keywords is skipped, and
// faults are reported instead of propagated.
type SaveHook struct {
	Opts Options
	Diag Diagnostics
}

// WillSave runs the engine on a snapshot of the document about to be saved.
// It returns the edit to apply and true, or false when nothing should change.
func (h *SaveHook) WillSave(text string, reason SaveReason) (Edit, bool) {
	if reason != SaveManual {
		return Edit{}, false
	}
	if !hasLinkageKeyword(text) {
		return Edit{}, false
	}

	res, warnings, err := Tidy(text, h.Opts)
	for _, w := range warnings {
		h.Diag.Warn(w)
	}
	if err != nil {
		h.Diag.Error("import reorganization abandoned", "error", err)
		return Edit{}, false
	}
	if !res.Changed {
		return Edit{}, false
	}
	return res.Edit, true
}

// encodeEdit renders a hook result as a JSON object for editor extensions:
// {"changed": bool, "start": n, "end": n, "newText": "..."}.
func encodeEdit(edit Edit, changed bool) ([]byte, error) {
	fields := map[string]any{"changed": changed}
	if changed {
		fields["start"] = edit.Start
		fields["end"] = edit.End
		fields["newText"] = edit.NewText
	}
	payload, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("building edit payload: %w", err)
	}
	return protojson.Marshal(payload)
}

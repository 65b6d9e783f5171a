package main

import (
	"fmt"
	"strings"
)

// GroupSpans partitions the block's spans into groups separated by
// separators, in discovery order. Each statement's member list is sorted as
// it is collected; statements whose list cannot be parsed are kept opaque
// and reported in the returned warnings.
func GroupSpans(spans []*Span, opts Options) (*Layout, []string) {
	layout := &Layout{}
	var warnings []string
	var current []*Statement

	for i, sp := range spans {
		switch sp.Kind {
		case KindComment:
			if opts.Variant == VariantTypes && isTypeMarker(spans, i, opts.marker()) {
				// Generated by the reconstructor; it is written again there.
				continue
			}
			layout.Groups = append(layout.Groups, current)
			layout.Separators = append(layout.Separators, sp)
			current = nil
		case KindDynamicLoad, KindRequireLoad:
			layout.Groups = append(layout.Groups, current)
			layout.Separators = append(layout.Separators, sp)
			current = nil
		case KindImport, KindTypeImport, KindReExport, KindReExportAll:
			st, warning := newStatement(sp, opts.Variant)
			if warning != "" {
				warnings = append(warnings, warning)
			}
			current = append(current, st)
		default:
			panic(fmt.Sprintf("unhandled span kind %v", sp.Kind))
		}
	}
	layout.Groups = append(layout.Groups, current)

	return layout, warnings
}

// newStatement builds a Statement from a span and normalizes its members.
func newStatement(sp *Span, variant Variant) (*Statement, string) {
	st := &Statement{
		Kind:  sp.Kind,
		Line:  sp.StartLine + 1,
		Lines: append([]string(nil), sp.Lines...),
		Path:  modulePath(sp.Text()),
	}
	if err := sortMembers(st, variant); err != nil {
		st.Opaque = true
		return st, fmt.Sprintf("line %d: %s left unsorted: %v", st.Line, st.Kind, err)
	}
	return st, ""
}

// isTypeMarker reports whether spans[i] is a marker line written by Emit: the
// marker text followed by at least two type-only imports.
func isTypeMarker(spans []*Span, i int, marker string) bool {
	sp := spans[i]
	if len(sp.Lines) != 1 || strings.TrimSpace(sp.Lines[0]) != strings.TrimSpace(marker) {
		return false
	}
	return i+2 < len(spans) &&
		spans[i+1].Kind == KindTypeImport &&
		spans[i+2].Kind == KindTypeImport
}

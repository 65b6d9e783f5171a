package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Verify checks that the tidied output only reorders the import block of
// the original.
func Verify(original, tidied string, opts Options) error {
	if err := verifyContentIntegrity(original, tidied, opts); err != nil {
		return fmt.Errorf("content integrity check failed: %w", err)
	}
	return nil
}

// inventory is the order-insensitive content of a file's import block.
type inventory struct {
	found      bool
	prefix     string
	suffix     string
	statements map[string]int // statement key -> occurrences
	separators []string       // separator texts in order
}

func takeInventory(content string, opts Options) (*inventory, error) {
	inv := &inventory{statements: make(map[string]int)}
	if !hasLinkageKeyword(content) {
		return inv, nil
	}

	scanner, err := NewScanner(opts.Backend)
	if err != nil {
		return nil, err
	}
	src := NewSource(content)
	spans, err := scanner.Scan(src, opts.Variant)
	if err != nil {
		return nil, err
	}
	block, ok := Locate(src, spans)
	if !ok {
		return inv, nil
	}

	inv.found = true
	inv.prefix = block.Prefix
	inv.suffix = block.Suffix
	layout, _ := GroupSpans(block.Spans, opts)
	for i, group := range layout.Groups {
		for _, st := range group {
			inv.statements[st.Kind.String()+"|"+st.Text()]++
		}
		if i < len(layout.Separators) {
			inv.separators = append(inv.separators, layout.Separators[i].Text())
		}
	}
	return inv, nil
}

// verifyContentIntegrity checks that prefix and suffix are unchanged, that
// the same statements (after member sorting) are present the same number of
// times, and that separators appear verbatim in the same order.
func verifyContentIntegrity(original, tidied string, opts Options) error {
	orig, err := takeInventory(original, opts)
	if err != nil {
		return fmt.Errorf("scanning original: %w", err)
	}
	got, err := takeInventory(tidied, opts)
	if err != nil {
		return fmt.Errorf("scanning tidied output: %w", err)
	}

	if !orig.found || !got.found {
		if original != tidied {
			return fmt.Errorf("file without an import block was modified")
		}
		return nil
	}

	if orig.prefix != got.prefix {
		return fmt.Errorf("text before the import block changed")
	}
	if orig.suffix != got.suffix {
		return fmt.Errorf("text after the import block changed")
	}

	for key, n := range orig.statements {
		if got.statements[key] != n {
			return fmt.Errorf("statement %q appears %d times, want %d", key, got.statements[key], n)
		}
	}
	for key := range got.statements {
		if _, ok := orig.statements[key]; !ok {
			return fmt.Errorf("unexpected statement %q in tidied output", key)
		}
	}

	if len(orig.separators) != len(got.separators) {
		return fmt.Errorf("separator count mismatch: original has %d, tidied has %d",
			len(orig.separators), len(got.separators))
	}
	for i := range orig.separators {
		if orig.separators[i] != got.separators[i] {
			return fmt.Errorf("separator %d changed: %q became %q", i, orig.separators[i], got.separators[i])
		}
	}

	return nil
}

// DiffStrings returns a unified diff between a and b.
func DiffStrings(a, b, nameA, nameB string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(a),
		B:        splitLines(b),
		FromFile: nameA,
		ToFile:   nameB,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}

// splitLines splits text for difflib. difflib.SplitLines turns a final
// newline into an extra empty line, so that newline is dropped first.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return difflib.SplitLines(strings.TrimSuffix(text, "\n"))
}

// VerboseReport describes how a file's import block was read.
func VerboseReport(content string, opts Options) string {
	var out strings.Builder

	scanner, err := NewScanner(opts.Backend)
	if err != nil {
		fmt.Fprintf(&out, "  %v\n", err)
		return out.String()
	}
	src := NewSource(content)
	spans, err := scanner.Scan(src, opts.Variant)
	if err != nil {
		fmt.Fprintf(&out, "  scan failed: %v\n", err)
		return out.String()
	}
	block, ok := Locate(src, spans)
	if !ok {
		out.WriteString("  no import block\n")
		return out.String()
	}

	first := block.Spans[0].StartLine + 1
	last := block.Spans[len(block.Spans)-1].EndLine
	fmt.Fprintf(&out, "  import block: lines %d-%d (%s, %s scanner)\n", first, last, opts.Variant, backendName(opts.Backend))

	layout, _ := GroupSpans(block.Spans, opts)
	bucket := sortLayout(layout)
	counts := make(map[string]int)
	for i, group := range layout.Groups {
		fmt.Fprintf(&out, "  group %d: %d statement(s)\n", i+1, len(group))
		for _, st := range group {
			counts[st.Kind.String()]++
		}
		if i < len(layout.Separators) {
			sep := layout.Separators[i]
			fmt.Fprintf(&out, "  separator (%s) at line %d\n", sep.Kind, sep.StartLine+1)
		}
	}
	if len(bucket) > 0 {
		fmt.Fprintf(&out, "  type bucket: %d statement(s), placement %s\n", len(bucket), opts.placement())
	}

	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(&out, "  %s: %d\n", k, counts[k])
	}
	return out.String()
}

func backendName(name string) string {
	if name == "" {
		return BackendLine
	}
	return name
}

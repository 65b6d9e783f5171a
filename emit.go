package main

import "strings"

// Emit produces the full file text: the untouched prefix, the rebuilt
// block, and the untouched suffix. Groups and separators keep their
// discovery order; the type bucket is placed by opts' placement policy.
func Emit(block *Block, layout *Layout, bucket []*Statement, opts Options, eol string) string {
	var out strings.Builder
	out.WriteString(block.Prefix)

	writeLine := func(line string) {
		out.WriteString(line)
		out.WriteString(eol)
	}
	writeStatement := func(st *Statement) {
		for _, line := range st.Lines {
			writeLine(line)
		}
	}

	pending := len(bucket) > 0
	writeBucket := func() {
		if len(bucket) > 1 {
			writeLine(opts.marker())
		}
		for _, st := range bucket {
			writeStatement(st)
		}
		pending = false
	}

	placement := opts.placement()
	threshold := 0
	if pending {
		threshold = bucket[0].SortKey()
	}

	for i, group := range layout.Groups {
		for _, st := range group {
			if pending && (placement == PlacementFirst ||
				placement == PlacementShortest && st.SortKey() > threshold) {
				writeBucket()
			}
			writeStatement(st)
		}
		if i < len(layout.Separators) {
			for _, line := range layout.Separators[i].Lines {
				writeLine(line)
			}
		}
	}
	if pending {
		writeBucket()
	}

	if block.Unterminated {
		return strings.TrimSuffix(out.String(), eol)
	}

	switch {
	case block.Gap != "":
		out.WriteString(block.Gap)
	case block.Suffix != "":
		out.WriteString(eol)
	}
	out.WriteString(block.Suffix)

	return out.String()
}

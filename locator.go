package main

import "strings"

// maxBlankRun is the longest run of blank lines that can sit inside the
// import block. A longer run ends it.
const maxBlankRun = 2

// Locate finds the import block: the run of spans around the first linkage
// statement or load, continuing across short blank gaps and further spans,
// and ending at the first non-blank line no span covers. Comments reached
// this way belong to the block on either side of the linkage spans.
// It reports false when the file has no linkage span.
func Locate(src *Source, spans []*Span) (*Block, bool) {
	linkage := -1
	for i, sp := range spans {
		if sp.Kind != KindComment {
			linkage = i
			break
		}
	}
	if linkage < 0 {
		return nil, false
	}

	first := linkage
	for first > 0 && src.joined(spans[first-1], spans[first]) {
		first--
	}

	last := linkage
	longGap := false
	for i := last + 1; i < len(spans); i++ {
		gapStart, gapEnd := spans[i-1].EndLine, spans[i].StartLine
		if !src.blankRun(gapStart, gapEnd) {
			break
		}
		if gapEnd-gapStart > maxBlankRun {
			longGap = true
			break
		}
		last = i
	}

	included := spans[first : last+1]
	endLine := included[len(included)-1].EndLine
	suffixLine := endLine
	for suffixLine < len(src.Lines) && src.blankRun(suffixLine, suffixLine+1) {
		suffixLine++
	}

	block := &Block{
		Prefix: src.Text[:included[0].Start],
		Suffix: src.Text[src.Offset(suffixLine):],
		Start:  included[0].Start,
		End:    src.Offset(endLine),
		Spans:  included,
	}
	block.Unterminated = endLine == len(src.Lines) && !strings.HasSuffix(src.Text, "\n")
	if longGap {
		// The long blank run is the boundary and stays as it was.
		block.Gap = src.Text[block.End:src.Offset(suffixLine)]
	}
	return block, true
}

// joined reports whether only a short run of blank lines separates a from
// the span b that follows it.
func (s *Source) joined(a, b *Span) bool {
	return b.StartLine-a.EndLine <= maxBlankRun && s.blankRun(a.EndLine, b.StartLine)
}

package main

import "sort"

// statementLess orders statements by the trimmed length of their last
// line, then by module path, then by full text so no two distinct
// statements tie.
func statementLess(a, b *Statement) bool {
	if ka, kb := a.SortKey(), b.SortKey(); ka != kb {
		return ka < kb
	}
	if a.Path != b.Path {
		return a.Path < b.Path
	}
	return a.Text() < b.Text()
}

// SortStatements orders a group in place.
func SortStatements(group []*Statement) {
	sort.SliceStable(group, func(i, j int) bool {
		return statementLess(group[i], group[j])
	})
}

// extractTypeBucket removes type-only imports from every group of the
// layout and returns them sorted.
func extractTypeBucket(layout *Layout) []*Statement {
	var bucket []*Statement
	for i, group := range layout.Groups {
		var kept []*Statement
		for _, st := range group {
			if st.Kind == KindTypeImport {
				bucket = append(bucket, st)
				continue
			}
			kept = append(kept, st)
		}
		layout.Groups[i] = kept
	}
	SortStatements(bucket)
	return bucket
}

// sortLayout sorts every group and splits off the type bucket.
func sortLayout(layout *Layout) []*Statement {
	bucket := extractTypeBucket(layout)
	for _, group := range layout.Groups {
		SortStatements(group)
	}
	return bucket
}

package main

import (
	"fmt"
	"regexp"
	"strings"
)

// Scanner turns source text into ordered, non-overlapping spans of linkage
// statements and separators. Nothing is reordered or grouped here.
type Scanner interface {
	Scan(src *Source, variant Variant) ([]*Span, error)
}

// Backend names accepted by NewScanner.
const (
	BackendLine  = "line"
	BackendToken = "token"
)

// NewScanner returns the scanner back end registered under name.
// The empty name selects the line scanner.
func NewScanner(name string) (Scanner, error) {
	switch name {
	case "", BackendLine:
		return LineScanner{}, nil
	case BackendToken:
		return TokenScanner{}, nil
	default:
		return nil, fmt.Errorf("unknown scanner backend %q (want %q or %q)", name, BackendLine, BackendToken)
	}
}

// Pre-compiled regexes for statement start detection. All of them run
// against a line with leading whitespace removed.
var (
	importStartRe   = regexp.MustCompile(`^import(\s|[{*'"])`)
	typeImportRe    = regexp.MustCompile(`^import\s+type(\s*\{|\s+\*|\s+[\w$]+\s*(,|=|from\b))`)
	reExportAllRe   = regexp.MustCompile(`^export\s+(type\s+)?\*`)
	reExportListRe  = regexp.MustCompile(`^export\s+(type\s*)?\{`)
	loadStartRe     = regexp.MustCompile(`^const\s+([\w$]+|\{[^}]*\})\s*=\s*(await\s+)?(import|require)\s*\(`)
	fromClauseRe    = regexp.MustCompile(`\}\s*from\s*['"]`)
	fromPathRe      = regexp.MustCompile(`\bfrom\s*(['"])([^'"]*)['"]`)
	sideEffectRe    = regexp.MustCompile(`^\s*import\s*(['"])([^'"]*)['"]`)
	callPathRe      = regexp.MustCompile(`\b(?:require|import)\s*\(\s*(['"])([^'"]*)['"]`)
	keywordPresence = regexp.MustCompile(`\b(import|export)\b`)
)

// startKind classifies a trimmed line that may begin a span. A re-export
// list is only provisional: the caller must confirm its `from` clause once
// the whole statement has been read.
func startKind(trimmed string, variant Variant) (SpanKind, bool) {
	switch {
	case strings.HasPrefix(trimmed, "//"), strings.HasPrefix(trimmed, "/*"):
		return KindComment, true
	case importStartRe.MatchString(trimmed):
		if variant == VariantTypes && typeImportRe.MatchString(trimmed) {
			return KindTypeImport, true
		}
		return KindImport, true
	case reExportAllRe.MatchString(trimmed):
		return KindReExportAll, true
	case reExportListRe.MatchString(trimmed):
		return KindReExport, true
	}
	if m := loadStartRe.FindStringSubmatch(trimmed); m != nil {
		if m[3] == "require" {
			return KindRequireLoad, true
		}
		return KindDynamicLoad, true
	}
	return 0, false
}

// hasFromClause reports whether a brace-list export re-exports from a module.
func hasFromClause(text string) bool {
	return fromClauseRe.MatchString(text)
}

// hasLinkageKeyword is the cheap pre-check that lets callers skip files
// without any import or export.
func hasLinkageKeyword(content string) bool {
	return keywordPresence.MatchString(content)
}

// modulePath extracts the module specifier of a statement or load.
func modulePath(text string) string {
	for _, re := range []*regexp.Regexp{fromPathRe, sideEffectRe, callPathRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[2]
		}
	}
	return ""
}

// bracketDelta returns the change in {}/() nesting across a line, ignoring
// quoted strings and anything after a line comment.
func bracketDelta(line string) int {
	depth := 0
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch c {
		case '"', '\'', '`':
			for i++; i < len(line) && line[i] != c; i++ {
				if line[i] == '\\' {
					i++
				}
			}
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				return depth
			}
		case '{', '(':
			depth++
		case '}', ')':
			depth--
		}
	}
	return depth
}

// LineScanner is the line-heuristic back end. It never fails: an
// unterminated statement runs to end of file.
type LineScanner struct{}

func (LineScanner) Scan(src *Source, variant Variant) ([]*Span, error) {
	var spans []*Span
	lines := src.Lines

	for i := 0; i < len(lines); {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			i++
			continue
		}

		kind, ok := startKind(trimmed, variant)
		if !ok {
			i++
			continue
		}

		var end int
		if kind == KindComment {
			end = commentEnd(lines, i)
		} else {
			end = statementEnd(lines, i)
		}

		span := newSpan(src, kind, i, end)
		i = end
		if kind == KindReExport && !hasFromClause(span.Text()) {
			continue // local export list, not part of the import section
		}
		spans = append(spans, span)
	}

	return spans, nil
}

// statementEnd returns the exclusive end line of a statement starting at
// line i: it continues while a brace or paren opened on it is unclosed.
func statementEnd(lines []string, i int) int {
	depth := bracketDelta(lines[i])
	j := i + 1
	for depth > 0 && j < len(lines) {
		depth += bracketDelta(lines[j])
		j++
	}
	return j
}

// commentEnd returns the exclusive end line of a comment starting at line i.
// Block comments extend to the line holding their closing token.
func commentEnd(lines []string, i int) int {
	trimmed := strings.TrimSpace(lines[i])
	if !strings.HasPrefix(trimmed, "/*") {
		return i + 1
	}
	if strings.Contains(trimmed[2:], "*/") {
		return i + 1
	}
	for j := i + 1; j < len(lines); j++ {
		if strings.Contains(lines[j], "*/") {
			return j + 1
		}
	}
	return len(lines)
}

package main

import (
	"fmt"
	"sort"
	"strings"
)

// SpanKind identifies what a scanned span of the import section holds.
type SpanKind int

const (
	KindImport      SpanKind = iota // import ... from '...'
	KindTypeImport                  // import type ... from '...'
	KindReExport                    // export { ... } from '...'
	KindReExportAll                 // export * from '...'
	KindDynamicLoad                 // const x = import('...')
	KindRequireLoad                 // const x = require('...')
	KindComment                     // standalone // or /* */ comment
)

func (k SpanKind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindTypeImport:
		return "import-type"
	case KindReExport:
		return "re-export"
	case KindReExportAll:
		return "re-export-all"
	case KindDynamicLoad:
		return "dynamic-load"
	case KindRequireLoad:
		return "require-load"
	case KindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// IsSeparator reports whether spans of this kind break statements into
// groups. Separators are emitted verbatim and never reordered.
func (k SpanKind) IsSeparator() bool {
	switch k {
	case KindImport, KindTypeImport, KindReExport, KindReExportAll:
		return false
	case KindDynamicLoad, KindRequireLoad, KindComment:
		return true
	default:
		panic(fmt.Sprintf("unhandled span kind %d", int(k)))
	}
}

// Variant selects the source dialect.
type Variant int

const (
	VariantPlain Variant = iota // JavaScript: no type-only imports
	VariantTypes                // TypeScript: `import type` and `type` members
)

func (v Variant) String() string {
	if v == VariantTypes {
		return "types"
	}
	return "plain"
}

// Source is an immutable snapshot of a file split into lines.
type Source struct {
	Text   string
	Lines  []string // without line terminators
	Starts []int    // byte offset of each line start
	EOL    string   // "\n" or "\r\n", taken from the first terminated line
}

// NewSource splits text into lines. A trailing newline terminates the last
// line rather than starting an empty one.
func NewSource(text string) *Source {
	raw := strings.Split(text, "\n")
	if len(raw) > 1 && raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	src := &Source{
		Text:   text,
		Lines:  make([]string, len(raw)),
		Starts: make([]int, len(raw)),
		EOL:    "\n",
	}
	if strings.Contains(text, "\n") && strings.HasSuffix(raw[0], "\r") {
		src.EOL = "\r\n"
	}
	offset := 0
	for i, line := range raw {
		src.Starts[i] = offset
		offset += len(line) + 1
		if offset <= len(text) {
			line = strings.TrimSuffix(line, "\r")
		}
		src.Lines[i] = line
	}
	return src
}

// Offset returns the byte offset at which line begins; len(Text) past the end.
func (s *Source) Offset(line int) int {
	if line >= len(s.Starts) {
		return len(s.Text)
	}
	return s.Starts[line]
}

// LineAt returns the index of the line containing byte offset pos.
func (s *Source) LineAt(pos int) int {
	return sort.Search(len(s.Starts), func(i int) bool { return s.Starts[i] > pos }) - 1
}

// blankRun reports whether lines [from, to) are all blank.
func (s *Source) blankRun(from, to int) bool {
	for i := from; i < to; i++ {
		if strings.TrimSpace(s.Lines[i]) != "" {
			return false
		}
	}
	return true
}

// Span is one scanned statement or separator, always covering whole lines.
type Span struct {
	Kind      SpanKind
	StartLine int // first line, inclusive
	EndLine   int // last line, exclusive
	Start     int // byte offset of the first line
	End       int // byte offset just past the last line's terminator
	Lines     []string
}

func newSpan(src *Source, kind SpanKind, startLine, endLine int) *Span {
	if endLine > len(src.Lines) {
		endLine = len(src.Lines)
	}
	return &Span{
		Kind:      kind,
		StartLine: startLine,
		EndLine:   endLine,
		Start:     src.Offset(startLine),
		End:       src.Offset(endLine),
		Lines:     src.Lines[startLine:endLine],
	}
}

// Text returns the span's lines joined with "\n".
func (s *Span) Text() string {
	return strings.Join(s.Lines, "\n")
}

// Member is one named specifier inside a brace list.
type Member struct {
	Name     string
	Alias    string // empty when there is no `as` clause
	TypeOnly bool   // leading `type` qualifier
}

func (m Member) String() string {
	var b strings.Builder
	if m.TypeOnly {
		b.WriteString("type ")
	}
	b.WriteString(m.Name)
	if m.Alias != "" {
		b.WriteString(" as ")
		b.WriteString(m.Alias)
	}
	return b.String()
}

// Statement is a sortable linkage declaration.
type Statement struct {
	Kind    SpanKind
	Line    int // 1-based line of the first source line
	Lines   []string
	Members []Member
	Path    string // module specifier, empty if none
	Opaque  bool   // member list could not be parsed and is left as-is
}

// SortKey is the trimmed length of the statement's last physical line.
func (st *Statement) SortKey() int {
	return len(strings.TrimSpace(st.Lines[len(st.Lines)-1]))
}

// Text returns the statement's lines joined with "\n".
func (st *Statement) Text() string {
	return strings.Join(st.Lines, "\n")
}

// Layout is the import block partitioned by separators: Groups[i] is
// followed by Separators[i], and the last group has no separator after it.
type Layout struct {
	Groups     [][]*Statement
	Separators []*Span
}

// Block is the region of the file subject to reorganization.
type Block struct {
	Prefix string // text before the block, emitted verbatim
	Suffix string // text after the block, emitted verbatim
	Gap    string // kept blank lines when a long blank run ended the block
	Start  int    // byte offset where the block begins
	End    int    // byte offset where the suffix (or gap) begins
	Spans  []*Span

	Unterminated bool // the file ends on the block's last line without a line break
}

// Type bucket placement policies.
const (
	PlacementShortest = "shortest"
	PlacementFirst    = "first"
	PlacementLast     = "last"
)

// Options holds the engine configuration and CLI behavior.
type Options struct {
	Variant       Variant
	Backend       string // "line" or "token"
	TypePlacement string // "shortest", "first" or "last"
	TypeMarker    string // comment line preceding a multi-member type bucket

	Write      bool
	Check      bool
	Diff       bool
	Verify     bool
	DryRun     bool
	Verbose    bool
	Quiet      bool
	Recursive  bool
	Types      string // "auto", "on" or "off"
	Extensions []string
	ConfigFile string
	LogLevel   string
}

// DefaultTypeMarker precedes a type bucket with more than one statement.
const DefaultTypeMarker = "// types"

func (o Options) marker() string {
	if o.TypeMarker == "" {
		return DefaultTypeMarker
	}
	return o.TypeMarker
}

func (o Options) placement() string {
	if o.TypePlacement == "" {
		return PlacementShortest
	}
	return o.TypePlacement
}

package main

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// memberRe matches one specifier: an optional `type` qualifier, an
// identifier or string name, and an optional `as` alias.
var memberRe = regexp.MustCompile(`^(?:(type)\s+)?([\w$]+|'[^']*'|"[^"]*")(?:\s+as\s+([\w$]+))?$`)

// lessText is the two-level comparator used for members and statements:
// shorter first, then byte-wise.
func lessText(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// parseMember parses a single trimmed specifier.
func parseMember(text string, variant Variant) (Member, error) {
	m := memberRe.FindStringSubmatch(text)
	if m == nil {
		return Member{}, fmt.Errorf("%w %q", ErrInvalidMember, text)
	}
	member := Member{Name: m[2], Alias: m[3], TypeOnly: m[1] != ""}
	if member.TypeOnly && variant != VariantTypes {
		return Member{}, fmt.Errorf("%w %q: type qualifier outside TypeScript", ErrInvalidMember, text)
	}
	return member, nil
}

// parseMemberList splits the text between braces into members. A single
// trailing comma is allowed.
func parseMemberList(inner string, variant Variant) ([]Member, error) {
	parts := strings.Split(inner, ",")
	var members []Member
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			if i == len(parts)-1 {
				break
			}
			return nil, fmt.Errorf("%w: empty specifier", ErrInvalidMember)
		}
		m, err := parseMember(strings.Join(strings.Fields(part), " "), variant)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func sortMemberSlice(members []Member) {
	sort.SliceStable(members, func(i, j int) bool {
		return lessText(members[i].String(), members[j].String())
	})
}

func joinMembers(members []Member, sep string) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.String()
	}
	return strings.Join(parts, sep)
}

// sortMembers sorts the brace list of st in place and re-renders its lines.
// Statements without a brace list are left alone. Default and namespace
// specifiers before the brace are never moved.
func sortMembers(st *Statement, variant Variant) error {
	if len(st.Lines) == 1 {
		return sortSingleLine(st, variant)
	}
	return sortMultiLine(st, variant)
}

func sortSingleLine(st *Statement, variant Variant) error {
	line := st.Lines[0]
	open := strings.IndexByte(line, '{')
	if open < 0 || commentBefore(line, open) {
		return nil
	}
	rel := strings.IndexByte(line[open:], '}')
	if rel < 0 {
		return ErrUnterminatedList
	}
	closing := open + rel
	inner := line[open+1 : closing]
	if strings.Contains(inner, "/*") || strings.Contains(inner, "//") {
		return ErrCommentInList
	}

	members, err := parseMemberList(inner, variant)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return nil
	}
	sortMemberSlice(members)

	pad := ""
	if strings.HasPrefix(inner, " ") {
		pad = " "
	}
	st.Members = members
	st.Lines = []string{line[:open+1] + pad + joinMembers(members, ", ") + pad + line[closing:]}
	return nil
}

// commentBefore reports whether a comment starts in line before pos.
func commentBefore(line string, pos int) bool {
	for _, tok := range []string{"//", "/*"} {
		if i := strings.Index(line, tok); i >= 0 && i < pos {
			return true
		}
	}
	return false
}

func sortMultiLine(st *Statement, variant Variant) error {
	first := st.Lines[0]
	open := strings.IndexByte(first, '{')
	if open < 0 {
		// No brace list (e.g. a call spanning lines): nothing to sort.
		return nil
	}
	if strings.TrimSpace(first[open+1:]) != "" {
		return ErrMixedListLayout
	}
	last := st.Lines[len(st.Lines)-1]
	if !strings.HasPrefix(strings.TrimSpace(last), "}") {
		if !strings.Contains(st.Text(), "}") {
			return ErrUnterminatedList
		}
		return ErrMixedListLayout
	}

	body := st.Lines[1 : len(st.Lines)-1]
	indent := ""
	for _, line := range body {
		trimmed := strings.TrimSpace(line)
		if strings.Contains(trimmed, "//") || strings.Contains(trimmed, "/*") {
			return ErrCommentInList
		}
		if strings.ContainsAny(trimmed, "{}") {
			return ErrMixedListLayout
		}
		if indent == "" && trimmed != "" {
			indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		}
	}
	if indent == "" {
		indent = "  "
	}

	members, err := parseMemberList(strings.Join(body, "\n"), variant)
	if err != nil {
		return err
	}
	sortMemberSlice(members)

	lines := make([]string, 0, len(members)+2)
	lines = append(lines, first)
	for _, m := range members {
		lines = append(lines, indent+m.String()+",")
	}
	lines = append(lines, last)

	st.Members = members
	st.Lines = lines
	return nil
}

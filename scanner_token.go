package main

import (
	"fmt"
	"strings"
)

// TokenScanner is the lexical back end. It reads linkage statements token
// by token, so braces, parens and semicolons inside string literals and
// comments never confuse statement boundaries. Other code is lexed for
// strings and comments only, so import-like lines inside a multi-line
// template literal or block comment are not spans. An unterminated string
// literal inside a statement is reported as an error.
type TokenScanner struct{}

func (TokenScanner) Scan(src *Source, variant Variant) ([]*Span, error) {
	s := &tokenScanner{src: src, content: src.Text, variant: variant}
	return s.scan()
}

type tokenScanner struct {
	src     *Source
	content string
	pos     int
	variant Variant
}

func (s *tokenScanner) atEnd() bool {
	return s.pos >= len(s.content)
}

func (s *tokenScanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.content[s.pos]
}

func (s *tokenScanner) peekAt(offset int) byte {
	i := s.pos + offset
	if i >= len(s.content) {
		return 0
	}
	return s.content[i]
}

func (s *tokenScanner) scan() ([]*Span, error) {
	var spans []*Span

	for {
		s.skipWhitespace()
		if s.atEnd() {
			break
		}

		startLine := s.src.LineAt(s.pos)
		kind, ok := startKind(strings.TrimSpace(s.src.Lines[startLine]), s.variant)
		if !ok {
			s.skipCodeLine()
			continue
		}

		if kind == KindComment {
			if s.peek() == '/' && s.peekAt(1) == '*' {
				s.skipBlockComment()
			}
			s.skipToEndOfLine()
		} else {
			if err := s.readStatement(); err != nil {
				return nil, err
			}
			// Trailing comment or stray text on the closing line belongs to
			// the statement.
			s.skipToEndOfLine()
		}

		endLine := s.src.LineAt(s.pos-1) + 1
		span := newSpan(s.src, kind, startLine, endLine)
		if kind == KindReExport && !hasFromClause(span.Text()) {
			continue
		}
		spans = append(spans, span)
	}

	return spans, nil
}

// skipWhitespace skips spaces, tabs and line breaks.
func (s *tokenScanner) skipWhitespace() {
	for !s.atEnd() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.pos++
		default:
			return
		}
	}
}

func (s *tokenScanner) skipToEndOfLine() {
	for !s.atEnd() && s.peek() != '\n' {
		s.pos++
	}
	if !s.atEnd() {
		s.pos++ // consume the newline
	}
}

// skipCodeLine advances past a line that starts no span. Its strings and
// comments are lexed, so a template literal or block comment opened here
// also covers the lines it spans.
func (s *tokenScanner) skipCodeLine() {
	for !s.atEnd() {
		c := s.peek()
		switch {
		case c == '\n':
			s.pos++
			return
		case c == '"' || c == '\'' || c == '`':
			// Outside a linkage statement an unclosed quote just ends at the
			// line break.
			_ = s.skipString(c)
		case c == '/' && s.peekAt(1) == '/':
			s.skipLineComment()
		case c == '/' && s.peekAt(1) == '*':
			s.skipBlockComment()
		default:
			s.pos++
		}
	}
}

// skipLineComment skips to the newline without consuming it.
func (s *tokenScanner) skipLineComment() {
	for !s.atEnd() && s.peek() != '\n' {
		s.pos++
	}
}

func (s *tokenScanner) skipBlockComment() {
	s.pos += 2 // skip /*
	for !s.atEnd() {
		if s.peek() == '*' && s.peekAt(1) == '/' {
			s.pos += 2
			return
		}
		s.pos++
	}
}

// skipString skips a quoted literal. Single and double quoted strings may
// not cross a line break; template literals may.
func (s *tokenScanner) skipString(quote byte) error {
	start := s.pos
	s.pos++ // skip opening quote
	for !s.atEnd() {
		c := s.peek()
		if c == '\\' {
			s.pos += 2 // skip escape sequence
			continue
		}
		if c == quote {
			s.pos++
			return nil
		}
		if c == '\n' && quote != '`' {
			break
		}
		s.pos++
	}
	return &ParseError{
		Line: s.src.LineAt(start) + 1,
		Err:  fmt.Errorf("unterminated string literal %q", strings.TrimSpace(s.content[start:s.pos])),
	}
}

// readStatement reads one statement: it stops after a ';' at depth zero,
// before a line break at depth zero, or at end of file.
func (s *tokenScanner) readStatement() error {
	depth := 0
	for !s.atEnd() {
		c := s.peek()
		switch {
		case c == '"' || c == '\'' || c == '`':
			if err := s.skipString(c); err != nil {
				return err
			}
		case c == '/' && s.peekAt(1) == '/':
			s.skipLineComment()
		case c == '/' && s.peekAt(1) == '*':
			s.skipBlockComment()
		case c == '{' || c == '(':
			depth++
			s.pos++
		case c == '}' || c == ')':
			depth--
			s.pos++
		case c == ';' && depth <= 0:
			s.pos++
			return nil
		case c == '\n' && depth <= 0:
			return nil
		default:
			s.pos++
		}
	}
	return nil
}

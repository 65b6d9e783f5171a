package main

import "fmt"

// Edit replaces the byte range [Start, End) of the original text with
// NewText.
type Edit struct {
	Start   int
	End     int
	NewText string
}

// Result is the outcome of one engine run. The zero Result means no change.
type Result struct {
	Changed bool
	Edit    Edit
}

// Tidy reorganizes the leading import section of content. It has no side
// effects: warnings about statements left unsorted are returned, and any
// failure yields a zero Result together with an *EngineFault.
func Tidy(content string, opts Options) (res Result, warnings []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, warnings, err = Result{}, nil, &EngineFault{Err: fmt.Errorf("internal error: %v", r)}
		}
	}()

	if !hasLinkageKeyword(content) {
		return Result{}, nil, nil
	}

	scanner, err := NewScanner(opts.Backend)
	if err != nil {
		return Result{}, nil, &EngineFault{Err: err}
	}

	src := NewSource(content)
	spans, err := scanner.Scan(src, opts.Variant)
	if err != nil {
		return Result{}, nil, &EngineFault{Err: err}
	}

	block, ok := Locate(src, spans)
	if !ok {
		return Result{}, nil, nil
	}

	layout, warnings := GroupSpans(block.Spans, opts)
	bucket := sortLayout(layout)

	output := Emit(block, layout, bucket, opts, src.EOL)
	if output == content {
		return Result{}, warnings, nil
	}

	return Result{
		Changed: true,
		Edit:    Edit{Start: 0, End: len(content), NewText: output},
	}, warnings, nil
}

// Apply returns content with the result's edit applied.
func (r Result) Apply(content string) string {
	if !r.Changed {
		return content
	}
	return content[:r.Edit.Start] + r.Edit.NewText + content[r.Edit.End:]
}

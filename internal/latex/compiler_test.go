package latex

import (
	"testing"
)

const sampleLog = `This is pdfTeX, Version 3.141592653
(./doc.tex
LaTeX Warning: Reference 'fig:one' on page 1 undefined on input line 12.

! Undefined control sequence.
l.20 \badmacro
Overfull \hbox (1.5pt too wide) in paragraph
Package hyperref Warning: Token not allowed in a PDF string.
! Missing $ inserted.
! Undefined control sequence.
)
`

func TestParseErrors(t *testing.T) {
	errs := parseErrors(sampleLog)
	want := []string{"Undefined control sequence.", "Missing $ inserted."}
	if len(errs) != len(want) {
		t.Fatalf("got %d errors %v, want %d", len(errs), errs, len(want))
	}
	for i := range want {
		if errs[i] != want[i] {
			t.Errorf("errs[%d] = %q, want %q", i, errs[i], want[i])
		}
	}
}

func TestParseWarnings(t *testing.T) {
	warns := parseWarnings(sampleLog)
	if len(warns) != 2 {
		t.Fatalf("got %d warnings %v, want 2", len(warns), warns)
	}
	if warns[0] != "Reference 'fig:one' on page 1 undefined on input line 12." {
		t.Errorf("warns[0] = %q", warns[0])
	}
	if warns[1] != "Token not allowed in a PDF string." {
		t.Errorf("warns[1] = %q", warns[1])
	}
}

func TestParseCleanLog(t *testing.T) {
	logText := "This is pdfTeX\nOutput written on doc.pdf (2 pages).\n"
	if errs := parseErrors(logText); len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}
	if warns := parseWarnings(logText); len(warns) != 0 {
		t.Fatalf("unexpected warnings %v", warns)
	}
}

// Package render turns raw task text into output ready for a concrete
// target. Both renderers delegate extraction and validation to the formula
// package, so a span blocked in print output is blocked in hypertext
// output too. Renderers differ only in how they escape plain text and how
// they mark valid or rejected formulas.
package render

import (
	"github.com/yungbote/taskbank-backend/internal/formula"
)

// Result is one rendered text field plus the diagnostics collected while
// rendering it.
type Result struct {
	Output          string
	HasMath         bool
	TotalFormulas   int
	BlockedFormulas int
	Errors          []string
	Warnings        []string
}

// Renderer renders one text field for a single output target.
type Renderer interface {
	RenderText(text string) Result
}

func baseResult(pr formula.ProcessResult) Result {
	return Result{
		HasMath:       pr.HasMath,
		TotalFormulas: pr.TotalFormulas,
		Errors:        pr.Errors,
		Warnings:      pr.Warnings,
	}
}

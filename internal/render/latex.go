package render

import (
	"fmt"
	"strings"

	"github.com/yungbote/taskbank-backend/internal/formula"
	"github.com/yungbote/taskbank-backend/internal/logger"
)

// latexEscaper rewrites every character pdflatex treats specially. A
// strings.Replacer works in a single pass, so the braces and backslashes
// inside replacement text are never escaped again.
var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`<`, `\textless{}`,
	`>`, `\textgreater{}`,
	"\n", `\\ `,
)

// EscapeLaTeX escapes s for use as literal text in a LaTeX document.
func EscapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}

// blockedToken stands in for a stripped dangerous command while the
// surrounding segment is being escaped. Alphanumeric only, so the escaper
// passes it through untouched.
const blockedToken = "BLOCKEDCOMMANDTOKEN"

// LaTeXRenderer emits text for pdflatex. Valid formulas become \(...\) or
// \[...\] with their content passed through verbatim; everything outside
// math is sanitized and escaped.
type LaTeXRenderer struct {
	log *logger.Logger
}

func NewLaTeXRenderer(baseLog *logger.Logger) *LaTeXRenderer {
	return &LaTeXRenderer{log: baseLog.With("renderer", "latex")}
}

func (r *LaTeXRenderer) RenderText(text string) Result {
	if text == "" {
		return Result{}
	}

	pr := formula.ProcessTextSafe(text)
	res := baseResult(pr)

	if !pr.HasMath {
		res.Output = escapeLaTeXSegment(text)
		return res
	}

	var b strings.Builder
	last := 0
	for _, f := range pr.Formulas {
		b.WriteString(escapeLaTeXSegment(text[last:f.Start]))
		b.WriteString(r.renderFormula(f, &res))
		last = f.End
	}
	b.WriteString(escapeLaTeXSegment(text[last:]))

	res.Output = b.String()
	return res
}

func (r *LaTeXRenderer) renderFormula(f formula.Formula, res *Result) string {
	if !f.Validation.IsValid {
		res.BlockedFormulas++
		for _, e := range f.Validation.Errors {
			if formula.IsDangerousCommandError(e) {
				r.log.Warn("blocked dangerous formula", "errors", f.Validation.Errors)
				return `\textbf{[BLOCKED COMMAND]}`
			}
		}
		return fmt.Sprintf(`\textbf{[ERROR: %d problems]}`, len(f.Validation.Errors))
	}

	if f.Type == formula.Display {
		return `\[` + f.Content + `\]`
	}
	return `\(` + f.Content + `\)`
}

// escapeLaTeXSegment prepares one plain-text run: dangerous commands are
// swapped for a token before escaping, then the token becomes a visible
// marker so the reader can see something was removed.
func escapeLaTeXSegment(s string) string {
	s = formula.ReplaceDangerous(s, blockedToken)
	s = EscapeLaTeX(s)
	return strings.ReplaceAll(s, blockedToken, `\textbf{[BLOCKED]}`)
}

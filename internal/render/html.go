package render

import (
	"fmt"
	"strings"

	"github.com/yungbote/taskbank-backend/internal/formula"
	"github.com/yungbote/taskbank-backend/internal/logger"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// EscapeHTML escapes s for use as literal text or attribute content.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// HTMLRenderer emits text for the browser. Valid formulas stay
// byte-identical, delimiters included, because MathJax picks them up
// client-side; everything else is escaped. Protected regions are held out
// of escaping behind alphanumeric placeholder tokens.
type HTMLRenderer struct {
	log *logger.Logger
}

func NewHTMLRenderer(baseLog *logger.Logger) *HTMLRenderer {
	return &HTMLRenderer{log: baseLog.With("renderer", "html")}
}

func (r *HTMLRenderer) RenderText(text string) Result {
	if text == "" {
		return Result{}
	}

	pr := formula.ProcessTextSafe(text)
	res := baseResult(pr)

	if !pr.HasMath {
		res.Output = EscapeHTML(text)
		return res
	}

	protected := make(map[string]string, len(pr.Formulas))
	var b strings.Builder
	last := 0
	for i, f := range pr.Formulas {
		b.WriteString(text[last:f.Start])
		token := fmt.Sprintf("FORMULAPLACEHOLDER%dFORMULAPLACEHOLDER", i)
		protected[token] = r.renderFormula(f, &res)
		b.WriteString(token)
		last = f.End
	}
	b.WriteString(text[last:])

	out := EscapeHTML(b.String())
	for token, repl := range protected {
		out = strings.Replace(out, token, repl, 1)
	}

	res.Output = out
	return res
}

func (r *HTMLRenderer) renderFormula(f formula.Formula, res *Result) string {
	if f.Validation.IsValid {
		return f.Original
	}

	res.BlockedFormulas++
	for _, e := range f.Validation.Errors {
		if formula.IsDangerousCommandError(e) {
			r.log.Warn("blocked dangerous formula", "errors", f.Validation.Errors)
			return `<span class="blocked-formula" style="color: red; font-weight: bold;">[BLOCKED COMMAND]</span>`
		}
	}
	return fmt.Sprintf(
		`<span class="formula-error" style="color: orange; font-weight: bold;" title="%s">[ERROR: %d problems]</span>`,
		EscapeHTML(strings.Join(f.Validation.Errors, "; ")),
		len(f.Validation.Errors),
	)
}

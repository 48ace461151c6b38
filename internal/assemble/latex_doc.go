package assemble

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/yungbote/taskbank-backend/internal/render"
)

const latexDocumentTmpl = `\documentclass[12pt]{article}
\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}
\usepackage{amsmath}
\usepackage{amssymb}
\usepackage{amsfonts}
\usepackage{graphicx}
\usepackage[margin=2cm]{geometry}
\usepackage{enumitem}
\setlength{\parindent}{0pt}

\begin{document}

\begin{center}
{\Large \textbf{ {{- .Title -}} }}
{{- if gt .Duration 0}}\\[0.3cm]
Duration: {{.Duration}} minutes
{{- end}}
\end{center}

{{range $i, $v := .Variants -}}
\section*{Variant {{$v.Number}}}
\begin{enumerate}[leftmargin=*]
{{range $v.Tasks -}}
\item {{.Body}}
{{if and $.Opts.IncludeAnswers .Answer}}\par\textbf{Answer:} {{.Answer}}
{{end -}}
{{if and $.Opts.IncludeAnswers .Hint}}\par\textbf{Hint:} {{.Hint}}
{{end -}}
{{if and $.Opts.IncludeShortSolutions .ShortSolution}}\par\textbf{Solution (short):} {{.ShortSolution}}
{{end -}}
{{if and $.Opts.IncludeFullSolutions .FullSolution}}\par\textbf{Solution:} {{.FullSolution}}
{{end -}}
{{end -}}
\end{enumerate}
{{if not (eq (inc $i) (len $.Variants))}}\newpage
{{end}}
{{- end}}
\end{document}
`

var latexDocument = template.Must(template.New("latex_document").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(latexDocumentTmpl))

type latexDocumentData struct {
	Title    string
	Duration int
	Variants []VariantSection
	Opts     Options
}

// BuildLaTeX assembles the complete .tex source. Variant bodies must
// already be rendered for the print target; only the title is escaped
// here.
func BuildLaTeX(doc Document, opts Options) (string, error) {
	data := latexDocumentData{
		Title:    render.EscapeLaTeX(doc.Title),
		Duration: doc.Duration,
		Variants: doc.Variants,
		Opts:     opts,
	}

	var b strings.Builder
	if err := latexDocument.Execute(&b, data); err != nil {
		return "", fmt.Errorf("assemble latex document: %w", err)
	}
	return b.String(), nil
}

package assemble

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/yungbote/taskbank-backend/internal/render"
)

// The page is self-contained: styles are embedded and images arrive as
// data URIs, so the file renders the same from disk, a server, or inside
// the headless rasterizer. MathJax is configured for the same delimiters
// the formula extractor recognizes.
const htmlDocumentTmpl = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: "Times New Roman", Georgia, serif; font-size: 14pt; margin: 2cm; color: #111; }
.document-header { text-align: center; margin-bottom: 1.5em; }
.document-header h1 { margin: 0 0 0.2em; font-size: 20pt; }
.document-header__duration { font-size: 12pt; }
.document-header__generated { font-size: 10pt; color: #666; }
.variant-section { page-break-after: always; }
.variant-section:last-of-type { page-break-after: auto; }
.variant-section__title { border-bottom: 1px solid #999; padding-bottom: 0.2em; }
.task { margin: 1em 0; display: flex; gap: 0.5em; }
.task__number { font-weight: bold; }
.task__body { flex: 1; }
.task__answer, .task__hint, .task__solution { margin-top: 0.4em; font-size: 12pt; }
.formula-error { color: orange; font-weight: bold; }
.blocked-formula { color: red; font-weight: bold; }
.task-with-image { margin: 0.5em 0; }
.task-with-image_layout_horizontal { display: flex; align-items: flex-start; gap: 1em; }
.task-with-image_layout_horizontal .task-with-image__text { flex: 1; }
.task-with-image_image-size_40 .task-with-image__image { width: 40%; }
.task-with-image_image-size_20 .task-with-image__image { width: 20%; }
.task-with-image_image-size_100 .task-with-image__image { width: 100%; }
.task-with-image_image-size_70 .task-with-image__image { width: 70%; margin: 0 auto; }
.task-with-image_layout_vertical .task-with-image__image { margin-top: 0.5em; }
.task-with-image__img { width: 100%; height: auto; }
.task-with-image__caption { font-size: 11pt; font-style: italic; text-align: center; margin-top: 0.2em; }
@media print {
  .task-with-image_layout_horizontal { display: block; }
  .task-with-image_layout_horizontal .task-with-image__image { float: right; margin-left: 1em; }
  .task-with-image_image-size_40 .task-with-image__image { width: 40%; }
  .task-with-image_image-size_20 .task-with-image__image { width: 20%; }
}
</style>
<script>
window.MathJax = {
  tex: {
    inlineMath: [['$', '$'], ['\\(', '\\)']],
    displayMath: [['$$', '$$'], ['\\[', '\\]']],
    processEscapes: true,
    packages: {'[+]': ['ams']}
  },
  svg: { fontCache: 'global' }
};
</script>
<script src="https://polyfill.io/v3/polyfill.min.js?features=es6"></script>
<script id="MathJax-script" async src="https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-svg.js"></script>
</head>
<body>
<div class="document-header">
<h1>{{.Title}}</h1>
{{- if gt .Duration 0}}
<div class="document-header__duration">Duration: {{.Duration}} minutes</div>
{{- end}}
{{- if .Generated}}
<div class="document-header__generated">Generated {{.Generated}}</div>
{{- end}}
</div>
{{range .Variants}}
<section class="variant-section">
<h2 class="variant-section__title">Variant {{.Number}}</h2>
{{range .Tasks}}
<div class="task">
<div class="task__number">{{.Number}}.</div>
<div class="task__body">{{.Body}}
{{- if and $.Opts.IncludeAnswers .Answer}}
<div class="task__answer"><b>Answer:</b> {{.Answer}}</div>
{{- end}}
{{- if and $.Opts.IncludeAnswers .Hint}}
<div class="task__hint"><b>Hint:</b> {{.Hint}}</div>
{{- end}}
{{- if and $.Opts.IncludeShortSolutions .ShortSolution}}
<div class="task__solution"><b>Solution (short):</b> {{.ShortSolution}}</div>
{{- end}}
{{- if and $.Opts.IncludeFullSolutions .FullSolution}}
<div class="task__solution"><b>Solution:</b> {{.FullSolution}}</div>
{{- end}}
</div>
</div>
{{end}}
</section>
{{end}}
</body>
</html>
`

var htmlDocument = template.Must(template.New("html_document").Parse(htmlDocumentTmpl))

type htmlDocumentData struct {
	Title     string
	Duration  int
	Generated string
	Variants  []VariantSection
	Opts      Options
}

// BuildHTML assembles the complete standalone page. Variant bodies must
// already be rendered for the hypertext target.
func BuildHTML(doc Document, opts Options) (string, error) {
	data := htmlDocumentData{
		Title:    render.EscapeHTML(doc.Title),
		Duration: doc.Duration,
		Variants: doc.Variants,
		Opts:     opts,
	}
	if !doc.GeneratedAt.IsZero() {
		data.Generated = doc.GeneratedAt.Format("2006-01-02 15:04")
	}

	var b strings.Builder
	if err := htmlDocument.Execute(&b, data); err != nil {
		return "", fmt.Errorf("assemble html document: %w", err)
	}
	return b.String(), nil
}

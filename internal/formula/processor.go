// Package formula locates and validates $-delimited math spans in free
// text. Nothing here executes or compiles anything: validation is a pure
// function of the input, so the print and hypertext renderers share
// identical safety semantics by construction.
package formula

import (
	"fmt"
	"regexp"
	"strings"
)

type Type string

const (
	Inline  Type = "inline"
	Display Type = "display"
)

// Formula is one extracted math span. Start/End are byte offsets of
// Original within the source text.
type Formula struct {
	Type       Type
	Content    string
	Original   string
	Start      int
	End        int
	Validation Validation
}

type Validation struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// ProcessResult aggregates extraction and validation over a whole text
// field. This is the single batch entry point every renderer uses.
type ProcessResult struct {
	HasMath       bool
	Formulas      []Formula
	Errors        []string
	Warnings      []string
	HasErrors     bool
	HasWarnings   bool
	TotalFormulas int
}

var (
	inlineRe  = regexp.MustCompile(`\$([^$]+)\$`)
	displayRe = regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)

	beginEnvRe = regexp.MustCompile(`\\begin\{([^}]+)\}`)
	leftRe     = regexp.MustCompile(`\\left\b`)
	rightRe    = regexp.MustCompile(`\\right\b`)
)

// dangerousCommands are control sequences capable of file I/O, macro
// redefinition or arbitrary code execution. Any hit makes a formula
// unsafe, for both output targets.
var dangerousCommands = []struct {
	re      *regexp.Regexp
	message string
}{
	{regexp.MustCompile(`(?i)\\input\{[^}]*\}`), `dangerous command \input is not allowed for security reasons`},
	{regexp.MustCompile(`(?i)\\include\{[^}]*\}`), `dangerous command \include is not allowed for security reasons`},
	{regexp.MustCompile(`(?i)\\write\d*\{[^}]*\}`), `dangerous command \write is not allowed for security reasons`},
	{regexp.MustCompile(`(?i)\\immediate\b`), `dangerous command \immediate is not allowed for security reasons`},
	{regexp.MustCompile(`(?i)\\openout\d*`), `dangerous command \openout is not allowed for security reasons`},
	{regexp.MustCompile(`(?i)\\closeout\d*`), `dangerous command \closeout is not allowed for security reasons`},
	{regexp.MustCompile(`(?i)\\read(line)?\d*\b`), `dangerous command \read is not allowed for security reasons`},
	{regexp.MustCompile(`(?i)\\def\\[^\s{]*\{[^}]*\}`), `dangerous command \def is not allowed for security reasons`},
	{regexp.MustCompile(`(?i)\\let\\[^\s]*`), `dangerous command \let is not allowed for security reasons`},
	{regexp.MustCompile(`(?i)\\csname[^\\]*\\endcsname`), `dangerous command \csname is not allowed for security reasons`},
	{regexp.MustCompile(`(?i)\\expandafter\b`), `dangerous command \expandafter is not allowed for security reasons`},
	{regexp.MustCompile(`(?i)\\catcode`), `dangerous command \catcode is not allowed for security reasons`},
	{regexp.MustCompile(`(?i)\\scantokens\{[^}]*\}`), `dangerous command \scantokens is not allowed for security reasons`},
	{regexp.MustCompile(`(?i)\\detokenize\{[^}]*\}`), `dangerous command \detokenize is not allowed for security reasons`},
	{regexp.MustCompile(`(?i)\\directlua\{[^}]*\}`), `dangerous command \directlua is not allowed for security reasons`},
	{regexp.MustCompile(`(?i)\\luaexec\{[^}]*\}`), `dangerous command \luaexec is not allowed for security reasons`},
}

// IsDangerousCommandError reports whether a validation error came from the
// command denylist rather than a structural problem. Renderers use this to
// emit a distinct "blocked command" placeholder.
func IsDangerousCommandError(err string) bool {
	return strings.Contains(strings.ToLower(err), "dangerous command")
}

// ReplaceDangerous substitutes repl for every denylisted command in text.
// Renderers use this on plain-text segments, where even a well-formed
// dangerous command must not survive into the output.
func ReplaceDangerous(text, repl string) string {
	for _, cmd := range dangerousCommands {
		text = cmd.re.ReplaceAllString(text, repl)
	}
	return text
}

func HasMath(text string) bool {
	if text == "" {
		return false
	}
	return inlineRe.MatchString(text) || displayRe.MatchString(text)
}

// ExtractFormulas returns all math spans sorted by start offset. Display
// spans are found first and own everything between their delimiters; inline
// spans are then scanned over a copy of the text with the display ranges
// blanked out, so an inline match can never straddle a display boundary and
// swallow the formula after it.
func ExtractFormulas(text string) []Formula {
	if text == "" {
		return nil
	}

	var formulas []Formula

	displayRanges := displayRe.FindAllStringSubmatchIndex(text, -1)
	for _, m := range displayRanges {
		formulas = append(formulas, Formula{
			Type:     Display,
			Content:  strings.TrimSpace(text[m[2]:m[3]]),
			Original: text[m[0]:m[1]],
			Start:    m[0],
			End:      m[1],
		})
	}

	masked := []byte(text)
	for _, d := range displayRanges {
		for i := d[0]; i < d[1]; i++ {
			masked[i] = ' '
		}
	}
	for _, m := range inlineRe.FindAllStringSubmatchIndex(string(masked), -1) {
		formulas = append(formulas, Formula{
			Type:     Inline,
			Content:  strings.TrimSpace(text[m[2]:m[3]]),
			Original: text[m[0]:m[1]],
			Start:    m[0],
			End:      m[1],
		})
	}

	sortByStart(formulas)
	return formulas
}

func sortByStart(formulas []Formula) {
	for i := 1; i < len(formulas); i++ {
		for j := i; j > 0 && formulas[j].Start < formulas[j-1].Start; j-- {
			formulas[j], formulas[j-1] = formulas[j-1], formulas[j]
		}
	}
}

func CountFormulas(text string) int {
	return len(ExtractFormulas(text))
}

// ValidateFormula checks one formula's content (without delimiters).
// Errors make the formula unsafe; warnings are advisory only.
func ValidateFormula(content string) Validation {
	var errors, warnings []string

	if strings.TrimSpace(content) == "" {
		return Validation{IsValid: false, Errors: []string{"empty formula"}}
	}

	for _, cmd := range dangerousCommands {
		if cmd.re.MatchString(content) {
			errors = append(errors, cmd.message)
		}
	}

	for _, pair := range []struct{ open, close string }{
		{"(", ")"},
		{"{", "}"},
		{"[", "]"},
	} {
		if strings.Count(content, pair.open) != strings.Count(content, pair.close) {
			errors = append(errors, fmt.Sprintf("unbalanced brackets: %s%s", pair.open, pair.close))
		}
	}

	if len(leftRe.FindAllString(content, -1)) != len(rightRe.FindAllString(content, -1)) {
		errors = append(errors, `unbalanced \left and \right commands`)
	}

	for _, m := range beginEnvRe.FindAllStringSubmatch(content, -1) {
		env := m[1]
		endRe := regexp.MustCompile(`\\end\{` + regexp.QuoteMeta(env) + `\}`)
		if !endRe.MatchString(content) {
			errors = append(errors, fmt.Sprintf(`unclosed environment \begin{%s}`, env))
		}
	}

	if depth := nestingLevel(content); depth > 10 {
		warnings = append(warnings, fmt.Sprintf("deep command nesting (%d levels)", depth))
	}
	if len(content) > 200 {
		warnings = append(warnings, fmt.Sprintf("very long formula (%d characters)", len(content)))
	}

	return Validation{IsValid: len(errors) == 0, Errors: errors, Warnings: warnings}
}

// nestingLevel tracks brace depth; a \frac{ opens a numerator/denominator
// pair and counts as two levels at once.
func nestingLevel(text string) int {
	maxLevel, level := 0, 0
	for i := 0; i < len(text); i++ {
		switch {
		case strings.HasPrefix(text[i:], `\frac{`):
			level += 2
			if level > maxLevel {
				maxLevel = level
			}
			i += 5
		case text[i] == '{':
			level++
			if level > maxLevel {
				maxLevel = level
			}
		case text[i] == '}':
			if level > 0 {
				level--
			}
		}
	}
	return maxLevel
}

// ProcessTextSafe extracts every formula, validates each and aggregates
// the diagnostics. Renderers never re-implement extraction.
func ProcessTextSafe(text string) ProcessResult {
	if text == "" {
		return ProcessResult{}
	}

	formulas := ExtractFormulas(text)
	var allErrors, allWarnings []string
	for i := range formulas {
		formulas[i].Validation = ValidateFormula(formulas[i].Content)
		allErrors = append(allErrors, formulas[i].Validation.Errors...)
		allWarnings = append(allWarnings, formulas[i].Validation.Warnings...)
	}

	return ProcessResult{
		HasMath:       len(formulas) > 0,
		Formulas:      formulas,
		Errors:        allErrors,
		Warnings:      allWarnings,
		HasErrors:     len(allErrors) > 0,
		HasWarnings:   len(allWarnings) > 0,
		TotalFormulas: len(formulas),
	}
}

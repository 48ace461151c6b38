// Package assemble builds complete output documents from pre-rendered
// variant content. Everything arriving here is already escaped and
// composed for its target; this package only provides the surrounding
// document structure.
package assemble

import (
	"regexp"
	"strings"
	"time"
)

// TaskBlock is one task's rendered content for a single target.
type TaskBlock struct {
	Number        int
	Body          string
	Answer        string
	Hint          string
	ShortSolution string
	FullSolution  string
}

// VariantSection is one variant's ordered tasks.
type VariantSection struct {
	Number int
	Tasks  []TaskBlock
}

// Document is the full input to either document builder.
type Document struct {
	Title       string
	Duration    int
	GeneratedAt time.Time
	Variants    []VariantSection
}

// Options selects which answer levels appear in the output.
type Options struct {
	IncludeAnswers        bool
	IncludeShortSolutions bool
	IncludeFullSolutions  bool
}

var (
	unsafeFilenameRe  = regexp.MustCompile(`[<>:"/\\|?*]`)
	filenameSqueezeRe = regexp.MustCompile(`[\s_]+`)
)

// SanitizeFilename maps an arbitrary work name to a safe file stem. The
// length cap counts runes, not bytes, so multibyte names are never cut
// mid-sequence.
func SanitizeFilename(name string) string {
	name = unsafeFilenameRe.ReplaceAllString(name, "_")
	name = filenameSqueezeRe.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if runes := []rune(name); len(runes) > 200 {
		name = strings.TrimRight(string(runes[:200]), "_")
	}
	if name == "" {
		return "untitled"
	}
	return name
}

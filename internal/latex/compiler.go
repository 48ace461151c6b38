// Package latex shells out to a TeX engine and turns its notoriously
// chatty output into a structured report.
package latex

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yungbote/taskbank-backend/internal/config"
	"github.com/yungbote/taskbank-backend/internal/logger"
)

// engineCandidates are tried in order when the configured command is not
// on PATH.
var engineCandidates = []string{"pdflatex", "xelatex", "lualatex"}

var (
	logErrorRe   = regexp.MustCompile(`(?m)^! (.+)$`)
	logWarningRe = regexp.MustCompile(`(?m)(?:LaTeX )?Warning: (.+)$`)
)

// CompileReport is the outcome of one document compilation.
type CompileReport struct {
	Success  bool
	PDFPath  string
	Engine   string
	Passes   int
	Errors   []string
	Warnings []string
	Output   string
}

type Compiler struct {
	cfg config.LatexSettings
	log *logger.Logger
}

func NewCompiler(cfg config.LatexSettings, baseLog *logger.Logger) *Compiler {
	return &Compiler{cfg: cfg, log: baseLog.With("component", "latex")}
}

// Engine resolves the TeX binary to use: the configured command if it is
// on PATH, otherwise the first available fallback.
func (c *Compiler) Engine() (string, error) {
	candidates := engineCandidates
	if c.cfg.Command != "" {
		candidates = append([]string{c.cfg.Command}, engineCandidates...)
	}
	for _, cand := range candidates {
		if path, err := exec.LookPath(cand); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no tex engine found, tried %s", strings.Join(candidates, ", "))
}

// Compile runs the engine twice over texPath so cross-references and page
// totals settle, then judges success by the produced PDF, not the exit
// code: in nonstopmode the engine often exits non-zero for recoverable
// problems.
func (c *Compiler) Compile(ctx context.Context, texPath string) (*CompileReport, error) {
	engine, err := c.Engine()
	if err != nil {
		return nil, err
	}

	outputDir := filepath.Dir(texPath)
	jobname := strings.TrimSuffix(filepath.Base(texPath), filepath.Ext(texPath))
	report := &CompileReport{Engine: engine}

	timeout := c.cfg.CompileTimeout.Std()
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	for pass := 1; pass <= 2; pass++ {
		passCtx, cancel := context.WithTimeout(ctx, timeout)
		cmd := exec.CommandContext(passCtx, engine,
			"-interaction=nonstopmode",
			"-file-line-error",
			"-output-directory", outputDir,
			texPath,
		)
		out, runErr := cmd.CombinedOutput()
		cancel()

		report.Passes = pass
		report.Output = string(out)

		if passCtx.Err() == context.DeadlineExceeded {
			report.Errors = append(report.Errors, fmt.Sprintf("compilation timed out after %s on pass %d", timeout, pass))
			return report, nil
		}
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if runErr != nil {
			c.log.Debug("tex engine exited non-zero", "pass", pass, "error", runErr)
		}
	}

	logPath := filepath.Join(outputDir, jobname+".log")
	if raw, err := os.ReadFile(logPath); err == nil {
		report.Errors = append(report.Errors, parseErrors(string(raw))...)
		report.Warnings = append(report.Warnings, parseWarnings(string(raw))...)
	} else {
		c.log.Warn("tex log not readable", "path", logPath, "error", err)
	}

	pdfPath := filepath.Join(outputDir, jobname+".pdf")
	if info, err := os.Stat(pdfPath); err == nil && info.Size() > 0 {
		report.Success = true
		report.PDFPath = pdfPath
	}
	return report, nil
}

func parseErrors(logText string) []string {
	var errs []string
	seen := map[string]bool{}
	for _, m := range logErrorRe.FindAllStringSubmatch(logText, -1) {
		msg := strings.TrimSpace(m[1])
		if msg != "" && !seen[msg] {
			seen[msg] = true
			errs = append(errs, msg)
		}
	}
	return errs
}

func parseWarnings(logText string) []string {
	var warns []string
	seen := map[string]bool{}
	for _, m := range logWarningRe.FindAllStringSubmatch(logText, -1) {
		msg := strings.TrimSpace(m[1])
		if msg != "" && !seen[msg] {
			seen[msg] = true
			warns = append(warns, msg)
		}
	}
	return warns
}

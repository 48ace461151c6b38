// Package pdf prints generated HTML documents to PDF through a headless
// browser, which is the only practical way to get MathJax-typeset math
// into print output without a TeX toolchain.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/taskbank-backend/internal/config"
	"github.com/yungbote/taskbank-backend/internal/logger"
)

// paperSizes maps a format name to width and height in inches.
var paperSizes = map[string][2]float64{
	"A4":     {8.27, 11.69},
	"A5":     {5.83, 8.27},
	"Letter": {8.5, 11},
	"Legal":  {8.5, 14},
}

type Rasterizer struct {
	cfg config.PDFSettings
	log *logger.Logger
}

func NewRasterizer(cfg config.PDFSettings, baseLog *logger.Logger) *Rasterizer {
	return &Rasterizer{cfg: cfg, log: baseLog.With("component", "pdf")}
}

// Job is one HTML file to print and where to put the result.
type Job struct {
	HTMLPath string
	PDFPath  string
}

// Render prints one HTML file to PDF. The page is loaded over file://, so
// it must be self-contained; waiting for MathJax is best-effort and a
// slow or absent typesetter degrades to printing the page as-is.
func (r *Rasterizer) Render(ctx context.Context, job Job) error {
	absPath, err := filepath.Abs(job.HTMLPath)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", job.HTMLPath, err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("html source: %w", err)
	}

	timeout := r.cfg.BrowserTimeout.Std()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	var buf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+absPath),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if r.cfg.WaitForMathJax {
				r.waitForMathJax(ctx)
			}
			return nil
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := r.printParams().Do(ctx)
			if err != nil {
				return err
			}
			buf = data
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("rasterize %s: %w", job.HTMLPath, err)
	}

	if err := os.WriteFile(job.PDFPath, buf, 0o644); err != nil {
		return fmt.Errorf("write pdf %s: %w", job.PDFPath, err)
	}
	r.log.Info("pdf written", "path", job.PDFPath, "bytes", len(buf))
	return nil
}

// RenderAll prints the jobs with bounded parallelism. One failed job
// fails the batch; each browser is its own process, so partial output
// files from other jobs are still valid.
func (r *Rasterizer) RenderAll(ctx context.Context, jobs []Job) error {
	parallel := r.cfg.MaxParallel
	if parallel < 1 {
		parallel = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			return r.Render(gctx, job)
		})
	}
	return g.Wait()
}

func (r *Rasterizer) printParams() *page.PrintToPDFParams {
	params := page.PrintToPDF().
		WithPrintBackground(r.cfg.PrintBackground).
		WithPreferCSSPageSize(true).
		WithMarginTop(marginInches(r.cfg.MarginTop, 0.4)).
		WithMarginRight(marginInches(r.cfg.MarginRight, 0.4)).
		WithMarginBottom(marginInches(r.cfg.MarginBottom, 0.4)).
		WithMarginLeft(marginInches(r.cfg.MarginLeft, 0.4))

	if size, ok := paperSizes[r.cfg.Format]; ok {
		params = params.WithPaperWidth(size[0]).WithPaperHeight(size[1])
	}
	return params
}

// waitForMathJax runs the two-stage wait: first a short probe that the
// typesetter loaded at all, then a poll of its readiness signal. Both
// timeouts fall through with a warning; an untypeset page is better than
// no page.
func (r *Rasterizer) waitForMathJax(ctx context.Context) {
	probeTimeout := r.cfg.MathJaxProbeTimeout.Std()
	if probeTimeout <= 0 {
		probeTimeout = 3 * time.Second
	}
	if !r.pollJS(ctx, probeTimeout, `typeof window.MathJax !== 'undefined'`) {
		r.log.Warn("mathjax did not load, printing without typeset math")
		return
	}

	readyTimeout := r.cfg.MathJaxReadyTimeout.Std()
	if readyTimeout <= 0 {
		readyTimeout = 8 * time.Second
	}
	ready := r.pollJS(ctx, readyTimeout,
		`!!(window.MathJax.startup && MathJax.startup.document && MathJax.startup.document.state() >= 8)`)
	if !ready {
		r.log.Warn("mathjax not ready before timeout, printing current state")
	}
}

func (r *Rasterizer) pollJS(ctx context.Context, timeout time.Duration, expr string) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		var ok bool
		if err := chromedp.Evaluate(expr, &ok).Do(ctx); err == nil && ok {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(100 * time.Millisecond):
		}
	}
	return false
}

// marginInches parses a CSS-style length (cm, mm, in, pt) into inches.
func marginInches(value string, fallback float64) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	unit := "in"
	num := value
	for _, u := range []string{"cm", "mm", "in", "pt", "px"} {
		if strings.HasSuffix(value, u) {
			unit = u
			num = strings.TrimSuffix(value, u)
			break
		}
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return fallback
	}
	switch unit {
	case "cm":
		return f / 2.54
	case "mm":
		return f / 25.4
	case "pt":
		return f / 72
	case "px":
		return f / 96
	default:
		return f
	}
}

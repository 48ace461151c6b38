package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/taskbank-backend/internal/assemble"
	"github.com/yungbote/taskbank-backend/internal/config"
	"github.com/yungbote/taskbank-backend/internal/latex"
	"github.com/yungbote/taskbank-backend/internal/layout"
	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/pdf"
	"github.com/yungbote/taskbank-backend/internal/render"
	"github.com/yungbote/taskbank-backend/internal/repos"
	"github.com/yungbote/taskbank-backend/internal/types"
)

// RenderOptions selects answer levels and which downstream outputs to
// produce from the assembled sources.
type RenderOptions struct {
	IncludeAnswers        bool
	IncludeShortSolutions bool
	IncludeFullSolutions  bool
	CompilePDF            bool
	RasterizePDF          bool
}

// DocumentResult reports what was written and every diagnostic collected
// along the way. Formula problems never fail generation; they surface
// here and as visible markers inside the documents.
type DocumentResult struct {
	WorkID          uuid.UUID
	LatexPath       string
	HTMLPath        string
	PDFPath         string
	WebPDFPath      string
	TotalFormulas   int
	BlockedFormulas int
	Errors          []string
	Warnings        []string
}

type DocumentGenerationService interface {
	GenerateDocument(ctx context.Context, workID uuid.UUID, opts RenderOptions) (*DocumentResult, error)
	GenerateDocuments(ctx context.Context, workIDs []uuid.UUID, opts RenderOptions) ([]*DocumentResult, error)
}

type documentGenerationService struct {
	db          *gorm.DB
	settings    config.Settings
	workRepo    repos.WorkRepo
	variantRepo repos.VariantRepo
	taskRepo    repos.TaskRepo
	imageRepo   repos.TaskImageRepo

	latexRenderer *render.LaTeXRenderer
	htmlRenderer  *render.HTMLRenderer
	composer      *layout.Composer
	compiler      *latex.Compiler
	rasterizer    *pdf.Rasterizer

	log *logger.Logger
}

func NewDocumentGenerationService(
	db *gorm.DB,
	settings config.Settings,
	workRepo repos.WorkRepo,
	variantRepo repos.VariantRepo,
	taskRepo repos.TaskRepo,
	imageRepo repos.TaskImageRepo,
	baseLog *logger.Logger,
) DocumentGenerationService {
	return &documentGenerationService{
		db:            db,
		settings:      settings,
		workRepo:      workRepo,
		variantRepo:   variantRepo,
		taskRepo:      taskRepo,
		imageRepo:     imageRepo,
		latexRenderer: render.NewLaTeXRenderer(baseLog),
		htmlRenderer:  render.NewHTMLRenderer(baseLog),
		composer:      layout.NewComposer(baseLog),
		compiler:      latex.NewCompiler(settings.Latex, baseLog),
		rasterizer:    pdf.NewRasterizer(settings.PDF, baseLog),
		log:           baseLog.With("service", "DocumentGenerationService"),
	}
}

// GenerateDocument renders every variant of the work into a .tex and an
// .html file, then optionally compiles and rasterizes them to PDF.
func (s *documentGenerationService) GenerateDocument(ctx context.Context, workID uuid.UUID, opts RenderOptions) (*DocumentResult, error) {
	work, err := s.workRepo.GetByID(ctx, nil, workID)
	if err != nil {
		return nil, fmt.Errorf("load work %s: %w", workID, err)
	}

	variants, err := s.variantRepo.GetByWorkID(ctx, nil, workID)
	if err != nil {
		return nil, fmt.Errorf("load variants: %w", err)
	}
	if len(variants) == 0 {
		return nil, fmt.Errorf("work %s has no variants to render", workID)
	}

	for _, dir := range []string{s.settings.LatexOutputDir, s.settings.HTMLOutputDir, s.settings.PDFOutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}

	result := &DocumentResult{WorkID: workID}
	now := time.Now()
	latexDoc := assemble.Document{Title: work.Name, Duration: work.Duration, GeneratedAt: now}
	htmlDoc := assemble.Document{Title: work.Name, Duration: work.Duration, GeneratedAt: now}

	for _, variant := range variants {
		latexSection := assemble.VariantSection{Number: variant.Number}
		htmlSection := assemble.VariantSection{Number: variant.Number}

		tasks, images, err := s.loadVariantContent(ctx, variant.ID)
		if err != nil {
			return nil, err
		}

		for i, task := range tasks {
			latexBlock, htmlBlock := s.renderTask(task, images[task.ID], opts, result)
			latexBlock.Number = i + 1
			htmlBlock.Number = i + 1
			latexSection.Tasks = append(latexSection.Tasks, latexBlock)
			htmlSection.Tasks = append(htmlSection.Tasks, htmlBlock)
		}

		latexDoc.Variants = append(latexDoc.Variants, latexSection)
		htmlDoc.Variants = append(htmlDoc.Variants, htmlSection)
	}

	stem := assemble.SanitizeFilename(work.Name)

	texSource, err := assemble.BuildLaTeX(latexDoc, assembleOptions(opts))
	if err != nil {
		return nil, err
	}
	result.LatexPath = filepath.Join(s.settings.LatexOutputDir, stem+".tex")
	if err := os.WriteFile(result.LatexPath, []byte(texSource), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", result.LatexPath, err)
	}

	htmlSource, err := assemble.BuildHTML(htmlDoc, assembleOptions(opts))
	if err != nil {
		return nil, err
	}
	result.HTMLPath = filepath.Join(s.settings.HTMLOutputDir, stem+".html")
	if err := os.WriteFile(result.HTMLPath, []byte(htmlSource), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", result.HTMLPath, err)
	}

	if opts.CompilePDF {
		report, err := s.compiler.Compile(ctx, result.LatexPath)
		if err != nil {
			return nil, err
		}
		result.Errors = append(result.Errors, report.Errors...)
		result.Warnings = append(result.Warnings, report.Warnings...)
		if report.Success {
			result.PDFPath = report.PDFPath
		} else {
			result.Errors = append(result.Errors, "latex compilation produced no pdf")
		}
	}

	if opts.RasterizePDF {
		result.WebPDFPath = filepath.Join(s.settings.PDFOutputDir, stem+".pdf")
		if err := s.rasterizer.Render(ctx, pdf.Job{HTMLPath: result.HTMLPath, PDFPath: result.WebPDFPath}); err != nil {
			return nil, err
		}
	}

	s.log.Info("document generated",
		"work_id", workID,
		"variants", len(variants),
		"formulas", result.TotalFormulas,
		"blocked", result.BlockedFormulas)
	return result, nil
}

// GenerateDocuments renders several works, then rasterizes all of their
// pages in one bounded-parallel browser batch.
func (s *documentGenerationService) GenerateDocuments(ctx context.Context, workIDs []uuid.UUID, opts RenderOptions) ([]*DocumentResult, error) {
	rasterize := opts.RasterizePDF
	opts.RasterizePDF = false

	results := make([]*DocumentResult, 0, len(workIDs))
	var jobs []pdf.Job
	for _, workID := range workIDs {
		res, err := s.GenerateDocument(ctx, workID, opts)
		if err != nil {
			return nil, err
		}
		if rasterize {
			base := filepath.Base(res.HTMLPath)
			stem := base[:len(base)-len(filepath.Ext(base))]
			res.WebPDFPath = filepath.Join(s.settings.PDFOutputDir, stem+".pdf")
			jobs = append(jobs, pdf.Job{HTMLPath: res.HTMLPath, PDFPath: res.WebPDFPath})
		}
		results = append(results, res)
	}

	if len(jobs) > 0 {
		if err := s.rasterizer.RenderAll(ctx, jobs); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// loadVariantContent fetches a variant's tasks in a stable order plus each
// task's first image. Tasks have no authored ordering inside a variant, so
// id order keeps repeated generations byte-stable.
func (s *documentGenerationService) loadVariantContent(ctx context.Context, variantID uuid.UUID) ([]*types.Task, map[uuid.UUID]*types.TaskImage, error) {
	taskIDs, err := s.variantRepo.GetTaskIDs(ctx, nil, variantID)
	if err != nil {
		return nil, nil, fmt.Errorf("load variant %s task ids: %w", variantID, err)
	}

	tasks, err := s.taskRepo.GetByIDs(ctx, nil, taskIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load variant %s tasks: %w", variantID, err)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID.String() < tasks[j].ID.String()
	})

	images, err := s.imageRepo.GetByTaskIDs(ctx, nil, taskIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load task images: %w", err)
	}
	firstImage := make(map[uuid.UUID]*types.TaskImage, len(images))
	for _, img := range images {
		if _, ok := firstImage[img.TaskID]; !ok {
			firstImage[img.TaskID] = img
		}
	}
	return tasks, firstImage, nil
}

// renderTask renders one task's fields for both targets and merges its
// diagnostics into the document result.
func (s *documentGenerationService) renderTask(task *types.Task, img *types.TaskImage, opts RenderOptions, result *DocumentResult) (assemble.TaskBlock, assemble.TaskBlock) {
	renderField := func(r render.Renderer, text string) string {
		if text == "" {
			return ""
		}
		res := r.RenderText(text)
		result.TotalFormulas += res.TotalFormulas
		result.BlockedFormulas += res.BlockedFormulas
		result.Errors = append(result.Errors, res.Errors...)
		result.Warnings = append(result.Warnings, res.Warnings...)
		return res.Output
	}

	latexBody := renderField(s.latexRenderer, task.Text)
	htmlBody := renderField(s.htmlRenderer, task.Text)

	if img != nil {
		name, err := s.composer.PrepareImage(task.ID, img, s.settings.LatexOutputDir)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("task %s image: %v", task.ID, err))
		} else if name != "" {
			latexBody = s.composer.ComposeLaTeX(latexBody, img, name)
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("task %s image missing, rendered text only", task.ID))
		}
		htmlBody = s.composer.ComposeHTML(htmlBody, img)
	}

	latexBlock := assemble.TaskBlock{Body: latexBody}
	htmlBlock := assemble.TaskBlock{Body: htmlBody}

	if opts.IncludeAnswers {
		latexBlock.Answer = renderField(s.latexRenderer, task.Answer)
		htmlBlock.Answer = renderField(s.htmlRenderer, task.Answer)
		latexBlock.Hint = renderField(s.latexRenderer, task.Hint)
		htmlBlock.Hint = renderField(s.htmlRenderer, task.Hint)
	}
	if opts.IncludeShortSolutions {
		latexBlock.ShortSolution = renderField(s.latexRenderer, task.ShortSolution)
		htmlBlock.ShortSolution = renderField(s.htmlRenderer, task.ShortSolution)
	}
	if opts.IncludeFullSolutions {
		latexBlock.FullSolution = renderField(s.latexRenderer, task.FullSolution)
		htmlBlock.FullSolution = renderField(s.htmlRenderer, task.FullSolution)
	}
	return latexBlock, htmlBlock
}

func assembleOptions(opts RenderOptions) assemble.Options {
	return assemble.Options{
		IncludeAnswers:        opts.IncludeAnswers,
		IncludeShortSolutions: opts.IncludeShortSolutions,
		IncludeFullSolutions:  opts.IncludeFullSolutions,
	}
}

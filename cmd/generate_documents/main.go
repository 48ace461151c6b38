// Command generate_documents renders a work's variants into .tex and
// .html documents, optionally compiling and rasterizing them to PDF.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/taskbank-backend/internal/config"
	"github.com/yungbote/taskbank-backend/internal/db"
	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/repos"
	"github.com/yungbote/taskbank-backend/internal/services"
	"github.com/yungbote/taskbank-backend/internal/utils"
)

func main() {
	workFlag := flag.String("work", "", "work id (uuid)")
	answersFlag := flag.Bool("answers", false, "include answers")
	shortFlag := flag.Bool("short-solutions", false, "include short solutions")
	fullFlag := flag.Bool("full-solutions", false, "include full solutions")
	compileFlag := flag.Bool("compile", false, "compile the .tex to PDF")
	webPDFFlag := flag.Bool("web-pdf", false, "rasterize the .html to PDF")
	settingsFlag := flag.String("settings", "", "settings file (yaml)")
	flag.Parse()

	log, err := logger.New(utils.GetEnv("APP_ENV", "development", nil))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	workID, err := uuid.Parse(*workFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -work value %q: %v\n", *workFlag, err)
		os.Exit(2)
	}

	settings, err := config.Load(*settingsFlag, log)
	if err != nil {
		log.Fatal("Failed to load settings", "error", err)
	}

	gdb, err := openDatabase(log)
	if err != nil {
		log.Fatal("Failed to open database", "error", err)
	}

	workRepo := repos.NewWorkRepo(gdb, log)
	variantRepo := repos.NewVariantRepo(gdb, log)
	taskRepo := repos.NewTaskRepo(gdb, log)
	imageRepo := repos.NewTaskImageRepo(gdb, log)
	service := services.NewDocumentGenerationService(gdb, settings, workRepo, variantRepo, taskRepo, imageRepo, log)

	result, err := service.GenerateDocument(context.Background(), workID, services.RenderOptions{
		IncludeAnswers:        *answersFlag,
		IncludeShortSolutions: *shortFlag,
		IncludeFullSolutions:  *fullFlag,
		CompilePDF:            *compileFlag,
		RasterizePDF:          *webPDFFlag,
	})
	if err != nil {
		log.Fatal("Document generation failed", "error", err)
	}

	fmt.Printf("latex\t%s\n", result.LatexPath)
	fmt.Printf("html\t%s\n", result.HTMLPath)
	if result.PDFPath != "" {
		fmt.Printf("pdf\t%s\n", result.PDFPath)
	}
	if result.WebPDFPath != "" {
		fmt.Printf("web pdf\t%s\n", result.WebPDFPath)
	}
	fmt.Printf("formulas\t%d total, %d blocked\n", result.TotalFormulas, result.BlockedFormulas)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "error: %s\n", e)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

func openDatabase(log *logger.Logger) (*gorm.DB, error) {
	if utils.GetEnv("DB_DRIVER", "postgres", log) == "sqlite" {
		svc, err := db.NewSqliteService(utils.GetEnv("SQLITE_PATH", "taskbank.db", log), log)
		if err != nil {
			return nil, err
		}
		return svc.DB(), svc.AutoMigrateAll()
	}
	svc, err := db.NewPostgresService(log)
	if err != nil {
		return nil, err
	}
	return svc.DB(), svc.AutoMigrateAll()
}

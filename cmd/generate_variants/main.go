// Command generate_variants creates numbered variants for a work from the
// command line, for operators who do not want to go through the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/taskbank-backend/internal/db"
	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/repos"
	"github.com/yungbote/taskbank-backend/internal/services"
	"github.com/yungbote/taskbank-backend/internal/utils"
)

func main() {
	workFlag := flag.String("work", "", "work id (uuid)")
	countFlag := flag.Int("count", 1, "number of variants to generate")
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

	gdb, err := openDatabase(log)
	if err != nil {
		log.Fatal("Failed to open database", "error", err)
	}

	workRepo := repos.NewWorkRepo(gdb, log)
	groupRepo := repos.NewAnalogGroupRepo(gdb, log)
	variantRepo := repos.NewVariantRepo(gdb, log)
	service := services.NewVariantGenerationService(gdb, workRepo, groupRepo, variantRepo, log)

	result, err := service.GenerateVariants(context.Background(), workID, *countFlag)
	if err != nil {
		log.Fatal("Variant generation failed", "error", err)
	}

	for _, v := range result.Variants {
		fmt.Printf("variant %d\t%s\n", v.Number, v.ID)
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

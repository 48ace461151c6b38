package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/taskbank-backend/internal/config"
	"github.com/yungbote/taskbank-backend/internal/db"
	"github.com/yungbote/taskbank-backend/internal/handlers"
	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/repos"
	"github.com/yungbote/taskbank-backend/internal/server"
	"github.com/yungbote/taskbank-backend/internal/services"
	"github.com/yungbote/taskbank-backend/internal/utils"
)

func main() {
	appEnv := utils.GetEnv("APP_ENV", "development", nil)
	log, err := logger.New(appEnv)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	defer log.Sync()

	settings, err := config.Load("", log)
	if err != nil {
		log.Fatal("Failed to load settings", "error", err)
	}

	gdb, err := openDatabase(log)
	if err != nil {
		log.Fatal("Failed to open database", "error", err)
	}

	// Repos
	taskRepo := repos.NewTaskRepo(gdb, log)
	imageRepo := repos.NewTaskImageRepo(gdb, log)
	groupRepo := repos.NewAnalogGroupRepo(gdb, log)
	workRepo := repos.NewWorkRepo(gdb, log)
	variantRepo := repos.NewVariantRepo(gdb, log)

	// Services
	variantService := services.NewVariantGenerationService(gdb, workRepo, groupRepo, variantRepo, log)
	documentService := services.NewDocumentGenerationService(gdb, settings, workRepo, variantRepo, taskRepo, imageRepo, log)

	// Handlers
	taskHandler := handlers.NewTaskHandler(taskRepo, imageRepo, groupRepo, log)
	workHandler := handlers.NewWorkHandler(workRepo, variantRepo, variantService, log)
	documentHandler := handlers.NewDocumentHandler(documentService, log)

	var mathCacheHandler *handlers.MathCacheHandler
	if utils.GetEnvAsBool("MATH_CACHE_ENABLED", true, log) {
		client := redis.NewClient(&redis.Options{
			Addr:     utils.GetEnv("REDIS_ADDR", "localhost:6379", log),
			Password: utils.GetEnv("REDIS_PASSWORD", "", log),
			DB:       utils.GetEnvAsInt("REDIS_DB", 0, log),
		})
		cache := services.NewMathStatusCache(client, 0, log)
		mathCacheHandler = handlers.NewMathCacheHandler(cache, taskRepo, log)
	}

	router := server.NewRouter(server.RouterConfig{
		TaskHandler:      taskHandler,
		WorkHandler:      workHandler,
		DocumentHandler:  documentHandler,
		MathCacheHandler: mathCacheHandler,
		Log:              log,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}

// openDatabase picks the driver from DB_DRIVER: postgres (default) for
// deployments, sqlite for single-user setups.
func openDatabase(log *logger.Logger) (*gorm.DB, error) {
	driver := utils.GetEnv("DB_DRIVER", "postgres", log)

	switch driver {
	case "sqlite":
		svc, err := db.NewSqliteService(utils.GetEnv("SQLITE_PATH", "taskbank.db", log), log)
		if err != nil {
			return nil, err
		}
		if err := svc.AutoMigrateAll(); err != nil {
			return nil, err
		}
		return svc.DB(), nil
	default:
		svc, err := db.NewPostgresService(log)
		if err != nil {
			return nil, err
		}
		if err := svc.AutoMigrateAll(); err != nil {
			return nil, err
		}
		return svc.DB(), nil
	}
}

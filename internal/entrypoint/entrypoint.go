package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookfolio/bookfolio/internal/audit"
	"github.com/bookfolio/bookfolio/internal/config"
	"github.com/bookfolio/bookfolio/internal/database"
	auditrepo "github.com/bookfolio/bookfolio/internal/database/audit"
	"github.com/bookfolio/bookfolio/internal/database/authors"
	"github.com/bookfolio/bookfolio/internal/database/books"
	http_controllers "github.com/bookfolio/bookfolio/internal/http"
	"github.com/bookfolio/bookfolio/internal/importers"
	"github.com/bookfolio/bookfolio/internal/scheduler"
	"github.com/bookfolio/bookfolio/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookfolio v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	authorsRepo := authors.NewRepository(db.DB)
	booksRepo := books.NewRepository(db.DB)
	importer := importers.NewImporter(db.DB)

	// Audit trail
	var auditService *audit.Service
	var auditRepo *auditrepo.Repository
	if cfg.Audit.Enabled {
		auditRepo = auditrepo.NewRepository(db.DB)
		auditService = audit.NewService(auditRepo)
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// Register task queues. A typed nil service must not leak into the
		// reporter interface, so wire it up only when auditing is on.
		var reporter tasks.ImportReporter
		if auditService != nil {
			reporter = auditService
		}
		taskClient.Register(tasks.NewImportCatalogQueue(importer, reporter))
		if auditRepo != nil {
			taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditRepo))
		}

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Schedule audit retention cleanup
	var cleanupScheduler *scheduler.AuditCleanupScheduler
	if cfg.Audit.Enabled {
		cleanupScheduler = scheduler.NewAuditCleanupScheduler(
			taskClient, auditRepo, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays)
		if err := cleanupScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start audit cleanup scheduler: %v", err)
		}
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:    db,
		AuthorStore: authorsRepo,
		BookStore:   booksRepo,
		BookLister:  booksRepo,
		Importer:    importer,
		TaskClient:  taskClient,
		DemoMode:    cfg.Demo.Enabled,
		Version:     version,
	}
	if cfg.Demo.Enabled {
		log.Println("Demo mode enabled: catalog mutations are blocked")
	}
	if auditService != nil {
		routerCfg.Auditor = auditService
		routerCfg.ImportAudit = auditService
		routerCfg.AuditReader = auditRepo
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

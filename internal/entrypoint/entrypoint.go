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

	"github.com/mrlokans/personachat/internal/chat"
	"github.com/mrlokans/personachat/internal/config"
	"github.com/mrlokans/personachat/internal/database"
	"github.com/mrlokans/personachat/internal/database/personas"
	"github.com/mrlokans/personachat/internal/database/progress"
	"github.com/mrlokans/personachat/internal/firefly"
	http_controllers "github.com/mrlokans/personachat/internal/http"
	"github.com/mrlokans/personachat/internal/importer"
	"github.com/mrlokans/personachat/internal/llm"
	"github.com/mrlokans/personachat/internal/scheduler"
	"github.com/mrlokans/personachat/internal/tasks"
	"github.com/mrlokans/personachat/internal/twitter"
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Personachat v%s", version)

	if cfg.Twitter.APIKey == "" {
		log.Printf("WARNING: RAPID_API_KEY is not set. Persona imports will fail until it is configured.")
	}
	if cfg.OpenAI.APIKey == "" {
		log.Printf("WARNING: OPENAI_API_KEY is not set. Chat and ingestion will fail until it is configured.")
	}

	db, err := database.NewDatabase(cfg.Database.Path, cfg.Store.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	personaRepo := personas.NewRepository(db.DB)
	progressRepo := progress.NewRepository(db.DB)

	twitterClient := twitter.NewClient(cfg.Twitter.APIKey)
	fireflyClient := firefly.NewClient(cfg.Firefly.AuthToken)
	llmClient := llm.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel)

	importService := importer.NewService(
		personaRepo,
		progressRepo,
		twitterClient,
		fireflyClient,
		importer.NewSink(llmClient),
		importer.Config{
			MaxPages:  cfg.Import.MaxPages,
			PageSize:  cfg.Import.PageSize,
			RateDelay: cfg.Import.RateDelay,
			StoreDir:  cfg.Store.Dir,
		},
	)

	chatService := chat.NewService(personaRepo, llmClient, llmClient)

	// Task queue runs imports in the background.
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
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

		taskClient.Register(
			tasks.NewImportPersonaQueue(importService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Scheduled refresh re-imports ready personas; needs the task queue.
	var refreshScheduler *scheduler.RefreshScheduler
	if cfg.Refresh.Enabled && taskClient != nil {
		refreshScheduler = scheduler.NewRefreshScheduler(personaRepo, taskClient, cfg.Refresh.Schedule)
		if err := refreshScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start refresh scheduler: %v", err)
		}
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:    db,
		Personas:    personaRepo,
		Progress:    progressRepo,
		ChatService: chatService,
		TaskClient:  taskClient,
		Version:     version,
	})

	Serve(router, cfg, func(ctx context.Context) {
		if refreshScheduler != nil {
			refreshScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
			if taskCtxCancel != nil {
				taskCtxCancel()
			}
		}
	})
}

package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloo-solutions/supporthub/internal/api/handlers"
	"github.com/cloo-solutions/supporthub/internal/api/middleware"
	"github.com/cloo-solutions/supporthub/internal/backend"
	"github.com/cloo-solutions/supporthub/internal/config"
	"github.com/cloo-solutions/supporthub/internal/database"
	"github.com/cloo-solutions/supporthub/internal/events"
	"github.com/cloo-solutions/supporthub/internal/jobs"
	"github.com/cloo-solutions/supporthub/internal/knowledge"
	"github.com/cloo-solutions/supporthub/internal/metrics"
	"github.com/cloo-solutions/supporthub/internal/openai"
	"github.com/cloo-solutions/supporthub/internal/repository"
	"github.com/cloo-solutions/supporthub/internal/server"
	"github.com/cloo-solutions/supporthub/internal/service"
	"github.com/cloo-solutions/supporthub/internal/storage"
	"github.com/cloo-solutions/supporthub/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the support hub API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().String("migrations", defaultMigrationsDir, "Directory holding the SQL migrations")

	return cmd
}

// documentStore is what both the Postgres and in-memory document repositories provide.
type documentStore interface {
	service.DocumentRepository
	knowledge.Loader
}

type stores struct {
	docs     documentStore
	tickets  service.TicketRepository
	chatLogs service.ChatLogRepository
	tx       service.TxRunner
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.HasSentry() {
		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: cfg.TracesSampleRate(),
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	var st stores
	if cfg.HasDatabase() {
		pool, err := database.NewPool(ctx, database.Config{
			URL:             cfg.DatabaseURL,
			MaxConns:        cfg.DatabaseMaxConns,
			ConnectAttempts: cfg.DatabaseConnectAttempts,
			RetryDelay:      cfg.DatabaseRetryDelay,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		log.Println("connected to database")

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			dir, _ := cmd.Flags().GetString("migrations")
			if err := runMigrations(cfg.DatabaseURL, dir); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
		}

		st = stores{
			docs:     repository.NewDocumentRepository(pool),
			tickets:  repository.NewTicketRepository(pool),
			chatLogs: repository.NewChatLogRepository(pool),
			tx:       repository.NewTxRunner(pool),
		}
	} else {
		log.Println("no database configured, using in-memory storage")
		st = stores{
			docs:     repository.NewMemoryDocumentRepository(),
			tickets:  repository.NewMemoryTicketRepository(),
			chatLogs: repository.NewMemoryChatLogRepository(),
		}
	}

	m := metrics.Default()

	index := knowledge.NewIndex(st.docs, nil)
	retriever := knowledge.NewRetriever(index)
	docSvc := service.NewDocumentServiceWithTx(st.docs, index, retriever, st.tx)

	if cfg.SeedKnowledge {
		seeded, err := docSvc.SeedIfEmpty(ctx, knowledge.SeedDocuments())
		if err != nil {
			return fmt.Errorf("failed to seed knowledge base: %w", err)
		}
		if seeded {
			log.Println("knowledge base seeded with reference documents")
		}
	}
	if err := index.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}
	log.Printf("knowledge base loaded (%d documents)", index.Snapshot().Len())

	var refreshWorker *jobs.Worker
	if cfg.HasDatabase() && cfg.IndexRefreshInterval > 0 {
		processor := jobs.NewIndexRefreshWorker(index, func() jobs.SizeReporter { return index.Snapshot() })
		refreshWorker = jobs.NewWorker("index refresh", processor, cfg.IndexRefreshInterval)
		go refreshWorker.Start(ctx)
	}

	assistant := selectAssistant(cfg)
	log.Printf("chat assistant: %s", assistant.Name())

	var producer *events.Producer
	if cfg.HasKafka() {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTicketTopic)
		log.Printf("publishing ticket events to topic '%s'", cfg.KafkaTicketTopic)
	} else {
		producer = events.NewProducer(nil, "")
	}
	defer producer.Close()

	chatSvc := service.NewChatService(service.ChatServiceConfig{
		Searcher:  retriever,
		Assistant: assistant,
		Logs:      st.chatLogs,
		Observer:  m,
		Timeout:   cfg.AssistantTimeout,
	})
	ticketSvc := service.NewTicketService(st.tickets, producer, m)
	analyticsSvc := service.NewAnalyticsService(st.chatLogs, st.tickets)

	var uploadSvc handlers.UploadService
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		uploadSvc = service.NewUploadService(s3Client, docSvc, cfg.MaxUploadBytes)
	}

	var limiter *middleware.RateLimiter
	if cfg.HasRedis() {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis ping failed (rate limiter will fail open): %v", err)
		}
		trusted, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
		if err != nil {
			return fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
		}
		limiter = middleware.NewRateLimiter(rdb, cfg.RateLimitQPS).WithTrustedProxies(trusted)
		log.Printf("rate limiting /chat and /ticket at %d req/s", cfg.RateLimitQPS)
	}

	router := server.NewRouter(server.RouterConfig{
		ChatHandler:      handlers.NewChatHandler(chatSvc),
		TicketHandler:    handlers.NewTicketHandler(ticketSvc),
		DocumentHandler:  handlers.NewDocumentHandler(docSvc),
		SearchHandler:    handlers.NewSearchHandler(retriever),
		AnalyticsHandler: handlers.NewAnalyticsHandler(analyticsSvc),
		UploadHandler:    handlers.NewUploadHandler(uploadSvc),
		Metrics:          m.Handler(),
		RateLimiter:      limiter,
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		MaxBodyBytes:     cfg.MaxUploadBytes + 1<<20,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if refreshWorker != nil {
		refreshWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// selectAssistant prefers an external assistant backend, then OpenAI, then
// answers from the knowledge base alone.
func selectAssistant(cfg *config.Config) service.Assistant {
	switch {
	case cfg.HasAssistantBackend():
		return backend.NewAssistant(cfg.AssistantBackendURL, cfg.AssistantTimeout)
	case cfg.HasOpenAI():
		return openai.NewChatAssistant(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
	default:
		return service.NewKnowledgeAssistant()
	}
}

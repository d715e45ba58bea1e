package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/padmanaresh1986/fitness-app/internal/api"
	"github.com/padmanaresh1986/fitness-app/internal/auth"
	"github.com/padmanaresh1986/fitness-app/internal/config"
	"github.com/padmanaresh1986/fitness-app/internal/events"
	"github.com/padmanaresh1986/fitness-app/internal/excel"
	"github.com/padmanaresh1986/fitness-app/internal/github"
	"github.com/padmanaresh1986/fitness-app/internal/images"
	"github.com/padmanaresh1986/fitness-app/internal/llm"
	"github.com/padmanaresh1986/fitness-app/internal/logging"
	"github.com/padmanaresh1986/fitness-app/internal/observability"
	"github.com/padmanaresh1986/fitness-app/internal/ocr"
	persistence "github.com/padmanaresh1986/fitness-app/internal/persistence/postgres"
	"github.com/padmanaresh1986/fitness-app/internal/pipeline"
	httptransport "github.com/padmanaresh1986/fitness-app/internal/transport/http"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		logger.Fatal("connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	repo := persistence.NewRepository(pool)

	model, err := llm.New(cfg)
	if err != nil {
		logger.Fatal("configure model client", zap.Error(err))
	}

	var uploader pipeline.Uploader
	if cfg.GitHubToken != "" {
		uploader = github.NewUploader(cfg.GitHubToken, cfg.GitHubOwner, cfg.GitHubRepo, cfg.GitHubBranch, cfg.CommitMessage)
	} else {
		logger.Info("no github token configured, workbook push disabled")
	}

	var publisher pipeline.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.SummaryTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		logger.Info("no kafka brokers configured, event publishing disabled")
	}

	svc := pipeline.NewService(
		images.NewLister(cfg.DriveBaseDir),
		ocr.New(ocr.Config{
			Command:  cfg.TesseractCmd,
			Language: cfg.TesseractLang,
			PSM:      cfg.TesseractPSM,
			OEM:      cfg.TesseractOEM,
		}),
		model,
		repo,
		excel.NewExporter(cfg.DataDir),
		uploader,
		publisher,
		pipeline.WithLogger(logger),
	)

	handler := api.NewHandler(svc, repo)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Simple CORS middleware for local dev
	cors := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	// Folder runs shell out to OCR and call a model per image; throttle them.
	limit := rate.Inf
	burst := 1
	if cfg.ProcessRatePerMin > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.ProcessRatePerMin))
		burst = cfg.ProcessRatePerMin
	}
	limiter := rate.NewLimiter(limit, burst)
	throttle := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/v1/folders/process" && !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"type":"rate_limited","detail":"too many processing requests"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	instrument := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			observability.RecordHTTPRequest(r.Method, r.URL.Path, rec.status)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
			)
		})
	}

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})

	// WriteTimeout must outlast a synchronous folder run.
	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}, authMiddleware.Wrap(instrument(cors(throttle(mux)))))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("fitness api listening", zap.String("address", cfg.HTTPAddress))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

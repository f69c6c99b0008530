package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/tidymark/internal/cache"
	"github.com/MrSnakeDoc/tidymark/internal/config"
	"github.com/MrSnakeDoc/tidymark/internal/fetch"
	"github.com/MrSnakeDoc/tidymark/internal/httpserver"
	"github.com/MrSnakeDoc/tidymark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tidymark/internal/llm"
	"github.com/MrSnakeDoc/tidymark/internal/logger"
	"github.com/MrSnakeDoc/tidymark/internal/organizer"
	"github.com/MrSnakeDoc/tidymark/internal/pipeline"
	"github.com/MrSnakeDoc/tidymark/internal/redis"
	"github.com/MrSnakeDoc/tidymark/internal/scheduler"
	"github.com/MrSnakeDoc/tidymark/internal/store"
	"github.com/MrSnakeDoc/tidymark/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/tidymark/internal/store/redis"
	"github.com/MrSnakeDoc/tidymark/internal/store/sqlite"
	"github.com/MrSnakeDoc/tidymark/internal/utils"
	"github.com/MrSnakeDoc/tidymark/internal/version"
)

const (
	GeneratorGemini  = "gemini"
	GeneratorKeyword = "keyword"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	store    store.Store
	archiver *scheduler.Archiver
	importer *scheduler.Importer
}

// New wires every component from the environment. Redis and sqlite are
// opened here so a bad store fails fast.
func New(ctx context.Context) (*App, error) {
	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	st, err := OpenStore(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	classifier, mode := NewPipeline(cfg, loggerClient)
	orgOpts := []organizer.Option{
		organizer.WithConcurrency(cfg.CategorizeConcurrency),
		organizer.WithSuggestionCache(cache.NewSuggestionCache(cfg.SuggestionTTL)),
	}
	if cfg.FetchContent {
		orgOpts = append(orgOpts, organizer.WithFetcher(fetch.New(cfg.FetchTimeout, cfg.FetchMaxContent)))
	}
	org := organizer.New(st, classifier, loggerClient, orgOpts...)

	var archiver *scheduler.Archiver
	var nextArchive func() time.Time
	if cfg.AutoArchive {
		archiver = scheduler.NewArchiver(org, loggerClient, cfg.ArchiveSchedule, cfg.ArchiveAfter)
		nextArchive = archiver.Next
	} else {
		loggerClient.Info("auto-archive disabled")
	}

	var importer *scheduler.Importer
	var importTrigger chan struct{}
	if cfg.ImportFile != "" {
		loggerClient.Info("import file configured, initializing importer",
			logger.String("file", cfg.ImportFile))
		importTrigger = make(chan struct{}, 1)
		importer = scheduler.NewImporter(cfg.ImportFile, org, loggerClient, cfg.ReloadInterval, importTrigger)
	}

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		MaxBodyBytes:  cfg.MaxBodyBytes,
		Organizer:     org,
		StoreBackend:  cfg.StoreBackend,
		GeneratorMode: mode,
		ImportFile:    cfg.ImportFile,
		ImportTrigger: importTrigger,
		NextArchive:   nextArchive,
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		server:   httpserver.New(cfg, loggerClient, d),
		store:    st,
		archiver: archiver,
		importer: importer,
	}, nil
}

// OpenStore returns the backend named by cfg.StoreBackend.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreSQLite:
		log.Info("opening sqlite store", logger.String("path", cfg.SQLitePath))
		st, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return st, nil
	case config.StoreRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(ctx, redis.Options{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		log.Info("Redis initialized successfully")
		return redisstore.NewStore(client), nil
	default:
		log.Warn("using in-memory store, bookmarks are lost on restart")
		return memory.New(), nil
	}
}

// NewPipeline picks the Gemini client when an API key is configured and the
// offline keyword generator otherwise. The second value names the choice.
func NewPipeline(cfg *config.Config, log logger.Logger) (*pipeline.Pipeline, string) {
	var gen llm.Generator
	mode := GeneratorKeyword
	if cfg.GeminiAPIKey != "" {
		gen = llm.NewGeminiClient(cfg.GeminiAPIKey,
			llm.WithModel(cfg.GeminiModel),
			llm.WithBaseURL(cfg.GeminiBaseURL),
			llm.WithTimeout(cfg.LLMTimeout))
		mode = GeneratorGemini
	} else {
		log.Warn("GEMINI_API_KEY not set, using offline keyword categorization")
		gen = llm.NewKeywordGenerator()
	}
	return pipeline.New(gen, log, pipeline.WithTimeout(cfg.LLMTimeout)), mode
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting tidymark %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("tidymark %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.archiver != nil {
		if err := a.archiver.Start(ctx); err != nil {
			return fmt.Errorf("failed to start archiver: %w", err)
		}
		a.logger.Info("archiver started",
			logger.String("schedule", a.cfg.ArchiveSchedule),
			logger.Duration("older_than", a.cfg.ArchiveAfter))
	}

	if a.importer != nil {
		if err := a.importer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start importer: %w", err)
		}
		a.logger.Info("importer started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	if a.importer != nil {
		a.importer.Stop()
	}
	if a.archiver != nil {
		a.archiver.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	if c, ok := a.store.(io.Closer); ok {
		utils.CloseLogged(c, "store", a.logger)
	}

	if runErr == nil {
		a.logger.Info("✅ tidymark stopped cleanly")
	}
	_ = a.logger.Sync()
	return runErr
}

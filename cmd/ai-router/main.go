package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/clientforge/ai-router/internal/api"
	"github.com/clientforge/ai-router/internal/api/middleware"
	"github.com/clientforge/ai-router/internal/backend"
	"github.com/clientforge/ai-router/internal/catalog"
	"github.com/clientforge/ai-router/internal/config"
	"github.com/clientforge/ai-router/internal/database"
	"github.com/clientforge/ai-router/internal/mcp"
	"github.com/clientforge/ai-router/internal/models"
	"github.com/clientforge/ai-router/internal/repository"
	"github.com/clientforge/ai-router/internal/service"
	"github.com/clientforge/ai-router/internal/version"
)

func main() {
	mcpMode := false
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v":
			fmt.Println(version.Info())
			os.Exit(0)
		case "--init":
			if err := runInit(); err != nil {
				log.Fatalf("init: %v", err)
			}
			os.Exit(0)
		case "--help", "-h":
			printUsage()
			os.Exit(0)
		case "mcp":
			mcpMode = true
		}
	}
	if err := run(mcpMode); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func printUsage() {
	fmt.Printf("AI Router - %s\n\n", version.Short())
	fmt.Println("Usage: ai-router [COMMAND|OPTIONS]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  mcp            Serve the routing tools over MCP on stdio")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --init         Generate .env.example configuration template")
	fmt.Println("  --version, -v  Show version information")
	fmt.Println("  --help, -h     Show this help message")
	fmt.Println()
	fmt.Println("Without arguments, starts the HTTP routing server.")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  Use environment variables or .env file (see .env.example)")
	fmt.Println("  Run 'ai-router --init' to generate the configuration template")
}

func run(mcpMode bool) error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger. In MCP mode stdout carries JSON-RPC, so console
	// output is suppressed and only the rotated file core stays on.
	logDir := getLogDir()
	logger, err := newLogger(cfg.Server.LogLevel, logDir, cfg.LogRotation, !mcpMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting ai-router",
		zap.String("version", version.Short()),
		zap.Bool("mcp_mode", mcpMode),
		zap.String("local_runtime", cfg.Catalog.BaseURL),
	)

	// Initialize database.
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	// Read-only pool keeps log statistics queries off the write path.
	readDB, err := database.NewReadOnly(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("init read-only database: %w", err)
	}
	defer readDB.Close()

	// Run migrations.
	if err := database.RunMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	logRepo := repository.NewDecisionLogRepositoryImpl(db, logger, readDB)

	// Load and validate the routing policy. Errors here are fatal; a
	// half-valid policy table must never serve traffic.
	doc, err := config.LoadPolicyDocument(cfg.Policy.Path)
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}
	classifier, err := service.NewClassifier(doc.Rules)
	if err != nil {
		return fmt.Errorf("build classifier: %w", err)
	}
	policies, err := service.NewPolicyTable(doc.Policies)
	if err != nil {
		return fmt.Errorf("validate policies: %w", err)
	}

	// Catalog client and monitor.
	catalogClient := catalog.NewClient(cfg.Catalog, logger)
	monitor := catalog.NewMonitor(cfg.Catalog, catalogClient, logger)
	monitor.Start()
	defer monitor.Stop()

	// Backends. Remote backends are registered only when their keys are
	// configured; selection checks key presence before picking them.
	backends := map[models.ExecutionMode]backend.Invoker{
		models.ModeLocal: backend.NewLocalBackend(cfg.Catalog, cfg.Remote, logger),
	}
	if cfg.Remote.OpenAIKey != "" {
		openaiBackend, err := backend.NewOpenAIBackend(cfg.Remote)
		if err != nil {
			return fmt.Errorf("init openai backend: %w", err)
		}
		backends[models.ModeRemoteOpenAI] = openaiBackend
	}
	if cfg.Remote.AnthropicKey != "" {
		anthropicBackend, err := backend.NewAnthropicBackend(cfg.Remote)
		if err != nil {
			return fmt.Errorf("init anthropic backend: %w", err)
		}
		backends[models.ModeRemoteAnthropic] = anthropicBackend
	}

	selector := service.NewSelector(cfg.Remote, logger)
	router := service.NewRouter(classifier, policies, selector, catalogClient, backends, logRepo, logger)

	if mcpMode {
		return mcp.NewServer(router, logger).ServeStdio()
	}

	// Create HTTP server.
	server := api.NewServer(api.ServerDeps{
		Router:  router,
		Monitor: monitor,
		LogRepo: logRepo,
		RateLimit: &middleware.RateLimitConfig{
			Enabled:       cfg.RateLimit.Enabled,
			MaxRequests:   cfg.RateLimit.MaxRequests,
			WindowSeconds: cfg.RateLimit.WindowSeconds,
			ExemptPaths:   middleware.DefaultRateLimitConfig().ExemptPaths,
		},
		Logger: logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // completions can take a while
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("addr", addr))

	// Wait for shutdown signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func newLogger(level string, logDir string, rotation config.LogRotationConfig, console bool) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug", "DEBUG":
		zapLevel = zap.DebugLevel
	case "warn", "WARN":
		zapLevel = zap.WarnLevel
	case "error", "ERROR":
		zapLevel = zap.ErrorLevel
	default:
		zapLevel = zap.InfoLevel
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", logDir, err)
	}

	lj := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "ai-router.log"),
		MaxSize:    rotation.MaxSizeMB,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAgeDays,
		Compress:   rotation.Compress,
	}

	// File core: JSON encoder for structured log parsing
	fileEncoderCfg := zap.NewProductionEncoderConfig()
	fileEncoderCfg.TimeKey = "ts"
	fileEncoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(fileEncoderCfg),
		zapcore.AddSync(lj),
		zapLevel,
	)

	if !console {
		return zap.New(fileCore,
			zap.AddCaller(),
			zap.AddStacktrace(zap.ErrorLevel),
		), nil
	}

	// Console core: human-readable output to stdout/stderr
	consoleEncoderCfg := zap.NewDevelopmentEncoderConfig()
	consoleEncoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleEncoder := zapcore.NewConsoleEncoder(consoleEncoderCfg)

	// stdout for DEBUG/INFO, stderr for WARN/ERROR+
	stdoutCore := zapcore.NewCore(
		consoleEncoder,
		zapcore.Lock(os.Stdout),
		zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= zapLevel && l < zapcore.WarnLevel
		}),
	)
	stderrCore := zapcore.NewCore(
		consoleEncoder,
		zapcore.Lock(os.Stderr),
		zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= zapLevel && l >= zapcore.WarnLevel
		}),
	)

	core := zapcore.NewTee(fileCore, stdoutCore, stderrCore)

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	), nil
}

func getLogDir() string {
	if dir := os.Getenv("AI_ROUTER_LOGS_DIR"); dir != "" {
		return dir
	}
	return "logs"
}

// Package main is the entry point for the flashloan arbitrage scanner.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/fd1az/flashloan-scanner/business/arbitrage"
	arbitrageApp "github.com/fd1az/flashloan-scanner/business/arbitrage/app"
	arbitrageDI "github.com/fd1az/flashloan-scanner/business/arbitrage/di"
	"github.com/fd1az/flashloan-scanner/business/blockchain"
	blockchainDI "github.com/fd1az/flashloan-scanner/business/blockchain/di"
	"github.com/fd1az/flashloan-scanner/business/pricing"
	"github.com/fd1az/flashloan-scanner/business/risk"
	riskDI "github.com/fd1az/flashloan-scanner/business/risk/di"
	"github.com/fd1az/flashloan-scanner/internal/apm"
	"github.com/fd1az/flashloan-scanner/internal/config"
	"github.com/fd1az/flashloan-scanner/internal/health"
	"github.com/fd1az/flashloan-scanner/internal/logger"
	"github.com/fd1az/flashloan-scanner/internal/metrics"
	"github.com/fd1az/flashloan-scanner/internal/monolith"
	"github.com/fd1az/flashloan-scanner/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Parse flags
	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("flashloan-scanner %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for debugging
	tuiMode := !*cliMode

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	// Run application
	if err := run(ctx, *configPath, tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set TUI mode in config so modules know
	cfg.Scanner.TUIMode = tuiMode

	// Setup logger (only log to stderr in CLI mode)
	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		// In TUI mode, suppress logs (discard output)
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting flashloan arbitrage scanner",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		// Set service name env var for OTEL
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		// Initialize tracing with Jaeger (local dev friendly)
		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.JaegerProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "jaeger", "endpoint", cfg.Telemetry.OTLPEndpoint)

		// Initialize metrics with Prometheus
		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		// Start Prometheus metrics server in background
		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Start health check server on port 8081
	healthServer := health.NewServer(8081, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	// Create monolith (application container)
	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Define modules in dependency order
	modules := []monolith.Module{
		&blockchain.Module{}, // Must be first - provides block subscription
		&pricing.Module{},    // Depends on blockchain for eth client
		&risk.Module{},       // Depends on blockchain for network health
		&arbitrage.Module{},  // Depends on all of the above
	}

	// Register all module services
	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	// Point the health endpoints at live chain and risk state
	blockchainSvc := blockchainDI.GetBlockchainService(mono.Services())
	riskEngine := riskDI.GetEngine(mono.Services())
	healthServer.RegisterCheck("chain", func(ctx context.Context) (bool, string) {
		h := blockchainSvc.NetworkHealth(ctx)
		return h.Healthy(), fmt.Sprintf("score %.2f, block #%d", h.Score, h.LastBlock)
	})
	healthServer.RegisterCheck("risk", func(ctx context.Context) (bool, string) {
		st := riskEngine.Status()
		if st.TradingPaused {
			return false, "trading paused: " + st.PauseReason
		}
		if st.CircuitOpen {
			return false, "circuit breaker open"
		}
		return true, ""
	})

	if tuiMode {
		// TUI mode: Start modules in background so TUI shows immediately
		startFunc := func() error {
			if err := mono.StartModules(ctx, modules...); err != nil {
				return fmt.Errorf("failed to start modules: %w", err)
			}
			scanner := arbitrageDI.GetScanner(mono.Services())
			return scanner.Start(ctx)
		}
		stopFunc := func() {
			scanner := arbitrageDI.GetScanner(mono.Services())
			scanner.Stop()
		}
		return runTUI(ctx, startFunc, stopFunc)
	}

	// CLI mode: Start modules synchronously
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	// Get scanner
	scanner := arbitrageDI.GetScanner(mono.Services())
	return runCLI(ctx, scanner, log)
}

func runCLI(ctx context.Context, scanner *arbitrageApp.Scanner, log *logger.Logger) error {
	log.Info(ctx, "all modules started, beginning arbitrage scanning")

	// Start the scan loop
	if err := scanner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scanner: %w", err)
	}

	// Wait for shutdown
	<-ctx.Done()

	log.Info(ctx, "shutting down")

	// Stop scanner gracefully
	if err := scanner.Stop(); err != nil {
		log.Error(ctx, "error stopping scanner", "error", err)
	}

	return nil
}

func runTUI(ctx context.Context, startFunc func() error, stopFunc func()) error {
	// Channel to receive StartModulesMsg signal
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	// Create and start the TUI program IMMEDIATELY (shows welcome screen)
	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	ui.Program = p

	// Run scanner logic in background (non-blocking)
	errCh := make(chan error, 1)
	go func() {
		// Wait for welcome screen to complete (StartModulesMsg signal)
		select {
		case <-startSignal:
			// Welcome complete, start modules
		case <-ctx.Done():
			errCh <- nil
			return
		}

		// Start modules and scanner (connections happen here, TUI shows progress)
		if err := startFunc(); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}

		// Wait for context cancellation
		<-ctx.Done()

		// Stop scanner
		stopFunc()
		errCh <- nil
	}()

	// Run TUI (blocking) - shows immediately with welcome screen
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Check for scanner errors
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

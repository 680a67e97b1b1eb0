package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"MetalCharts/internal/chart"
	"MetalCharts/internal/collector"
	"MetalCharts/internal/config"
	"MetalCharts/internal/recorder"
	"MetalCharts/internal/scheduler"
	"MetalCharts/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] MetalCharts starting...")

	// Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	logWriter, err := setupLogger(cfg)
	if err != nil {
		log.Printf("[WARN] file logging disabled: %v", err)
	} else {
		defer logWriter.Close()
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.UseMock() {
		fetcher = &collector.MockFetcher{Instruments: cfg.Instruments}
	} else {
		fetcher = collector.NewHTTPFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.Timeout,
			map[collector.Kind]string{
				collector.KindPrices:     cfg.DataSource.PricesPath,
				collector.KindForecast:   cfg.DataSource.ForecastPath,
				collector.KindHistorical: cfg.DataSource.HistoricalPath,
			})
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	dash := chart.NewDashboard(cfg.ChartConfig(), nil)
	defer dash.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, dash, rec, cfg.Output.Dir)
	if err := sched.WarmStart(); err != nil {
		log.Printf("[WARN] %v", err)
	}
	if err := sched.RegisterRefresh(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	go func() {
		if err := sched.RefreshNow(); err != nil {
			log.Printf("[ERROR] initial refresh: %v", err)
		}
	}()

	srv := server.New(cfg.Server.Addr, dash, cfg.Instruments, sched)
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("[ERROR] preview server: %v", err)
			cancel()
		}
	}()

	log.Printf("[INFO] MetalCharts is running, next refresh in %s. Press Ctrl+C to stop.", sched.Countdown(time.Now()))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] server shutdown: %v", err)
	}
	log.Println("[INFO] MetalCharts stopped")
}

// setupLogger tees the standard logger into a rotating file.
func setupLogger(cfg *config.Config) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, err
	}
	logWriter := &lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, logWriter))
	return logWriter, nil
}

package main

// Headless detection runner:
//   go run ./cmd/detector        runs the scheduler until interrupted
//   go run ./cmd/detector -once  runs a single pass and exits

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"workforce-backend/internal/bootstrap"
	"workforce-backend/internal/shared/config"
)

func main() {
	once := flag.Bool("once", false, "run a single detection pass and exit")
	flag.Parse()

	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer func() {
		if app.DB != nil {
			app.DB.Close()
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		result, err := app.DetectionService.RunPass(ctx)
		if err != nil {
			log.Printf("detection pass failed: %v", err)
			os.Exit(1)
		}
		log.Printf("detection pass completed alerts=%d failed_writes=%d duration_ms=%.1f",
			result.AlertsCreated, result.FailedWrites, result.DurationMs)
		return
	}

	app.Scheduler.Start(ctx)
	log.Printf("detector started interval=%dm", app.Scheduler.Status().IntervalMinutes)

	<-ctx.Done()
	log.Printf("shutdown requested")
	app.Scheduler.Stop()
}

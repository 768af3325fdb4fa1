package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dataplug/config"
	"dataplug/internal/database"
	"dataplug/internal/router"
	"dataplug/internal/scheduler"
	"dataplug/pkg/payverify"
	"dataplug/pkg/provider"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedAdmin(db)

	var client provider.Client
	if cfg.Provider.BaseURL != "" {
		client = provider.NewHTTPClient(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Provider.Timeout)
	} else {
		log.Printf("[Provider] PROVIDER_BASE_URL not set, using stub client")
		client = &provider.StubClient{}
	}
	var verifier payverify.Verifier
	if cfg.Verifier.BaseURL != "" {
		verifier = payverify.NewHTTPVerifier(cfg.Verifier.BaseURL, cfg.Verifier.SecretKey, cfg.Verifier.Timeout)
	} else {
		log.Printf("[Verifier] VERIFIER_BASE_URL not set, using stub verifier")
		verifier = &payverify.StubVerifier{}
	}

	engine, deps := router.Setup(cfg, db, client, verifier)

	jobCtx, stopJobs := context.WithCancel(context.Background())
	scheduler.New(&cfg.Scheduler, deps.MaturationSvc, deps.OrderSvc).Start(jobCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	stopJobs()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}

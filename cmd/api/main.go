package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "talenttrack/docs" // Swagger docs
	"talenttrack/internal/api"
	"talenttrack/internal/config"
	"talenttrack/internal/storage"
)

// @title TalentTrack API
// @version 1.0
// @description Candidate management API: validated CRUD with a dedup/re-add threshold engine and CSV/XLSX bulk import/export

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /api

func main() {
	cfg := config.Load()

	log.Println("Connecting to database...")
	db, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db open:", err)
	}
	defer db.Close()

	// Schema setup is an explicit startup step, not lazy state.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.InitSchema(ctx); err != nil {
		cancel()
		log.Fatal("init schema:", err)
	}
	cancel()

	log.Println("Database ready")

	apiSrv := api.NewAPI(db, cfg)
	router := api.NewRouter(apiSrv)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second, // file uploads
		WriteTimeout: 60 * time.Second, // large exports
		IdleTimeout:  120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Println("server shutdown:", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("API server listening on :%s\n", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}

	<-idleConnsClosed
}

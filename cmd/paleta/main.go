package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/covxx/paleta/internal/api"
	"github.com/covxx/paleta/internal/config"
	"github.com/covxx/paleta/internal/db"
	"github.com/covxx/paleta/internal/label"
	"github.com/covxx/paleta/internal/printer"
	"github.com/covxx/paleta/internal/printjob"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}

	conn, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer conn.Close()

	store := db.NewStore(conn)

	engine := label.NewEngine(label.Company{
		Name:    cfg.Company.Name,
		Address: cfg.Company.Address,
	})

	client := printer.NewClient(cfg.Printing.SendTimeout, cfg.Printing.ProbeTimeout, cfg.Printing.SettleDelay)

	orchestrator := printjob.NewOrchestrator(store, store, store, client, engine)
	orchestrator.SetMaxCopies(cfg.Printing.MaxCopies)

	router, err := api.NewRouter(api.RouterDeps{
		Store:        store,
		Engine:       engine,
		Client:       client,
		Orchestrator: orchestrator,
	})
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}

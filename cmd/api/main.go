package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/xevansz/Prognos-Advisor-AI/internal/config"
	"github.com/xevansz/Prognos-Advisor-AI/internal/handler"
	"github.com/xevansz/Prognos-Advisor-AI/internal/integrations/fx"
	"github.com/xevansz/Prognos-Advisor-AI/internal/integrations/market"
	"github.com/xevansz/Prognos-Advisor-AI/internal/integrations/narrator"
	"github.com/xevansz/Prognos-Advisor-AI/internal/jobs"
	"github.com/xevansz/Prognos-Advisor-AI/internal/middleware"
	"github.com/xevansz/Prognos-Advisor-AI/internal/repository"
	"github.com/xevansz/Prognos-Advisor-AI/internal/service"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// External integrations
	marketClient := market.NewClient(cfg, logger)
	fxClient := fx.NewClient(cfg, logger)

	var narratorClient service.NarrativeGenerator
	if cfg.GeminiAPIKey != "" {
		client, err := narrator.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize narrator: %v", err)
		}
		narratorClient = client
	} else {
		logger.Warn("GEMINI_API_KEY not set, reports will use the templated fallback")
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, logger, cfg, marketClient, narratorClient, fxClient)
	h := handler.NewHandler(svc, logger, cfg)

	// Background jobs
	scheduler := jobs.NewScheduler(repo, svc, logger)
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/health", h.Health).Methods("GET")
	api.HandleFunc("/fx/rates", h.FXRates).Methods("GET")

	// Protected routes
	authRouter := api.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))

	authRouter.HandleFunc("/profile", h.GetProfile).Methods("GET")
	authRouter.HandleFunc("/profile", h.SaveProfile).Methods("PUT")

	authRouter.HandleFunc("/accounts", h.ListAccounts).Methods("GET")
	authRouter.HandleFunc("/accounts", h.CreateAccount).Methods("POST")
	authRouter.HandleFunc("/accounts/{id}", h.GetAccount).Methods("GET")
	authRouter.HandleFunc("/accounts/{id}", h.UpdateAccount).Methods("PUT", "PATCH")
	authRouter.HandleFunc("/accounts/{id}", h.DeleteAccount).Methods("DELETE")

	authRouter.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	authRouter.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	authRouter.HandleFunc("/transactions/{id}", h.GetTransaction).Methods("GET")
	authRouter.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods("PUT", "PATCH")
	authRouter.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE")

	authRouter.HandleFunc("/goals", h.ListGoals).Methods("GET")
	authRouter.HandleFunc("/goals", h.CreateGoal).Methods("POST")
	authRouter.HandleFunc("/goals/{id}", h.GetGoal).Methods("GET")
	authRouter.HandleFunc("/goals/{id}", h.UpdateGoal).Methods("PUT", "PATCH")
	authRouter.HandleFunc("/goals/{id}", h.DeleteGoal).Methods("DELETE")

	authRouter.HandleFunc("/prognosis/refresh", h.GeneratePrognosis).Methods("POST")
	authRouter.HandleFunc("/prognosis/current", h.GetCurrentPrognosis).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Shutdown failed: %v", err)
	}
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linemk/storefront/internal/config"
	"github.com/linemk/storefront/internal/devserver"
	"github.com/linemk/storefront/internal/devserver/store"
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/lib/logger"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.MustLoad()

	log := logger.SetupLogger(cfg.Env)
	log.Info("starting devserver", slog.String("env", cfg.Env))

	users := store.NewUserStore()
	for _, account := range seedAccounts() {
		hash, err := bcrypt.GenerateFromPassword([]byte(account.password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("failed to seed users", slog.Any("error", err))
			panic(errors.Wrap(err, "failed to seed users"))
		}
		users.AddUser(account.email, hash, account.admin)
	}
	carts := store.NewCartStore(catalog())
	orders := store.NewOrderStore()

	handler := devserver.New(log, users, carts, orders, time.Duration(cfg.DevServer.TokenTTL)*time.Minute)

	srv := &http.Server{
		Addr:         cfg.DevServer.Address,
		Handler:      handler,
		ReadTimeout:  cfg.DevServer.Timeout,
		WriteTimeout: cfg.DevServer.Timeout,
		IdleTimeout:  cfg.DevServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.DevServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}

type seedAccount struct {
	email    string
	password string
	admin    bool
}

// seedAccounts are the fixed demo logins; the stub has no registration.
func seedAccounts() []seedAccount {
	return []seedAccount{
		{email: "demo@storefront.local", password: "password123"},
		{email: "admin@storefront.local", password: "adminpass123", admin: true},
	}
}

// catalog is the fixed product set the stub sells.
func catalog() []models.Product {
	return []models.Product{
		{ID: 1, Name: "t-shirt", Price: 10},
		{ID: 2, Name: "mug", Price: 5},
		{ID: 3, Name: "hoodie", Price: 30},
		{ID: 4, Name: "sticker pack", Price: 2.5},
	}
}

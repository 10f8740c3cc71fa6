package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/skywardair/bookingdesk/internal/config"
	"github.com/skywardair/bookingdesk/internal/handlers"
	"github.com/skywardair/bookingdesk/internal/router"
	"github.com/skywardair/bookingdesk/internal/service"
	"github.com/skywardair/bookingdesk/internal/session"
	"github.com/skywardair/bookingdesk/internal/upstream"
	"github.com/skywardair/bookingdesk/internal/websocket"
	"go.temporal.io/sdk/client"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	v, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		logrus.Fatalf("Failed to parse config: %v", err)
	}

	// Redis holds the per-browser sessions.
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	sessions := session.NewRedisStore(rdb, cfg.Session.TTL)

	// Temporal runs the purchase workflow.
	temporalClient, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
	})
	if err != nil {
		logrus.Fatalf("Failed to create Temporal client: %v", err)
	}
	defer temporalClient.Close()

	api := upstream.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)

	hub := websocket.NewHub()
	go hub.Run()

	svc := service.New(api, sessions, hub, temporalClient, cfg)
	h := handlers.NewHandler(svc, hub)
	r := router.SetupRouter(h, cfg.Session.CookieName, cfg.Session.TTL)

	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":     srv.Addr,
			"upstream": cfg.Upstream.BaseURL,
			"temporal": cfg.Temporal.HostPort,
		}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("server stopped")
}

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"armoryhub/internal/refresh"
	"armoryhub/internal/scraper"
	"armoryhub/internal/store"
	synchub "armoryhub/internal/sync"
	"armoryhub/internal/weapons"
	"armoryhub/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	st, err := store.Open(cfg.Store)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	sources := make([]scraper.Source, 0, len(cfg.Sources))
	for _, u := range cfg.Sources {
		sources = append(sources, scraper.NewWikiTableSource(u, cfg.FetchTimeout))
	}
	agg := scraper.NewAggregator(logger, sources...)

	hub := synchub.NewHub()
	refresher := refresh.New(agg, st, hub, logger)
	scheduler, err := refresh.NewScheduler(refresher, logger)
	if err != nil {
		log.Fatalf("create scheduler: %v", err)
	}

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: newRouter(cfg, st, hub, refresher, logger),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := refresher.RunIfEmpty(ctx); err != nil {
			logger.Error("startup refresh failed", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("HTTP API server listening", "addr", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	logger.Info("shutting down")
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}

	wg.Wait()
	logger.Info("server stopped")
}

// newRouter mounts the API under /api plus the ws feed and a debug
// endpoint. CORS is open so the mobile client can call from any origin.
func newRouter(cfg utils.Config, st store.Store, hub *synchub.Hub, refresher *refresh.Refresher, logger *slog.Logger) *gin.Engine {
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})
	router.Use(cors.Default())

	router.GET("/ws", synchub.WSHandler(hub, logger))
	router.GET("/debug", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"store":      cfg.Store,
			"sources":    cfg.Sources,
			"ws_clients": hub.Stats().WSClients,
			"refresh":    refresher.Status(),
		})
	})

	api := router.Group("/api")
	weapons.NewHandler(weapons.NewService(st, logger)).RegisterRoutes(api)
	refresh.NewHandler(refresher).RegisterRoutes(api)
	return router
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/krishisetu/agri-advisor/cache"
	"github.com/krishisetu/agri-advisor/config"
	"github.com/krishisetu/agri-advisor/db"
	"github.com/krishisetu/agri-advisor/geodata"
	httpserver "github.com/krishisetu/agri-advisor/http"
	"github.com/krishisetu/agri-advisor/recommend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connection error: %v", err)
	}
	defer store.Close()

	var recCache recommend.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection error: %v", err)
		}
		defer redisCache.Close()
		recCache = redisCache
		log.Printf("recommendation cache: redis")
	} else {
		recCache = cache.NewMemory()
		log.Printf("recommendation cache: in-memory (REDIS_URL not set)")
	}

	catalog := recommend.DefaultCatalog()
	if err := catalog.Validate(); err != nil {
		log.Fatalf("crop catalog invalid: %v", err)
	}

	sources := geodata.NewClient(geodata.ClientConfig{
		BhuvanBaseURL:      cfg.BhuvanBaseURL,
		BhuvanGeocodeToken: cfg.BhuvanGeocodeToken,
		BhuvanLULCToken:    cfg.BhuvanLULCToken,
		SoilGridsURL:       cfg.SoilGridsURL,
		Timeout:            cfg.SourceTimeout,
	})

	svc := recommend.NewService(sources, recCache, catalog, recommend.Options{
		CacheTTL:    cfg.CacheTTL,
		DefaultTopN: cfg.DefaultTopN,
	})

	srv := httpserver.New(cfg, store, svc)
	log.Printf("advisor API listening on %s", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

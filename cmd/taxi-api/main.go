// README: Entry point; loads config, wires optional backends and services, serves HTTP until signalled.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"taxi/internal/config"
	"taxi/internal/events"
	httptransport "taxi/internal/http"
	"taxi/internal/infra"
	"taxi/internal/maps"
	"taxi/internal/modules/location"
	"taxi/internal/modules/matching"
	"taxi/internal/modules/pricing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		quoteStore pricing.QuoteStore
		publisher  pricing.EventPublisher
		roster     matching.Roster
		snapshots  location.SnapshotStore
		registry   matching.Registry = matching.NewMemoryRegistry()
		routes     httptransport.RoutePreviewer
	)

	if cfg.PersistenceEnabled() {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal(err)
		}
		defer dbPool.Close()
		quoteStore = pricing.NewStore(dbPool)
		roster = matching.NewPGRoster(dbPool)
		snapshots = location.NewStore(dbPool)
	} else {
		log.Println("TAXI_DB_DSN not set; quotes and drivers are not persisted")
	}

	if cfg.Redis.Addr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatal(err)
		}
		defer redisClient.Close()
		registry = matching.NewRedisRegistry(redisClient)
	}

	if cfg.EventsEnabled() {
		pub := events.NewPublisher(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		defer func() {
			if err := pub.Close(); err != nil {
				log.Printf("kafka close: %v", err)
			}
		}()
		publisher = pub
	}

	if cfg.Maps.APIKey != "" {
		rs, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatal(err)
		}
		routes = rs
	}

	pricingSvc := pricing.NewService(quoteStore, publisher)
	locationSvc := location.NewService(snapshots)
	matchingSvc := matching.NewService(registry, roster, locationSvc)

	if n, err := matchingSvc.Seed(ctx); err != nil {
		log.Printf("seeding drivers: %v", err)
	} else if n > 0 {
		log.Printf("seeded %d drivers from roster", n)
	}

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Pricing:  pricingSvc,
		Matching: matchingSvc,
		Routes:   routes,
	})
	server := httptransport.NewServer(httptransport.ServerConfig{
		Addr:            cfg.HTTP.Addr,
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}, router)

	if err := server.Run(ctx); err != nil {
		log.Fatal(err)
	}
	log.Println("stopped")
}

// README: Applies or rolls back the embedded schema migrations.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"taxi/internal/config"
	"taxi/internal/migrations"
)

func main() {
	down := flag.Bool("down", false, "roll back every migration")
	wait := flag.Duration("wait", 30*time.Second, "how long to wait for the database")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if !cfg.PersistenceEnabled() {
		log.Fatal("TAXI_DB_DSN is required")
	}

	if *down {
		if err := migrations.Down(cfg.DB.DSN); err != nil {
			log.Fatal(err)
		}
		log.Println("migrations rolled back")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *wait)
	defer cancel()
	if err := migrations.Up(ctx, cfg.DB.DSN); err != nil {
		log.Fatal(err)
	}
}

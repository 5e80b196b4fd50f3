package main

import (
	"context"
	"flag"
	"log"

	"github.com/Houeta/employee-api/internal/config"
	"github.com/Houeta/employee-api/internal/repository"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

func main() {
	migrationsDir := flag.String("dir", "migrations", "directory with goose SQL migrations")
	command := flag.String("command", "up", "goose command to run: up, down, status")
	flag.Parse()

	cfg := config.MustLoad()

	dbpool, dbErr := repository.NewDatabase(context.Background(), repository.BuildDSN(
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User,
		cfg.Postgres.Password, cfg.Postgres.Dbname, cfg.Postgres.SSLMode))
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set goose dialect: %v", err)
	}

	dtb := stdlib.OpenDBFromPool(dbpool)
	defer dtb.Close()

	if err := goose.Run(*command, dtb, *migrationsDir); err != nil {
		log.Fatalf("Failed to run migrations %q: %v", *command, err)
	}

	log.Printf("Migrations command %q applied successfully", *command)
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/kendall-kelly/clinic-landing-api/config"
	"github.com/kendall-kelly/clinic-landing-api/logging"
	"github.com/kendall-kelly/clinic-landing-api/migrations"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  up       apply pending migrations (default)
  down     roll back the latest migration
  status   show migration status`)
	os.Exit(2)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("failed to load configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	if !cfg.HasDatabase() {
		logging.Fatal(config.ErrDatabaseURLRequired.Error())
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to open database", "error", err)
	}
	defer db.Close()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	ctx := context.Background()
	switch cmd {
	case "up":
		err = migrations.Up(ctx, db)
	case "down":
		err = migrations.Down(ctx, db)
	case "status":
		err = migrations.Status(ctx, db)
	default:
		usage()
	}
	if err != nil {
		logging.Fatal("migration failed", "command", cmd, "error", err)
	}
}

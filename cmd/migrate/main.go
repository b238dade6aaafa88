package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/slotjack/wheelhouse/internal/config"
)

// Applies goose migrations against the configured database, creating the
// database first if it does not exist. Usage:
//
//	migrate [-dir migrations] [command]
//
// where command is any goose command (up, down, status, ...); default is up.
func main() {
	dir := flag.String("dir", "migrations", "directory with migration files")
	flag.Parse()

	command := "up"
	if args := flag.Args(); len(args) > 0 {
		command = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	if err := ensureDatabase(cfg); err != nil {
		log.Fatalf("Failed to ensure database exists: %v", err)
	}

	db, err := sql.Open("pgx", cfg.GetDBConnString())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set goose dialect: %v", err)
	}

	var gooseArgs []string
	if extra := flag.Args(); len(extra) > 1 {
		gooseArgs = extra[1:]
	}

	if err := goose.RunContext(context.Background(), command, db, *dir, gooseArgs...); err != nil {
		log.Fatalf("goose %s failed: %v", command, err)
	}

	fmt.Printf("goose %s completed\n", command)
}

// ensureDatabase connects to the default postgres database and creates the
// target database if missing.
func ensureDatabase(cfg *config.Config) error {
	ctx := context.Background()

	adminConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort)
	conn, err := pgx.Connect(ctx, adminConnString)
	if err != nil {
		return fmt.Errorf("unable to connect to postgres database: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if !exists {
		fmt.Fprintf(os.Stdout, "Creating database %s...\n", cfg.DBName)
		if _, err := conn.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", cfg.DBName)); err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
	}

	return nil
}

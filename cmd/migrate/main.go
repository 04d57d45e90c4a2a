package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"

	"caixa-be/internal/db"
	"caixa-be/internal/logger"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"))
	defer logger.Sync()

	mode := flag.String("mode", db.MigrateUp, "migration mode: up or down")
	dir := flag.String("dir", "./migrations", "directory holding the migration files")
	flag.Parse()

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("DB_URL not set in environment")
	}

	if err := run(dbURL, *mode, *dir); err != nil {
		log.Fatal(err)
	}
}

var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("postgres", dsn)
}

func run(dsn, mode, dir string) error {
	conn, err := openDB(dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	return db.Migrate(context.Background(), conn, mode, dir)
}

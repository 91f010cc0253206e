package postgres

import (
	"fmt"
	"log"
	"strings"
	"time"

	"notification-webhook-service/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ConnectionString prefers DATABASE_URL and otherwise builds a keyword DSN
// from the individual settings.
func ConnectionString(cfg config.PostgresConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		quote(cfg.Host), quote(cfg.Port), quote(cfg.Username), quote(cfg.Password), quote(cfg.DBname), quote(cfg.SSLMode))
}

// quote wraps a keyword value in single quotes so spaces and quotes survive.
func quote(value string) string {
	return "'" + dsnEscaper.Replace(value) + "'"
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func Connect(cfg config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", ConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("connected to database at %s:%s", cfg.Host, cfg.Port)
	return db, nil
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cafe-pos/internal/common/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open prepares a pool without dialing. A POS terminal has to boot with the
// backend unreachable, so connecting eagerly here would be wrong; callers use
// WaitReady to probe when they care.
func Open(cfg config.BackendConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database)
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(time.Minute)
	return db, nil
}

// WaitReady pings with a bounded retry loop. Returns the last ping error if
// the backend never answered within the attempts.
func WaitReady(ctx context.Context, db *sql.DB, attempts int, delay time.Duration) error {
	const pingTTL = 5 * time.Second

	var err error
	for i := 1; i <= attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, pingTTL)
		err = db.PingContext(pctx)
		cancel()
		if err == nil {
			return nil
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("db ping canceled: %w", ctx.Err())
		}
	}
	return fmt.Errorf("database unreachable after %d attempts: %w", attempts, err)
}

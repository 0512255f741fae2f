package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/storefront-bff/internal/config"
	"github.com/aaravmahajanofficial/storefront-bff/internal/utils"
	"go.opentelemetry.io/otel/attribute"

	_ "github.com/lib/pq"
)

type Repository struct {
	DB *sql.DB
}

const orderHistorySchema = `
	CREATE TABLE IF NOT EXISTS order_history (
		id          BIGSERIAL PRIMARY KEY,
		client_id   TEXT        NOT NULL,
		user_id     BIGINT      NOT NULL DEFAULT 0,
		order_id    BIGINT      NOT NULL DEFAULT 0,
		total_price BIGINT      NOT NULL,
		payload     JSONB       NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	ALTER TABLE order_history ADD COLUMN IF NOT EXISTS user_id BIGINT NOT NULL DEFAULT 0;
	CREATE INDEX IF NOT EXISTS order_history_client_user_created_idx ON order_history (client_id, user_id, created_at DESC);
`

func New(cfg *config.Config) (*Repository, *OrderHistoryRepository, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	ctx, cancel := utils.WithOrderHistoryTimeout(context.Background())
	defer cancel()

	// Test the connection to make sure DB is reachable
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, orderHistorySchema); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to prepare order history schema: %w", err)
	}

	return &Repository{DB: db}, NewOrderHistoryRepository(db), nil
}

func (p *Repository) Close() error {
	return p.DB.Close()
}

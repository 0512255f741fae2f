package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/aaravmahajanofficial/storefront-bff/internal/utils"
)

type OrderHistoryRepository struct {
	DB *sql.DB
}

func NewOrderHistoryRepository(db *sql.DB) *OrderHistoryRepository {
	return &OrderHistoryRepository{DB: db}
}

// Record stores a confirmed order and sets entry.ID.
func (r *OrderHistoryRepository) Record(ctx context.Context, entry *models.OrderHistoryEntry) error {

	dbCtx, cancel := utils.WithOrderHistoryTimeout(ctx)
	defer cancel()

	payload, err := json.Marshal(entry.Order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	query := `
		INSERT INTO order_history (client_id, user_id, order_id, total_price, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err = r.DB.QueryRowContext(dbCtx, query, entry.ClientID, entry.UserID, entry.OrderID, entry.TotalPrice, payload, entry.CreatedAt).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order history: %w", err)
	}

	return nil
}

// ListByUser returns one page of the orders userID placed from clientID,
// newest first, and the total number of those orders.
func (r *OrderHistoryRepository) ListByUser(ctx context.Context, clientID string, userID int64, page, size int) ([]models.OrderHistoryEntry, int, error) {

	dbCtx, cancel := utils.WithOrderHistoryTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM order_history WHERE client_id = $1 AND user_id = $2`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, clientID, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count order history: %w", err)
	}

	offset := (page - 1) * size

	query := `
		SELECT id, client_id, user_id, order_id, total_price, payload, created_at
		FROM order_history
		WHERE client_id = $1 AND user_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.DB.QueryContext(dbCtx, query, clientID, userID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list order history: %w", err)
	}
	defer rows.Close()

	entries := []models.OrderHistoryEntry{}

	for rows.Next() {

		var (
			entry   models.OrderHistoryEntry
			payload []byte
		)

		if err := rows.Scan(&entry.ID, &entry.ClientID, &entry.UserID, &entry.OrderID, &entry.TotalPrice, &payload, &entry.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan order history: %w", err)
		}

		if err := json.Unmarshal(payload, &entry.Order); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal order: %w", err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating order history rows: %w", err)
	}

	return entries, total, nil
}

package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veloxpay/payment-service/internal/core/domain"
	portsrepo "github.com/veloxpay/payment-service/internal/core/ports/repositories"
	"github.com/veloxpay/payment-service/internal/models"
	"github.com/veloxpay/payment-service/internal/utils/mapping"
)

// PgxNotificationRepository persists notification delivery attempts in PostgreSQL.
type PgxNotificationRepository struct {
	pool *pgxpool.Pool
}

var _ portsrepo.NotificationRepository = (*PgxNotificationRepository)(nil)

// NewNotificationRepository creates a new repository for notification delivery records.
func NewNotificationRepository(pool *pgxpool.Pool) *PgxNotificationRepository {
	return &PgxNotificationRepository{pool: pool}
}

// SaveNotificationDelivery records one delivery attempt.
func (r *PgxNotificationRepository) SaveNotificationDelivery(ctx context.Context, delivery domain.NotificationDelivery) (*domain.NotificationDelivery, error) {
	m := mapping.ToModelNotificationDelivery(delivery)

	query := `
		INSERT INTO notifications (
			user_id, transaction_reference, transaction_type, transaction_status,
			amount, currency, message, delivered, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;
	`
	err := r.pool.QueryRow(ctx, query,
		m.UserID,
		m.TransactionReference,
		m.TransactionType,
		m.TransactionStatus,
		m.Amount,
		m.Currency,
		m.Message,
		m.Delivered,
		m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert notification for %s: %w", m.TransactionReference, err)
	}

	saved := mapping.ToDomainNotificationDelivery(m)
	return &saved, nil
}

// ListNotificationsByUserID retrieves delivery records for a user, newest first.
func (r *PgxNotificationRepository) ListNotificationsByUserID(ctx context.Context, userID int64) ([]domain.NotificationDelivery, error) {
	query := `
		SELECT id, user_id, transaction_reference, transaction_type, transaction_status,
			amount, currency, message, delivered, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %d: %w", userID, err)
	}
	defer rows.Close()

	deliveries := []domain.NotificationDelivery{}
	for rows.Next() {
		var m models.NotificationDelivery
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.TransactionReference,
			&m.TransactionType,
			&m.TransactionStatus,
			&m.Amount,
			&m.Currency,
			&m.Message,
			&m.Delivered,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		deliveries = append(deliveries, mapping.ToDomainNotificationDelivery(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notification rows: %w", err)
	}

	return deliveries, nil
}

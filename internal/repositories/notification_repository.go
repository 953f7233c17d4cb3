package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"recycle-backend/internal/models"
)

type NotificationRepository struct {
	DB *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO customer_notifications(customer_id, title, message, type)
		 VALUES($1, $2, $3, $4)
		 RETURNING id, is_read, created_at`,
		n.CustomerID, n.Title, n.Message, n.Type,
	).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
}

// ListRecent returns the newest 50 notifications for a customer.
func (r *NotificationRepository) ListRecent(ctx context.Context, customerID string) ([]*models.Notification, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, customer_id, title, message, type, is_read, created_at
		 FROM customer_notifications
		 WHERE customer_id=$1
		 ORDER BY created_at DESC
		 LIMIT 50`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.CustomerID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// MarkRead flags one notification as read. Scoped to the customer so one
// customer cannot flip another's rows.
func (r *NotificationRepository) MarkRead(ctx context.Context, customerID string, id int64) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE customer_notifications SET is_read=TRUE WHERE id=$1 AND customer_id=$2`,
		id, customerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// MarkAllRead flags every unread notification for the customer.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, customerID string) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE customer_notifications SET is_read=TRUE WHERE customer_id=$1 AND is_read=FALSE`,
		customerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

package services

import (
	"context"

	"recycle-backend/internal/models"
)

// Store interfaces consumed by the services. The pgx repositories satisfy
// them in production; tests substitute in-memory fakes.

type CustomerStore interface {
	Create(ctx context.Context, c *models.Customer) error
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	FindByMobile(ctx context.Context, mobile string) (*models.Customer, error)
	NextID(ctx context.Context) (string, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListRecent(ctx context.Context, customerID string) ([]*models.Notification, error)
	MarkRead(ctx context.Context, customerID string, id int64) (int64, error)
	MarkAllRead(ctx context.Context, customerID string) (int64, error)
}

type DeviceTokenStore interface {
	Upsert(ctx context.Context, customerID, deviceToken, platform string) error
}

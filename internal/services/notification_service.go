package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recycle-backend/internal/apperr"
	"recycle-backend/internal/models"
	"recycle-backend/internal/timeutil"
)

// NotificationService lists and flags customer notifications and registers
// push tokens.
type NotificationService struct {
	notifications NotificationStore
	devices       DeviceTokenStore
	now           func() time.Time
}

func NewNotificationService(notifications NotificationStore, devices DeviceTokenStore) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		devices:       devices,
		now:           timeutil.Now,
	}
}

// List returns the customer's newest 50 notifications with humanized ages
// and icons, plus total and unread counts.
func (s *NotificationService) List(ctx context.Context, customerID string) (*models.NotificationList, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, apperr.Validation("Customer ID is required")
	}

	rows, err := s.notifications.ListRecent(ctx, customerID)
	if err != nil {
		return nil, apperr.Internal("Failed to load notifications", err)
	}

	now := s.now()
	views := make([]models.NotificationView, 0, len(rows))
	unread := 0
	for _, n := range rows {
		if !n.IsRead {
			unread++
		}
		views = append(views, models.NotificationView{
			ID:      n.ID,
			Title:   n.Title,
			Message: n.Message,
			Type:    n.Type,
			Icon:    models.IconForType(n.Type),
			Time:    timeAgo(now, n.CreatedAt),
			IsRead:  n.IsRead,
		})
	}

	return &models.NotificationList{
		Notifications: views,
		Count:         len(views),
		UnreadCount:   unread,
	}, nil
}

// MarkRead flags one notification, or all of the customer's unread ones when
// notificationID is nil.
func (s *NotificationService) MarkRead(ctx context.Context, customerID string, notificationID *int64) (int64, error) {
	if strings.TrimSpace(customerID) == "" {
		return 0, apperr.Validation("Customer ID is required")
	}

	if notificationID == nil {
		n, err := s.notifications.MarkAllRead(ctx, customerID)
		if err != nil {
			return 0, apperr.Internal("Failed to update notifications", err)
		}
		return n, nil
	}

	n, err := s.notifications.MarkRead(ctx, customerID, *notificationID)
	if err != nil {
		return 0, apperr.Internal("Failed to update notification", err)
	}
	if n == 0 {
		return 0, apperr.NotFound("Notification not found")
	}
	return n, nil
}

// RegisterDevice stores a push token for the customer. Registering the same
// token again is a refresh, not an error.
func (s *NotificationService) RegisterDevice(ctx context.Context, req *models.RegisterDeviceRequest) error {
	if strings.TrimSpace(req.CustomerID) == "" {
		return apperr.Validation("Customer ID is required")
	}
	if strings.TrimSpace(req.DeviceToken) == "" {
		return apperr.Validation("Device token is required")
	}

	platform := strings.TrimSpace(req.Platform)
	if platform == "" {
		platform = "android"
	}

	if err := s.devices.Upsert(ctx, req.CustomerID, req.DeviceToken, platform); err != nil {
		return apperr.Internal("Failed to register device", err)
	}
	return nil
}

// Notify records a notification for a customer. Used by the welcome hook
// after signup and by back-office events.
func (s *NotificationService) Notify(ctx context.Context, customerID, title, message, notifType string) error {
	n := &models.Notification{
		CustomerID: customerID,
		Title:      title,
		Message:    message,
		Type:       notifType,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return apperr.Internal("Failed to create notification", err)
	}
	return nil
}

// timeAgo buckets the age of a notification the way the mobile app displays
// it: seconds collapse to "Just now", then minutes, hours, days, weeks.
func timeAgo(now, created time.Time) string {
	diff := now.Sub(created)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	default:
		return plural(int(diff.Hours()/(24*7)), "week")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

package models

import "time"

// Notification types with a dedicated icon. Anything else renders the
// default bell.
var notificationIcons = map[string]string{
	"pickup":      "♻️",
	"achievement": "🌱",
	"reward":      "🎁",
	"update":      "📢",
	"impact":      "🌍",
	"payment":     "💳",
	"system":      "🔔",
}

// IconForType returns the emoji shown next to a notification.
func IconForType(notifType string) string {
	if icon, ok := notificationIcons[notifType]; ok {
		return icon
	}
	return "🔔"
}

// Notification is one row of customer_notifications.
type Notification struct {
	ID         int64     `json:"id"`
	CustomerID string    `json:"customerId"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Type       string    `json:"type"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NotificationView is the API shape: row fields plus the derived icon and
// humanized age.
type NotificationView struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Icon    string `json:"icon"`
	Time    string `json:"time"`
	IsRead  bool   `json:"isRead"`
}

// NotificationList bundles the views with their counts.
type NotificationList struct {
	Notifications []NotificationView `json:"notifications"`
	Count         int                `json:"count"`
	UnreadCount   int                `json:"unreadCount"`
}

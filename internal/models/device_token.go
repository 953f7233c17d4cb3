package models

import "time"

// DeviceToken is one row of b2c_device_tokens. A customer may register the
// same token repeatedly (app reinstalls); the pair is unique and re-registering
// refreshes updated_at.
type DeviceToken struct {
	ID          int64     `json:"id"`
	CustomerID  string    `json:"customerId"`
	DeviceToken string    `json:"deviceToken"`
	Platform    string    `json:"platform"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RegisterDeviceRequest is the POST /api/notifications/register-device body.
type RegisterDeviceRequest struct {
	CustomerID  string `json:"customerId"`
	DeviceToken string `json:"deviceToken"`
	Platform    string `json:"platform"`
}

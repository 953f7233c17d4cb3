package models

import "time"

// SMS delivery outcomes recorded in sms_logs.
const (
	SMSStatusSent   = "SENT"
	SMSStatusFailed = "FAILED"
)

// SMSLog is one row of sms_logs. Detail carries the provider diagnostic
// (HTTP status, timeout note, or error text).
type SMSLog struct {
	ID        int64     `json:"id"`
	Mobile    string    `json:"mobile"`
	Purpose   string    `json:"purpose"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"createdAt"`
}

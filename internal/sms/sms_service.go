package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"recycle-backend/internal/models"
	"recycle-backend/internal/timeutil"
)

// Provider sends OTP codes. Delivery failure is a result, not an error:
// login keeps going when the gateway is down, it just tells the caller the
// SMS did not confirm.
type Provider interface {
	SendOTP(ctx context.Context, mobile, code string) Result
	SetLogRepository(repo SMSLogRepo)
}

// Result is the outcome of one send attempt. Detail carries the gateway
// diagnostic for logs and debug responses.
type Result struct {
	Sent   bool
	Detail string
}

// SMSLogRepo persists delivery attempts.
type SMSLogRepo interface {
	Create(ctx context.Context, entry *models.SMSLog) error
}

// PRPService talks to the PRP bulk-SMS gateway using its template API.
type PRPService struct {
	APIKey       string
	BaseURL      string
	SenderID     string
	TemplateName string
	Client       *http.Client
	LogRepo      SMSLogRepo
}

func NewPRPService(apiKey, baseURL, senderID, templateName string, timeout time.Duration) *PRPService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PRPService{
		APIKey:       apiKey,
		BaseURL:      strings.TrimRight(baseURL, "/"),
		SenderID:     senderID,
		TemplateName: templateName,
		Client:       &http.Client{Timeout: timeout},
	}
}

func (s *PRPService) SetLogRepository(repo SMSLogRepo) {
	s.LogRepo = repo
}

// prpResponse covers the gateway's two observed success shapes.
type prpResponse struct {
	IsSuccess *bool  `json:"isSuccess"`
	Status    string `json:"status"`
}

// SendOTP posts a templated send request. The gateway expects the mobile
// number with a bare "91" prefix and the code as the single template
// parameter. "smsReciever" is the gateway's own field spelling.
func (s *PRPService) SendOTP(ctx context.Context, mobile, code string) Result {
	payload := map[string]interface{}{
		"sender":       s.SenderID,
		"templateName": s.TemplateName,
		"smsReciever": []map[string]string{
			{
				"mobileNo":       "91" + mobile,
				"templateParams": code,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return s.finish(mobile, Result{Sent: false, Detail: fmt.Sprintf("encode request: %v", err)})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/SendSmsTemplateName", bytes.NewReader(body))
	if err != nil {
		return s.finish(mobile, Result{Sent: false, Detail: fmt.Sprintf("build request: %v", err)})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		// A timed-out request may still have been accepted downstream.
		var urlErr interface{ Timeout() bool }
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return s.finish(mobile, Result{Sent: false, Detail: "SMS API timeout (may still be sent)"})
		}
		return s.finish(mobile, Result{Sent: false, Detail: fmt.Sprintf("SMS API error: %v", err)})
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return s.finish(mobile, Result{Sent: false, Detail: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(raw))})
	}

	var parsed prpResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// 2xx with an unparseable body still counts as sent.
		return s.finish(mobile, Result{Sent: true, Detail: fmt.Sprintf("HTTP %d (unparseable body)", resp.StatusCode)})
	}

	sent := (parsed.IsSuccess != nil && *parsed.IsSuccess) ||
		strings.EqualFold(parsed.Status, "success") ||
		strings.Contains(strings.ToLower(string(raw)), "success")
	if sent {
		return s.finish(mobile, Result{Sent: true, Detail: fmt.Sprintf("HTTP %d", resp.StatusCode)})
	}
	return s.finish(mobile, Result{Sent: false, Detail: fmt.Sprintf("gateway rejected: %s", string(raw))})
}

func (s *PRPService) finish(mobile string, res Result) Result {
	status := models.SMSStatusFailed
	if res.Sent {
		status = models.SMSStatusSent
	}
	logDelivery(s.LogRepo, mobile, status, res.Detail)
	return res
}

// MockService prints the code instead of calling a gateway. Used when no
// API key is configured and in tests.
type MockService struct {
	LogRepo SMSLogRepo
}

func NewMockService() *MockService {
	return &MockService{}
}

func (s *MockService) SetLogRepository(repo SMSLogRepo) {
	s.LogRepo = repo
}

func (s *MockService) SendOTP(_ context.Context, mobile, code string) Result {
	fmt.Fprintf(os.Stdout, "\n========== MOCK SMS ==========\n")
	fmt.Fprintf(os.Stdout, "To: +91%s\n", mobile)
	fmt.Fprintf(os.Stdout, "OTP: %s (valid %s)\n", code, timeutil.Now().Add(5*time.Minute).Format(timeutil.DateTimeLayout))
	fmt.Fprintf(os.Stdout, "==============================\n\n")

	logDelivery(s.LogRepo, mobile, models.SMSStatusSent, "mock")
	return Result{Sent: true, Detail: "mock"}
}

// logDelivery writes the attempt off the request path. Send latency already
// includes the gateway round trip; the audit row should not add to it.
func logDelivery(repo SMSLogRepo, mobile, status, detail string) {
	if repo == nil {
		return
	}

	entry := &models.SMSLog{
		Mobile:  mobile,
		Purpose: "otp",
		Status:  status,
		Detail:  detail,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.Create(ctx, entry); err != nil {
			log.Printf("[SMS] failed to log delivery for %s: %v", mobile, err)
		}
	}()
}

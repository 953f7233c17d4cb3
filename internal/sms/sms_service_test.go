package sms

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *PRPService) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewPRPService("test-key", server.URL, "OSGSMS", "OSG_SMS_OTP", 5*time.Second)
	return server, svc
}

func TestPRPSendsTemplatedRequest(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]interface{}

	_, svc := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"isSuccess": true}`))
	})

	res := svc.SendOTP(context.Background(), "9876543210", "123456")
	assert.True(t, res.Sent)

	assert.Equal(t, "/SendSmsTemplateName", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "OSGSMS", gotBody["sender"])
	assert.Equal(t, "OSG_SMS_OTP", gotBody["templateName"])

	receivers, ok := gotBody["smsReciever"].([]interface{})
	require.True(t, ok, "receiver list must use the gateway's field spelling")
	require.Len(t, receivers, 1)
	receiver := receivers[0].(map[string]interface{})
	assert.Equal(t, "919876543210", receiver["mobileNo"])
	assert.Equal(t, "123456", receiver["templateParams"])
}

func TestPRPSuccessShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		sent bool
	}{
		{"isSuccess flag", `{"isSuccess": true}`, true},
		{"status field", `{"status": "success"}`, true},
		{"success in body", `{"result": "Message Success"}`, true},
		{"unparseable 2xx", `OK - queued`, true},
		{"rejected json", `{"isSuccess": false, "error": "bad template"}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, svc := newGateway(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tc.body))
			})

			res := svc.SendOTP(context.Background(), "9876543210", "123456")
			assert.Equal(t, tc.sent, res.Sent)
		})
	}
}

func TestPRPNon2xxFails(t *testing.T) {
	_, svc := newGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "bad key"}`))
	})

	res := svc.SendOTP(context.Background(), "9876543210", "123456")
	assert.False(t, res.Sent)
	assert.Contains(t, res.Detail, "HTTP 401")
}

func TestPRPTimeoutMayStillBeSent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"isSuccess": true}`))
	}))
	t.Cleanup(server.Close)

	svc := NewPRPService("test-key", server.URL, "OSGSMS", "OSG_SMS_OTP", 50*time.Millisecond)
	res := svc.SendOTP(context.Background(), "9876543210", "123456")
	assert.False(t, res.Sent)
	assert.Equal(t, "SMS API timeout (may still be sent)", res.Detail)
}

func TestPRPConnectionRefusedFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	svc := NewPRPService("test-key", server.URL, "OSGSMS", "OSG_SMS_OTP", time.Second)
	res := svc.SendOTP(context.Background(), "9876543210", "123456")
	assert.False(t, res.Sent)
	assert.Contains(t, res.Detail, "SMS API error")
}

func TestMockAlwaysSends(t *testing.T) {
	svc := NewMockService()
	res := svc.SendOTP(context.Background(), "9876543210", "123456")
	assert.True(t, res.Sent)
	assert.Equal(t, "mock", res.Detail)
}

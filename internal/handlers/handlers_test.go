package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recycle-backend/internal/auth"
	"recycle-backend/internal/config"
	"recycle-backend/internal/handlers"
	apihttp "recycle-backend/internal/http"
	"recycle-backend/internal/models"
	"recycle-backend/internal/otp"
	"recycle-backend/internal/services"
	"recycle-backend/internal/sms"
)

// In-memory stores so the full handler → service → store path runs without
// postgres.

type fakeCustomerStore struct {
	byID map[string]*models.Customer
}

func (f *fakeCustomerStore) Create(_ context.Context, c *models.Customer) error {
	for _, existing := range f.byID {
		if existing.Email == c.Email || existing.ContactNo == c.ContactNo {
			return errDuplicate
		}
	}
	f.byID[c.ID] = c
	return nil
}

var errDuplicate = duplicateError{}

type duplicateError struct{}

func (duplicateError) Error() string { return "duplicate" }

func (f *fakeCustomerStore) GetByID(_ context.Context, id string) (*models.Customer, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeCustomerStore) FindByMobile(_ context.Context, mobile string) (*models.Customer, error) {
	for _, c := range f.byID {
		if strings.HasSuffix(c.ContactNo, mobile) {
			return c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCustomerStore) NextID(_ context.Context) (string, error) {
	max := int64(1000)
	for id := range f.byID {
		if n, err := strconv.ParseInt(id, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return strconv.FormatInt(max+1, 10), nil
}

func (f *fakeCustomerStore) Update(_ context.Context, id string, fields map[string]interface{}) error {
	c, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if v, ok := fields["city"]; ok {
		c.City = v.(string)
	}
	if v, ok := fields["address"]; ok {
		c.Address = v.(string)
	}
	if v, ok := fields["customer_name"]; ok {
		c.Name = v.(string)
	}
	return nil
}

type fakeNotificationStore struct {
	rows []*models.Notification
}

func (f *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	n.ID = int64(len(f.rows) + 1)
	n.CreatedAt = time.Now()
	f.rows = append(f.rows, n)
	return nil
}

func (f *fakeNotificationStore) ListRecent(_ context.Context, customerID string) ([]*models.Notification, error) {
	var out []*models.Notification
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].CustomerID == customerID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, customerID string, id int64) (int64, error) {
	for _, n := range f.rows {
		if n.ID == id && n.CustomerID == customerID {
			n.IsRead = true
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeNotificationStore) MarkAllRead(_ context.Context, customerID string) (int64, error) {
	var count int64
	for _, n := range f.rows {
		if n.CustomerID == customerID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

type fakeDeviceStore struct {
	tokens map[string]string
}

func (f *fakeDeviceStore) Upsert(_ context.Context, customerID, deviceToken, platform string) error {
	f.tokens[customerID+"|"+deviceToken] = platform
	return nil
}

type envelope struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

type fixture struct {
	router    *mux.Router
	customers *fakeCustomerStore
	notifs    *fakeNotificationStore
	devices   *fakeDeviceStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	customers := &fakeCustomerStore{byID: make(map[string]*models.Customer)}
	notifs := &fakeNotificationStore{}
	devices := &fakeDeviceStore{tokens: make(map[string]string)}

	memory := otp.NewMemoryStore()
	t.Cleanup(memory.Close)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.Issuer = "test"

	customerService := services.NewCustomerService(customers)
	otpService := services.NewOTPService(
		customerService,
		otp.NewSessions(memory),
		sms.NewMockService(),
		auth.NewJWTManager(cfg),
		true, // debug echoes the code so the flow is drivable over HTTP
	)
	notificationService := services.NewNotificationService(notifs, devices)

	router := apihttp.NewRouter(
		handlers.NewAuthHandler(otpService),
		handlers.NewCustomerHandler(customerService, notificationService),
		handlers.NewNotificationHandler(notificationService),
		handlers.NewHealthHandler(nil),
	)

	return &fixture{router: router, customers: customers, notifs: notifs, devices: devices}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env envelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func (f *fixture) seedApproved(mobile string) *models.Customer {
	qty := 5.0
	c := &models.Customer{
		ID:          "1001",
		Name:        "Asha Rao",
		ContactNo:   "+91" + mobile,
		Email:       "asha@example.com",
		Address:     "12, Green Street",
		City:        "Pune",
		State:       "Maharashtra",
		EstWasteQty: &qty,
		UserType:    models.UserTypeResidential,
		Status:      models.StatusApproved,
	}
	f.customers.byID[c.ID] = c
	return c
}

func signupBody() map[string]interface{} {
	return map[string]interface{}{
		"fullName":     "Asha Rao",
		"email":        "asha@example.com",
		"mobileNumber": "9876543210",
		"houseNumber":  "12",
		"address":      "Green Street",
		"city":         "Pune",
		"state":        "Maharashtra",
		"userType":     "Household Apartment",
		"knowAboutUs":  "Friend",
		"expectation":  "5 kg",
	}
}

func TestSignupEndpoint(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/api/signup", signupBody())
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "PENDING", env.Data["status"])
	assert.Equal(t, "9876543210", env.Data["mobileNumber"])

	// The welcome notification lands for the new customer.
	require.Len(t, f.notifs.rows, 1)
	assert.Equal(t, "1001", f.notifs.rows[0].CustomerID)
}

func TestSignupEndpointValidation(t *testing.T) {
	f := newFixture(t)

	body := signupBody()
	delete(body, "email")
	rec, env := f.do(t, http.MethodPost, "/api/signup", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", env.Status)
	assert.Contains(t, env.Message, "email")
}

func TestGenerateOTPInvalidMobile(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/api/login/generate-otp",
		map[string]string{"mobileNumber": "12345"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid mobile number. Must be 10 digits.", env.Message)
}

func TestLoginFlow(t *testing.T) {
	f := newFixture(t)
	f.seedApproved("9876543210")

	rec, env := f.do(t, http.MethodPost, "/api/login/generate-otp",
		map[string]string{"mobileNumber": "9876543210"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, env.Data["userExists"])

	code, _ := env.Data["otp"].(string)
	require.Len(t, code, 6, "debug mode echoes the code")

	rec, env = f.do(t, http.MethodPost, "/api/login/verify-otp",
		map[string]string{"mobileNumber": "9876543210", "otp": code})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, env.Data["userApproved"])
	assert.NotEmpty(t, env.Data["token"])

	profile, ok := env.Data["profile"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "9876543210", profile["mobileNumber"])

	// Replaying the consumed code reads as no outstanding request.
	rec, env = f.do(t, http.MethodPost, "/api/login/verify-otp",
		map[string]string{"mobileNumber": "9876543210", "otp": code})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No OTP request found for this number. Please generate OTP first.", env.Message)
}

func TestVerifyOTPFormatCheck(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/api/login/verify-otp",
		map[string]string{"mobileNumber": "9876543210", "otp": "12ab56"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid OTP format. Must be 6 digits.", env.Message)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	f := newFixture(t)
	f.seedApproved("9876543210")

	_, env := f.do(t, http.MethodPost, "/api/login/generate-otp",
		map[string]string{"mobileNumber": "9876543210"})
	code := env.Data["otp"].(string)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	rec, env := f.do(t, http.MethodPost, "/api/login/verify-otp",
		map[string]string{"mobileNumber": "9876543210", "otp": wrong})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid OTP. Please try again.", env.Message)
}

func TestResendGates(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/api/login/resend-otp",
		map[string]string{"mobileNumber": "9876543210"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Mobile number not registered. Please sign up first.", env.Message)

	c := f.seedApproved("9876543210")
	c.Status = models.StatusPending
	rec, env = f.do(t, http.MethodPost, "/api/login/resend-otp",
		map[string]string{"mobileNumber": "9876543210"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Your profile is under consideration. Please wait for approval.", env.Message)
}

func TestEditProfileEndpoint(t *testing.T) {
	f := newFixture(t)
	f.seedApproved("9876543210")

	rec, env := f.do(t, http.MethodPut, "/api/profile/edit",
		map[string]string{"customerId": "1001", "city": "Mumbai"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Profile updated successfully", env.Message)
	assert.Equal(t, "Mumbai", env.Data["city"])
	assert.Equal(t, "Mumbai", f.customers.byID["1001"].City)
}

func TestEditProfilePendingForbidden(t *testing.T) {
	f := newFixture(t)
	c := f.seedApproved("9876543210")
	c.Status = models.StatusPending

	rec, env := f.do(t, http.MethodPut, "/api/profile/edit",
		map[string]string{"customerId": "1001", "city": "Mumbai"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Your profile is under consideration. Cannot edit profile at this time.", env.Message)
}

func TestNotificationsEndpoints(t *testing.T) {
	f := newFixture(t)
	f.notifs.rows = []*models.Notification{
		{ID: 1, CustomerID: "1001", Title: "Pickup scheduled", Type: "pickup", CreatedAt: time.Now().Add(-2 * time.Minute)},
		{ID: 2, CustomerID: "1001", Title: "Points earned", Type: "reward", CreatedAt: time.Now().Add(-time.Hour)},
	}

	rec, env := f.do(t, http.MethodGet, "/api/notifications?customerId=1001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), env.Data["count"])
	assert.Equal(t, float64(2), env.Data["unreadCount"])

	rec, env = f.do(t, http.MethodGet, "/api/notifications", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Customer ID is required", env.Message)

	rec, env = f.do(t, http.MethodPost, "/api/notifications/mark-read",
		map[string]interface{}{"customerId": "1001", "notificationId": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Notification marked as read", env.Message)

	rec, env = f.do(t, http.MethodPost, "/api/notifications/mark-read",
		map[string]interface{}{"customerId": "1001"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "All notifications marked as read", env.Message)
	assert.Equal(t, float64(1), env.Data["updated"])
}

func TestRegisterDeviceEndpoint(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/api/notifications/register-device",
		map[string]string{"customerId": "1001", "deviceToken": "tok-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Device registered successfully", env.Message)
	assert.Equal(t, "android", f.devices.tokens["1001|tok-1"])

	rec, env = f.do(t, http.MethodPost, "/api/notifications/register-device",
		map[string]string{"customerId": "1001"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Device token is required", env.Message)
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/api/logout", map[string]string{"customerId": "1001"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully", env.Message)

	// Works without a body too.
	rec, env = f.do(t, http.MethodPost, "/api/logout", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully", env.Message)
}

func TestUnknownRouteEnvelope(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Endpoint not found", env.Message)
}

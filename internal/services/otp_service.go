package services

import (
	"context"
	"errors"
	"log"

	"recycle-backend/internal/apperr"
	"recycle-backend/internal/auth"
	"recycle-backend/internal/metrics"
	"recycle-backend/internal/models"
	"recycle-backend/internal/otp"
	"recycle-backend/internal/sms"
)

// OTPService orchestrates the login flow: resolving the customer, issuing a
// challenge, sending the SMS and verifying the code.
type OTPService struct {
	customers *CustomerService
	sessions  *otp.Sessions
	provider  sms.Provider
	jwt       *auth.JWTManager
	debug     bool
}

func NewOTPService(customers *CustomerService, sessions *otp.Sessions, provider sms.Provider, jwt *auth.JWTManager, debug bool) *OTPService {
	return &OTPService{
		customers: customers,
		sessions:  sessions,
		provider:  provider,
		jwt:       jwt,
		debug:     debug,
	}
}

// GenerateResult is returned by Generate and Resend. OTP is only populated
// when delivery did not confirm or debug mode is on, so clients can still
// complete the flow against a flaky gateway.
type GenerateResult struct {
	Message    string `json:"-"`
	UserExists bool   `json:"userExists"`
	SMSSent    bool   `json:"smsSent"`
	OTP        string `json:"otp,omitempty"`
}

// VerifyResult is the outcome of a successful verification.
type VerifyResult struct {
	UserExists   bool            `json:"userExists"`
	CustomerID   string          `json:"customerId,omitempty"`
	UserApproved bool            `json:"userApproved"`
	Token        string          `json:"token,omitempty"`
	Profile      *models.Profile `json:"profile,omitempty"`
}

// Generate issues a login code for any syntactically valid mobile number.
// Unregistered numbers get a code too; the not-registered decision is
// deferred to verification so the app can route them into signup.
func (s *OTPService) Generate(ctx context.Context, mobile string) (*GenerateResult, error) {
	customer, err := s.customers.ResolveByMobile(ctx, mobile)
	if err != nil {
		return nil, err
	}

	snap := otp.Snapshot{}
	if customer != nil {
		snap = otp.Snapshot{
			UserExists:     true,
			CustomerID:     customer.ID,
			CustomerStatus: customer.Status,
		}
	}

	res, err := s.issue(ctx, mobile, snap, "generate")
	if err != nil {
		return nil, err
	}
	res.UserExists = snap.UserExists
	return res, nil
}

// Resend issues a fresh code, but only for registered and approved
// customers. The stricter gate keeps resend from becoming an enumeration
// endpoint for the signup-pending queue.
func (s *OTPService) Resend(ctx context.Context, mobile string) (*GenerateResult, error) {
	customer, err := s.customers.ResolveByMobile(ctx, mobile)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperr.NotFound("Mobile number not registered. Please sign up first.")
	}
	if customer.Status != models.StatusApproved {
		return nil, apperr.Forbidden("Your profile is under consideration. Please wait for approval.")
	}

	snap := otp.Snapshot{
		UserExists:     true,
		CustomerID:     customer.ID,
		CustomerStatus: customer.Status,
	}
	res, err := s.issue(ctx, mobile, snap, "resend")
	if err != nil {
		return nil, err
	}
	res.UserExists = true
	return res, nil
}

func (s *OTPService) issue(ctx context.Context, mobile string, snap otp.Snapshot, trigger string) (*GenerateResult, error) {
	code, _, err := s.sessions.Issue(ctx, mobile, snap)
	if err != nil {
		return nil, apperr.Internal("Failed to generate OTP", err)
	}
	metrics.OTPIssuedTotal.WithLabelValues(trigger).Inc()

	sent := s.provider.SendOTP(ctx, mobile, code)
	if sent.Sent {
		metrics.SMSSendTotal.WithLabelValues("sent").Inc()
	} else {
		metrics.SMSSendTotal.WithLabelValues("failed").Inc()
		log.Printf("[OTP] SMS delivery unconfirmed for %s: %s", mobile, sent.Detail)
	}

	res := &GenerateResult{
		Message: "OTP sent successfully",
		SMSSent: sent.Sent,
	}
	if !sent.Sent {
		res.Message = "OTP generated (SMS delivery unconfirmed)"
	}
	// The code is echoed when delivery did not confirm, and always in
	// debug mode.
	if !sent.Sent || s.debug {
		res.OTP = code
	}
	return res, nil
}

// Verify checks the submitted code and, for approved customers, mints a
// session token and returns the profile.
func (s *OTPService) Verify(ctx context.Context, mobile, code string) (*VerifyResult, error) {
	snap, err := s.sessions.Verify(ctx, mobile, code)
	if err != nil {
		switch {
		case errors.Is(err, otp.ErrNotFound):
			metrics.OTPVerifyTotal.WithLabelValues("not_found").Inc()
			return nil, apperr.NotFound("No OTP request found for this number. Please generate OTP first.")
		case errors.Is(err, otp.ErrExpired):
			metrics.OTPVerifyTotal.WithLabelValues("expired").Inc()
			return nil, apperr.Validation("OTP has expired. Please request a new one.")
		case errors.Is(err, otp.ErrConsumed):
			metrics.OTPVerifyTotal.WithLabelValues("consumed").Inc()
			return nil, apperr.Validation("OTP already used")
		case errors.Is(err, otp.ErrMismatch):
			metrics.OTPVerifyTotal.WithLabelValues("mismatch").Inc()
			return nil, apperr.Validation("Invalid OTP. Please try again.")
		default:
			return nil, apperr.Internal("Verification failed", err)
		}
	}
	metrics.OTPVerifyTotal.WithLabelValues("ok").Inc()

	result := &VerifyResult{
		UserExists: snap.UserExists,
		CustomerID: snap.CustomerID,
	}
	if !snap.UserExists {
		return result, nil
	}

	// Approval may have changed since the code was issued; prefer the
	// current row over the snapshot.
	status := snap.CustomerStatus
	customer, err := s.customers.customers.GetByID(ctx, snap.CustomerID)
	if err == nil {
		status = customer.Status
		result.Profile = ProfileFromCustomer(customer)
	} else {
		log.Printf("[OTP] could not refresh customer %s at verify: %v", snap.CustomerID, err)
	}

	result.UserApproved = status == models.StatusApproved
	if result.UserApproved && s.jwt != nil {
		token, err := s.jwt.GenerateCustomerToken(snap.CustomerID, mobile)
		if err != nil {
			log.Printf("[OTP] token mint failed for %s: %v", snap.CustomerID, err)
		} else {
			result.Token = token
		}
	}
	return result, nil
}

package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"regexp"

	"recycle-backend/internal/apperr"
	"recycle-backend/internal/services"
	"recycle-backend/pkg/utils"
)

var (
	mobileRe = regexp.MustCompile(`^[0-9]{10}$`)
	otpRe    = regexp.MustCompile(`^[0-9]{6}$`)
)

// AuthHandler serves the OTP login endpoints and logout.
type AuthHandler struct {
	otp *services.OTPService
}

func NewAuthHandler(otp *services.OTPService) *AuthHandler {
	return &AuthHandler{otp: otp}
}

type otpRequest struct {
	MobileNumber string `json:"mobileNumber"`
	OTP          string `json:"otp"`
}

// GenerateOTP handles POST /api/login/generate-otp.
func (h *AuthHandler) GenerateOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !mobileRe.MatchString(req.MobileNumber) {
		utils.Error(w, http.StatusBadRequest, "Invalid mobile number. Must be 10 digits.")
		return
	}

	res, err := h.otp.Generate(r.Context(), req.MobileNumber)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.Success(w, http.StatusOK, res.Message, res)
}

// ResendOTP handles POST /api/login/resend-otp.
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !mobileRe.MatchString(req.MobileNumber) {
		utils.Error(w, http.StatusBadRequest, "Invalid mobile number. Must be 10 digits.")
		return
	}

	res, err := h.otp.Resend(r.Context(), req.MobileNumber)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.Success(w, http.StatusOK, res.Message, res)
}

// VerifyOTP handles POST /api/login/verify-otp.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !mobileRe.MatchString(req.MobileNumber) {
		utils.Error(w, http.StatusBadRequest, "Invalid mobile number. Must be 10 digits.")
		return
	}
	if !otpRe.MatchString(req.OTP) {
		utils.Error(w, http.StatusBadRequest, "Invalid OTP format. Must be 6 digits.")
		return
	}

	res, err := h.otp.Verify(r.Context(), req.MobileNumber, req.OTP)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "OTP verified successfully", res)
}

// Logout handles POST /api/logout. Sessions live client-side, so this only
// acknowledges and logs the event.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string `json:"customerId"`
	}
	// Body is optional.
	json.NewDecoder(r.Body).Decode(&req)
	if req.CustomerID != "" {
		log.Printf("[Auth] customer %s logged out", req.CustomerID)
	}
	utils.Success(w, http.StatusOK, "Logged out successfully", nil)
}

// writeServiceError maps a service error onto the envelope. Internal causes
// are logged server-side and never leak into the response.
func writeServiceError(w http.ResponseWriter, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		log.Printf("[HTTP] internal error: %v", err)
	}
	utils.Error(w, apperr.HTTPStatus(err), apperr.MessageOf(err))
}

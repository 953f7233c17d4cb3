package handlers

import (
	"encoding/json"
	"net/http"

	"recycle-backend/internal/models"
	"recycle-backend/internal/services"
	"recycle-backend/pkg/utils"
)

// CustomerHandler serves signup and profile editing.
type CustomerHandler struct {
	customers     *services.CustomerService
	notifications *services.NotificationService
}

func NewCustomerHandler(customers *services.CustomerService, notifications *services.NotificationService) *CustomerHandler {
	return &CustomerHandler{customers: customers, notifications: notifications}
}

// Signup handles POST /api/signup.
func (h *CustomerHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.customers.Signup(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Welcome note is best effort; signup already succeeded.
	if h.notifications != nil {
		customer, lookupErr := h.customers.ResolveByMobile(r.Context(), res.MobileNumber)
		if lookupErr == nil && customer != nil {
			h.notifications.Notify(r.Context(), customer.ID,
				"Welcome to EcoSort!",
				"Your registration is under review. We will notify you once your profile is approved.",
				"system")
		}
	}

	utils.Success(w, http.StatusCreated, "Signup successful. Your profile is under review.", res)
}

// EditProfile handles PUT /api/profile/edit.
func (h *CustomerHandler) EditProfile(w http.ResponseWriter, r *http.Request) {
	var req models.EditProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.customers.EditProfile(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Profile updated successfully", profile)
}

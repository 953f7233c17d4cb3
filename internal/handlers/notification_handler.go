package handlers

import (
	"encoding/json"
	"net/http"

	"recycle-backend/internal/models"
	"recycle-backend/internal/services"
	"recycle-backend/pkg/utils"
)

// NotificationHandler serves the notification list, read flags and device
// token registration.
type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/notifications?customerId=...
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customerId")

	list, err := h.notifications.List(r.Context(), customerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "", list)
}

// MarkRead handles POST /api/notifications/mark-read. Without a
// notificationId the whole unread set is flagged.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID     string `json:"customerId"`
		NotificationID *int64 `json:"notificationId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.notifications.MarkRead(r.Context(), req.CustomerID, req.NotificationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	message := "Notification marked as read"
	if req.NotificationID == nil {
		message = "All notifications marked as read"
	}
	utils.Success(w, http.StatusOK, message, map[string]int64{"updated": updated})
}

// RegisterDevice handles POST /api/notifications/register-device.
func (h *NotificationHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.notifications.RegisterDevice(r.Context(), &req); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.Success(w, http.StatusOK, "Device registered successfully", nil)
}

package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recycle-backend/internal/handlers"
	"recycle-backend/internal/middleware"
	"recycle-backend/pkg/utils"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	customerHandler *handlers.CustomerHandler,
	notificationHandler *handlers.NotificationHandler,
	healthHandler *handlers.HealthHandler,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Registration and login
	r.HandleFunc("/api/signup", customerHandler.Signup).Methods("POST")
	r.HandleFunc("/api/login/generate-otp", authHandler.GenerateOTP).Methods("POST")
	r.HandleFunc("/api/login/verify-otp", authHandler.VerifyOTP).Methods("POST")
	r.HandleFunc("/api/login/resend-otp", authHandler.ResendOTP).Methods("POST")
	r.HandleFunc("/api/logout", authHandler.Logout).Methods("POST")

	// Profile
	r.HandleFunc("/api/profile/edit", customerHandler.EditProfile).Methods("PUT")

	// Notifications
	r.HandleFunc("/api/notifications", notificationHandler.List).Methods("GET")
	r.HandleFunc("/api/notifications/mark-read", notificationHandler.MarkRead).Methods("POST")
	r.HandleFunc("/api/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.Error(w, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

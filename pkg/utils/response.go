package utils

import (
	"encoding/json"
	"net/http"
)

// Envelope is the JSON shape every API response uses.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func JSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Success writes a {"status":"success"} envelope.
func Success(w http.ResponseWriter, status int, message string, data interface{}) {
	JSON(w, status, Envelope{Status: "success", Message: message, Data: data})
}

// Error writes a {"status":"error"} envelope.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Status: "error", Message: message})
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/wonny/bluemf/backend/internal/contracts"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes a {"status":"error","message":...} envelope
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, contracts.StageResult{
		Status:  contracts.EnvelopeError,
		Message: message,
	})
}

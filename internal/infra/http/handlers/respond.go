package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/drtrafego/mvp-dashboard-sub000/internal/usecase"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError traduz a taxonomia do usecase para HTTP: DomainError com
// código *_NOT_FOUND vira 404, DomainError genérico 400, resto 500.
func respondError(w http.ResponseWriter, err error) {
	if de, ok := err.(*usecase.DomainError); ok {
		status := http.StatusBadRequest
		if strings.HasSuffix(de.Code, "_NOT_FOUND") {
			status = http.StatusNotFound
		}
		respondJSON(w, status, ErrorResponse{Error: de.Message, Code: de.Code})
		return
	}

	respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

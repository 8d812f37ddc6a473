package handlers

import (
	"encoding/json"
	"net/http"

	middleware "github.com/folioforge/folioforge/internal/api/middlewares"
	"github.com/folioforge/folioforge/internal/core/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps the error taxonomy onto HTTP statuses. Internal detail stays
// out of 5xx bodies.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case apperr.IsNotFound(err), apperr.IsTemplateNotFound(err):
		http.Error(w, err.Error(), http.StatusNotFound)
	case apperr.KindOf(err) == apperr.KindExternalService:
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func requestUserID(r *http.Request) (string, bool) {
	return middleware.UserID(r.Context())
}

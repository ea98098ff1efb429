package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/model"
)

// WriteError writes body as JSON, filling in the request's correlation id.
func WriteError(w http.ResponseWriter, r *http.Request, status int, body model.ErrorResponse) {
	if body.CorrelationID == "" {
		body.CorrelationID = GetCorrelationID(r.Context())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

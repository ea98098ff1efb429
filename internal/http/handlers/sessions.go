package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/http/dto"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/session"
)

type SessionHandler struct {
	store  *session.Store
	logger *slog.Logger
}

func NewSessionHandler(store *session.Store, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{store: store, logger: logger}
}

func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveSessionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		badRequest(w, r, "invalid JSON body")
		return
	}
	if len(req.Data) == 0 || string(req.Data) == "null" {
		badRequest(w, r, "data is required")
		return
	}

	sess, err := h.store.Save(r.Context(), session.Session{ID: req.ID, Name: req.Name, Data: req.Data})
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.List(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *SessionHandler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		middleware.WriteError(w, r, http.StatusNotFound, model.ErrorResponse{Error: "session not found"})
	case errors.Is(err, session.ErrInvalid):
		badRequest(w, r, err.Error())
	default:
		h.logger.Error("session store failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		middleware.WriteError(w, r, http.StatusInternalServerError, model.ErrorResponse{Error: "session store unavailable"})
	}
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/http/dto"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/offer"
)

type OfferCacheHandler struct {
	cache *offer.Cache
}

func NewOfferCacheHandler(cache *offer.Cache) *OfferCacheHandler {
	return &OfferCacheHandler{cache: cache}
}

func (h *OfferCacheHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.OfferCacheList{
		Backend: h.cache.Backend(),
		IDs:     h.cache.List(r.Context()),
	})
}

func (h *OfferCacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.OfferCacheCleared{Cleared: h.cache.Clear(r.Context())})
}

func (h *OfferCacheHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.cache.Remove(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

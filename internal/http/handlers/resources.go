package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/fixtures"
)

// Resource describes one catalog collection relayed under /api/{Name}.
type Resource struct {
	Name     string
	Path     string   // upstream path, e.g. "/products"
	Required []string // fields a create must carry

	// UpdateTimeout overrides the relay timeout for PUT/PATCH.
	UpdateTimeout time.Duration
}

func DefaultResources(productUpdateTimeout time.Duration) []Resource {
	return []Resource{
		{Name: "products", Path: "/products", Required: []string{"name"}, UpdateTimeout: productUpdateTimeout},
		{Name: "prices", Path: "/prices", Required: []string{"productId", "amount", "currencyId"}},
		{Name: "currencies", Path: "/currencies", Required: []string{"code", "name"}},
		{Name: "categories", Path: "/categories", Required: []string{"name"}},
		{Name: "coupons", Path: "/coupons", Required: []string{"code"}},
		{Name: "installments", Path: "/installments", Required: []string{"name", "count"}},
		{Name: "payment-methods", Path: "/payment-methods", Required: []string{"name"}},
		{Name: "deliverables", Path: "/deliverables", Required: []string{"name"}},
		{Name: "guidelines", Path: "/guidelines", Required: []string{"name"}},
		{Name: "modifier-types", Path: "/modifier-types", Required: []string{"name"}},
		{Name: "offer-durations", Path: "/offer-durations", Required: []string{"name"}},
	}
}

type ResourceHandler struct {
	res Resource
	rl  *Relay
}

func NewResourceHandler(res Resource, rl *Relay) *ResourceHandler {
	return &ResourceHandler{res: res, rl: rl}
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.rl.withTimeout(r.Context(), 0)
	defer cancel()

	resp, err := h.rl.Catalog.List(ctx, h.res.Path, r.URL.RawQuery, r.Header)
	h.rl.respond(w, r, resp, err, func() (int, any) {
		return http.StatusOK, fixtures.List(h.res.Name)
	})
}

func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := h.rl.withTimeout(r.Context(), 0)
	defer cancel()

	resp, err := h.rl.Catalog.Get(ctx, h.res.Path, id, r.URL.RawQuery, r.Header)
	h.rl.respond(w, r, resp, err, func() (int, any) {
		return http.StatusOK, fixtures.Get(h.res.Name, id)
	})
}

func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, raw, ok := readObject(w, r)
	if !ok {
		return
	}
	if f := missingField(payload, h.res.Required); f != "" {
		badRequest(w, r, fmt.Sprintf("%s is required", f))
		return
	}

	ctx, cancel := h.rl.withTimeout(r.Context(), 0)
	defer cancel()

	resp, err := h.rl.Catalog.Create(ctx, h.res.Path, r.URL.RawQuery, bytes.NewReader(raw), r.Header)
	h.rl.respond(w, r, resp, err, func() (int, any) {
		return http.StatusCreated, fixtures.Echo("", payload)
	})
}

// Update serves both PUT and PATCH; the method is forwarded unchanged.
func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	payload, raw, ok := readObject(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.rl.withTimeout(r.Context(), h.res.UpdateTimeout)
	defer cancel()

	resp, err := h.rl.Catalog.Update(ctx, r.Method, h.res.Path, id, r.URL.RawQuery, bytes.NewReader(raw), r.Header)
	h.rl.respond(w, r, resp, err, func() (int, any) {
		return http.StatusOK, fixtures.Echo(id, payload)
	})
}

func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := h.rl.withTimeout(r.Context(), 0)
	defer cancel()

	resp, err := h.rl.Catalog.Delete(ctx, h.res.Path, id, r.URL.RawQuery, r.Header)
	h.rl.respond(w, r, resp, err, func() (int, any) {
		return http.StatusOK, map[string]any{"id": id, "deleted": true}
	})
}

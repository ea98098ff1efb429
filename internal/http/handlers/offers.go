package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/fixtures"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/http/dto"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/offer"
)

const (
	offersPath = "/offers"

	// HeaderOfferCache reports whether GET /api/offers/{id} was a cache hit.
	HeaderOfferCache = "X-Offer-Cache"
)

type OfferHandler struct {
	rl  *Relay
	svc *offer.Service
}

func NewOfferHandler(rl *Relay, svc *offer.Service) *OfferHandler {
	return &OfferHandler{rl: rl, svc: svc}
}

func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.rl.withTimeout(r.Context(), 0)
	defer cancel()

	resp, err := h.rl.Catalog.List(ctx, offersPath, r.URL.RawQuery, r.Header)
	h.rl.respond(w, r, resp, err, func() (int, any) {
		return http.StatusOK, []offer.Offer{fixtures.Offer("offer-1")}
	})
}

func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, raw, ok := readObject(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.rl.withTimeout(r.Context(), 0)
	defer cancel()

	resp, err := h.rl.Catalog.Create(ctx, offersPath, r.URL.RawQuery, bytes.NewReader(raw), r.Header)
	if uerr := checkUpstream(resp, err); uerr != nil {
		h.rl.fail(w, r, uerr, func() (int, any) {
			o := fixtures.EmptyOffer("mock-" + uuid.NewString())
			if cur, ok := payload["currency"].(string); ok && cur != "" {
				o.Currency = cur
			}
			return http.StatusCreated, h.svc.Store(r.Context(), o)
		})
		return
	}

	h.cacheResponse(r.Context(), "", resp.Body, false)
	CopyUpstreamResponse(w, resp)
}

// Get serves the cached offer, loading it from upstream on a miss.
func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, cached, err := h.svc.Get(r.Context(), id, func(ctx context.Context) (json.RawMessage, error) {
		ctx, cancel := h.rl.withTimeout(ctx, 0)
		defer cancel()

		resp, err := h.rl.Catalog.Get(ctx, offersPath, id, r.URL.RawQuery, r.Header)
		if uerr := checkUpstream(resp, err); uerr != nil {
			return nil, uerr
		}
		if len(bytes.TrimSpace(resp.Body)) == 0 {
			return nil, &UpstreamError{Kind: failDecode, Resp: resp, Err: errInvalidJSON}
		}
		return json.RawMessage(resp.Body), nil
	})
	if err != nil {
		h.rl.fail(w, r, err, func() (int, any) {
			return http.StatusOK, fixtures.Offer(id)
		})
		return
	}

	if cached {
		w.Header().Set(HeaderOfferCache, "hit")
	} else {
		w.Header().Set(HeaderOfferCache, "miss")
	}
	writeRawJSON(w, http.StatusOK, body)
}

func (h *OfferHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_, raw, ok := readObject(w, r)
	if !ok {
		return
	}
	var req dto.AddOfferItemRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		badRequest(w, r, "invalid JSON body")
		return
	}
	item := offer.LineItem{
		ProductID:  req.ProductID,
		PriceID:    req.PriceID,
		Quantity:   req.Quantity,
		UnitAmount: req.UnitAmount,
	}
	if _, err := offer.AddItem(offer.Offer{}, item); err != nil {
		badRequest(w, r, err.Error())
		return
	}

	h.mutate(w, r, id, "items", raw, func(o offer.Offer) (offer.Offer, error) {
		return offer.AddItem(o, item)
	})
}

func (h *OfferHandler) ApplyModifier(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_, raw, ok := readObject(w, r)
	if !ok {
		return
	}
	var req dto.ApplyModifierRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		badRequest(w, r, "invalid JSON body")
		return
	}
	mod := offer.Modifier{
		TypeID: req.ModifierTypeID,
		Code:   req.Code,
		Kind:   req.Kind,
		Value:  req.Value,
	}
	if _, err := offer.ApplyModifier(offer.Offer{}, mod); err != nil {
		badRequest(w, r, err.Error())
		return
	}

	h.mutate(w, r, id, "modifiers", raw, func(o offer.Offer) (offer.Offer, error) {
		return offer.ApplyModifier(o, mod)
	})
}

// mutate forwards an offer sub-resource call. A successful response refreshes
// or evicts the cached offer; in fixture mode a failed call applies fn locally
// instead.
func (h *OfferHandler) mutate(w http.ResponseWriter, r *http.Request, id, sub string, raw []byte, fn func(offer.Offer) (offer.Offer, error)) {
	ctx, cancel := h.rl.withTimeout(r.Context(), 0)
	defer cancel()

	resp, err := h.rl.Catalog.Sub(ctx, offersPath, id, sub, r.URL.RawQuery, bytes.NewReader(raw), r.Header)
	if uerr := checkUpstream(resp, err); uerr != nil {
		h.rl.fail(w, r, uerr, func() (int, any) {
			o, err := h.svc.Mutate(r.Context(), id, func() offer.Offer { return fixtures.EmptyOffer(id) }, fn)
			if err != nil {
				return http.StatusBadRequest, model.ErrorResponse{Error: err.Error()}
			}
			return http.StatusOK, o
		})
		return
	}

	h.cacheResponse(r.Context(), id, resp.Body, true)
	CopyUpstreamResponse(w, resp)
}

func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	payload, raw, ok := readObject(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.rl.withTimeout(r.Context(), 0)
	defer cancel()

	resp, err := h.rl.Catalog.Update(ctx, r.Method, offersPath, id, r.URL.RawQuery, bytes.NewReader(raw), r.Header)
	if uerr := checkUpstream(resp, err); uerr != nil {
		h.rl.fail(w, r, uerr, func() (int, any) {
			return http.StatusOK, fixtures.Echo(id, payload)
		})
		return
	}

	h.cacheResponse(r.Context(), id, resp.Body, false)
	CopyUpstreamResponse(w, resp)
}

func (h *OfferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := h.rl.withTimeout(r.Context(), 0)
	defer cancel()

	resp, err := h.rl.Catalog.Delete(ctx, offersPath, id, r.URL.RawQuery, r.Header)
	if uerr := checkUpstream(resp, err); uerr != nil {
		h.rl.fail(w, r, uerr, func() (int, any) {
			h.svc.Cache().Remove(r.Context(), id)
			return http.StatusOK, map[string]any{"id": id, "deleted": true}
		})
		return
	}

	h.svc.Cache().Remove(r.Context(), id)
	CopyUpstreamResponse(w, resp)
}

// cacheResponse refreshes the cached offer from an upstream body. The body
// replaces the entry only when it is the offer itself: a JSON object whose id
// matches (and, for sub-resource calls, that carries items). Anything else
// evicts the entry so the next read goes to the upstream. An empty id takes
// the id from the body, as for creates.
func (h *OfferHandler) cacheResponse(ctx context.Context, id string, body []byte, needItems bool) {
	var head struct {
		ID    string          `json:"id"`
		Items json.RawMessage `json:"items"`
	}
	isObject := json.Unmarshal(body, &head) == nil && bytes.HasPrefix(bytes.TrimSpace(body), []byte("{"))

	if id == "" {
		if isObject && head.ID != "" {
			h.svc.Cache().Save(ctx, head.ID, json.RawMessage(body))
		}
		return
	}

	if !isObject || head.ID != id || (needItems && (len(head.Items) == 0 || string(head.Items) == "null")) {
		h.svc.Cache().Remove(ctx, id)
		return
	}
	h.svc.Cache().Save(ctx, id, json.RawMessage(body))
}

// Package fixtures holds canned upstream responses served in fixture mode
// when the catalog/sales API cannot be reached.
package fixtures

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/offer"
)

// Header marks every response built from fixtures.
const Header = "X-Fixture-Data"

var canned = map[string]string{
	"products": `[
		{"id":"prod-1","name":"Starter Plan","description":"Entry level subscription","categoryId":"cat-1","active":true},
		{"id":"prod-2","name":"Pro Plan","description":"Full feature subscription","categoryId":"cat-1","active":true},
		{"id":"prod-3","name":"Onboarding Workshop","description":"Two day onsite workshop","categoryId":"cat-2","active":false}
	]`,
	"prices": `[
		{"id":"price-1","productId":"prod-1","amount":49.9,"currencyId":"cur-usd","interval":"month"},
		{"id":"price-2","productId":"prod-2","amount":149,"currencyId":"cur-usd","interval":"month"},
		{"id":"price-3","productId":"prod-3","amount":1200,"currencyId":"cur-eur","interval":"once"}
	]`,
	"currencies": `[
		{"id":"cur-usd","code":"USD","name":"US Dollar","symbol":"$"},
		{"id":"cur-eur","code":"EUR","name":"Euro","symbol":"€"},
		{"id":"cur-brl","code":"BRL","name":"Brazilian Real","symbol":"R$"}
	]`,
	"categories": `[
		{"id":"cat-1","name":"Subscriptions","description":"Recurring plans"},
		{"id":"cat-2","name":"Services","description":"One-off professional services"}
	]`,
	"coupons": `[
		{"id":"coupon-1","code":"WELCOME10","kind":"percentage","value":10,"active":true},
		{"id":"coupon-2","code":"FLAT50","kind":"fixed","value":50,"active":true}
	]`,
	"installments": `[
		{"id":"inst-1","name":"Single payment","count":1,"interestRate":0},
		{"id":"inst-2","name":"3x no interest","count":3,"interestRate":0},
		{"id":"inst-3","name":"12x","count":12,"interestRate":1.99}
	]`,
	"payment-methods": `[
		{"id":"pm-1","name":"Credit card","type":"card","active":true},
		{"id":"pm-2","name":"Bank transfer","type":"transfer","active":true},
		{"id":"pm-3","name":"Invoice","type":"invoice","active":false}
	]`,
	"deliverables": `[
		{"id":"deliv-1","name":"Kickoff meeting","productId":"prod-3"},
		{"id":"deliv-2","name":"Training material","productId":"prod-3"}
	]`,
	"guidelines": `[
		{"id":"guide-1","name":"Discount policy","content":"Discounts above 20% need approval"},
		{"id":"guide-2","name":"Renewal policy","content":"Offers expire after their duration"}
	]`,
	"modifier-types": `[
		{"id":"mod-1","name":"Percentage discount","kind":"percentage"},
		{"id":"mod-2","name":"Fixed discount","kind":"fixed"}
	]`,
	"offer-durations": `[
		{"id":"dur-1","name":"7 days","days":7},
		{"id":"dur-2","name":"30 days","days":30}
	]`,
}

// Has reports whether resource has canned data.
func Has(resource string) bool {
	_, ok := canned[resource]
	return ok
}

// List returns a fresh copy of the canned collection, or an empty slice.
func List(resource string) []map[string]any {
	raw, ok := canned[resource]
	if !ok {
		return []map[string]any{}
	}
	var out []map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		panic(fmt.Sprintf("fixtures: %s: %v", resource, err))
	}
	return out
}

// Get returns the canned entity with id. Unknown ids get the first entity of
// the collection relabelled with id, so detail pages still render.
func Get(resource, id string) map[string]any {
	items := List(resource)
	for _, it := range items {
		if it["id"] == id {
			return it
		}
	}
	if len(items) == 0 {
		return map[string]any{"id": id}
	}
	it := items[0]
	it["id"] = id
	return it
}

// Echo returns payload as if the upstream had stored it. An empty id means a
// create and gets a generated "mock-" id.
func Echo(id string, payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload)+3)
	maps.Copy(out, payload)
	now := time.Now().UTC().Format(time.RFC3339)
	if id == "" {
		id = "mock-" + uuid.NewString()
		out["createdAt"] = now
	}
	out["id"] = id
	out["updatedAt"] = now
	return out
}

// Offer builds the canned offer used when an offer cannot be loaded.
func Offer(id string) offer.Offer {
	o := offer.Offer{
		ID:       id,
		Currency: "USD",
		Items: []offer.LineItem{
			{ProductID: "prod-1", PriceID: "price-1", Quantity: 1, UnitAmount: 49.9},
		},
	}
	offer.Recalculate(&o)
	return o
}

// EmptyOffer is the seed for offers created while the upstream is down.
func EmptyOffer(id string) offer.Offer {
	return offer.Offer{ID: id, Currency: "USD", Items: []offer.LineItem{}}
}

package dto

type AddOfferItemRequest struct {
	ProductID  string  `json:"productId"`
	PriceID    string  `json:"priceId"`
	Quantity   int     `json:"quantity"`
	UnitAmount float64 `json:"unitAmount"`
}

type ApplyModifierRequest struct {
	ModifierTypeID string  `json:"modifierTypeId"`
	Code           string  `json:"code"`
	Kind           string  `json:"kind"`
	Value          float64 `json:"value"`
}

type OfferCacheList struct {
	Backend string   `json:"backend"`
	IDs     []string `json:"ids"`
}

type OfferCacheCleared struct {
	Cleared int `json:"cleared"`
}

package domain

import "nickel-advisor/rounding"

type QuoteInput struct {
	Price   Amount `json:"price"`
	TaxRate Amount `json:"tax_rate"`
}

// Quote is the full cash breakdown for one price: the raw after-tax total,
// its nickel rounding and the alternative prices for each side.
type Quote struct {
	Subtotal   string             `json:"subtotal"`
	TaxRate    string             `json:"tax_rate"`
	TaxAmount  string             `json:"tax_amount"`
	Total      string             `json:"total"`
	Rounded    string             `json:"rounded"`
	Direction  rounding.Direction `json:"direction"`
	Difference string             `json:"difference"`
	Seller     *SuggestionView    `json:"seller"`
	Customer   *SuggestionView    `json:"customer"`
}

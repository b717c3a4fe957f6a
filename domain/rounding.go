package domain

import "nickel-advisor/rounding"

type RoundInput struct {
	Amount Amount `json:"amount"`
}

type RoundResult struct {
	Rounded   string             `json:"rounded"`
	Direction rounding.Direction `json:"direction"`
}

type ReachableInput struct {
	StartNickel Amount `json:"start_nickel"`
	TaxRate     Amount `json:"tax_rate"`
	Direction   string `json:"direction"` // "up", "down"
}

type SuggestionView struct {
	PreTax  string `json:"pre_tax"`
	Total   string `json:"total"`
	Skipped bool   `json:"skipped"`
}

type ReachableResult struct {
	Found      bool            `json:"found"`
	Suggestion *SuggestionView `json:"suggestion"`
}

type SuggestionsResult struct {
	Seller   *SuggestionView `json:"seller"`
	Customer *SuggestionView `json:"customer"`
}

// NewSuggestionView renders a core suggestion; nil stays nil.
func NewSuggestionView(s *rounding.Suggestion) *SuggestionView {
	if s == nil {
		return nil
	}
	return &SuggestionView{
		PreTax:  FormatMoney(s.PreTax),
		Total:   FormatMoney(s.Total),
		Skipped: s.Skipped,
	}
}

type RoundingRule struct {
	Digits      []int              `json:"digits"`
	Direction   rounding.Direction `json:"direction"`
	Description string             `json:"description"`
}

package rounding

const (
	// MaxNickelSteps bounds how many nickels the search walks away from the start.
	MaxNickelSteps = 20
	// PriceWindowCents is the half-width of the pre-tax price scan around the estimate.
	PriceWindowCents = 100
)

// Suggestion is a pre-tax price whose after-tax total is an exact nickel.
// Skipped is set when the nickel next to the start was unreachable and a
// farther one was used.
type Suggestion struct {
	PreTax  float64 `json:"pre_tax"`
	Total   float64 `json:"total"`
	Skipped bool    `json:"skipped"`
}

// Suggestions holds the seller-favorable and customer-favorable prices.
// A nil entry means no reachable nickel was found.
type Suggestions struct {
	Seller   *Suggestion `json:"seller"`
	Customer *Suggestion `json:"customer"`
}

// TaxMultiplier converts a percentage rate into the after-tax factor.
func TaxMultiplier(taxRate float64) float64 {
	return 1 + taxRate/100
}

// FindReachableNickel walks from startNickel in five-cent steps towards
// direction and returns the first target total that some cent-precision
// pre-tax price hits exactly. It returns nil when a target drops to zero,
// when every step is exhausted, or when direction is None.
func FindReachableNickel(startNickel, taxRate float64, direction Direction) *Suggestion {
	return findReachableCents(ToCents(startNickel), taxRate, direction)
}

func findReachableCents(start Cents, taxRate float64, direction Direction) *Suggestion {
	var step Cents
	switch direction {
	case Up:
		step = NickelCents
	case Down:
		step = -NickelCents
	default:
		return nil
	}

	multiplier := TaxMultiplier(taxRate)

	for i := 0; i < MaxNickelSteps; i++ {
		target := start + step*Cents(i)
		if target <= 0 {
			return nil
		}

		if preTax, ok := priceForTotal(target, multiplier); ok {
			return &Suggestion{
				PreTax:  preTax.Float(),
				Total:   target.Float(),
				Skipped: i > 0,
			}
		}
	}

	return nil
}

// priceForTotal scans cent prices around target/multiplier in ascending
// order and returns the first one whose after-tax total rounds to target
// with no adjustment.
func priceForTotal(target Cents, multiplier float64) (Cents, bool) {
	estimate := ToCents(target.Float() / multiplier)

	for offset := Cents(-PriceWindowCents); offset <= PriceWindowCents; offset++ {
		candidate := estimate + offset
		if candidate <= 0 {
			continue
		}

		total := ToCents(candidate.Float() * multiplier)
		rounded, direction := RoundCents(total)
		if direction == None && rounded == target {
			return candidate, true
		}
	}

	return 0, false
}

// CalculateSuggestions rounds the after-tax total of preTax and, when the
// total is not already a nickel, searches upward for the seller and
// downward for the customer.
func CalculateSuggestions(preTax, taxRate float64) Suggestions {
	total := preTax * TaxMultiplier(taxRate)
	rounded, direction := RoundCents(ToCents(total))

	var sellerStart, customerStart Cents
	switch direction {
	case None:
		return Suggestions{}
	case Down:
		customerStart = rounded
		sellerStart = rounded + NickelCents
	case Up:
		sellerStart = rounded
		customerStart = rounded - NickelCents
	}

	return Suggestions{
		Seller:   findReachableCents(sellerStart, taxRate, Up),
		Customer: findReachableCents(customerStart, taxRate, Down),
	}
}

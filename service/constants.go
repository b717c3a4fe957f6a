package service

import "github.com/shopspring/decimal"

const (
	MaxPrice          = 1_000_000.0  // largest accepted pre-tax price
	MaxAmount         = 10_000_000.0 // largest amount accepted by Round
	MaxTaxRatePercent = 100.0

	quoteKeyPrefix = "quote:"

	RoleSeller   = "seller"
	RoleCustomer = "customer"
)

// nickelStep is the exact spacing a start nickel must sit on.
var nickelStep = decimal.New(5, -2)

// Package rounding implements cash ("Swedish") rounding to the nearest
// five-cent unit and the search for pre-tax prices whose after-tax total
// lands exactly on a nickel.
//
// Every function in this package is pure: no I/O, no shared state.
package rounding

import (
	"encoding/json"
	"fmt"
	"math"
)

// Cents is a monetary amount in the smallest US unit.
type Cents int64

// NickelCents is the fixed rounding unit.
const NickelCents Cents = 5

// ToCents converts a currency amount to cents, rounding half away from zero.
func ToCents(amount float64) Cents {
	return Cents(math.Round(amount * 100))
}

// Float returns the amount in currency units.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Direction tags where the nearest nickel lies relative to an amount.
type Direction int

const (
	None Direction = iota
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// ParseDirection accepts "up", "down" and "none".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "none":
		return None, nil
	}
	return None, fmt.Errorf("unknown rounding direction %q", s)
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// RoundCents snaps cents to a nickel using the last-digit table:
// 0,5 stay; 1,2,6,7 go down; 3,4,8,9 go up.
func RoundCents(cents Cents) (Cents, Direction) {
	// Negative amounts are not a defined input; normalizing the digit keeps
	// the result on a nickel anyway.
	lastDigit := ((cents % 10) + 10) % 10

	switch lastDigit {
	case 0, 5:
		return cents, None
	case 1, 2, 6, 7:
		rounded := cents - lastDigit
		if lastDigit > 5 {
			rounded += 5
		}
		return rounded, Down
	default:
		rounded := cents - lastDigit + 5
		if lastDigit > 5 {
			rounded += 5
		}
		return rounded, Up
	}
}

// RoundToNickel rounds amount to the nearest five cents.
func RoundToNickel(amount float64) (float64, Direction) {
	rounded, direction := RoundCents(ToCents(amount))
	return rounded.Float(), direction
}

// IsNickel reports whether amount is already a whole number of nickels.
func IsNickel(amount float64) bool {
	_, direction := RoundToNickel(amount)
	return direction == None
}

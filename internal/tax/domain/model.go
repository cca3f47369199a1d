package domain

import "errors"

// Jurisdiction is a sales-tax jurisdiction resolved from a postal code.
// Rate is a percentage (8.5 means 8.5%). A zero rate is a valid resolution
// for jurisdictions without sales tax, distinct from an unknown postal code.
type Jurisdiction struct {
	Code string  `json:"code"`
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// Group is a taxable subtotal attributed to one postal code. Amounts are in
// minor currency units.
type Group struct {
	PostalCode string `json:"postal_code"`
	Subtotal   int64  `json:"subtotal"`
}

// Line is one jurisdiction's share of a tax breakdown.
type Line struct {
	PostalCode    string  `json:"postal_code"`
	Jurisdiction  string  `json:"jurisdiction"`
	Rate          float64 `json:"rate"`
	TaxableAmount int64   `json:"taxable_amount"`
	TaxAmount     int64   `json:"tax_amount"`
}

var (
	ErrInvalidPostalCode = errors.New("invalid_postal_code")
	ErrUnknownPostalCode = errors.New("unknown_postal_code")
)

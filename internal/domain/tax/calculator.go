package tax

import (
	"errors"
	"math"

	"github.com/sangkips/gstbill-api/pkg/numwords"
)

// DefaultRatePercent is the CGST and SGST rate applied when none is configured
const DefaultRatePercent = 2.5

var (
	ErrNegativeQuantity = errors.New("tax: quantity must not be negative")
	ErrNegativeRate     = errors.New("tax: rate must not be negative")
	ErrNegativeTaxRate  = errors.New("tax: tax rate must not be negative")
)

// LineItem is a single billed product line. Amount is always derived
// from Quantity and Rate by Calculate.
type LineItem struct {
	Description string  `json:"description"`
	HSNCode     string  `json:"hsn_code,omitempty"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

// Rates holds the percentage rates applied to the pre-tax total
type Rates struct {
	CGSTPercent float64 `json:"cgst_rate"`
	SGSTPercent float64 `json:"sgst_rate"`
}

// DefaultRates returns 2.5% CGST and 2.5% SGST
func DefaultRates() Rates {
	return Rates{CGSTPercent: DefaultRatePercent, SGSTPercent: DefaultRatePercent}
}

// Breakdown is the computed tax summary of a bill. IGST is always zero
// since interstate supply is not billed.
type Breakdown struct {
	TotalBeforeTax   float64 `json:"total_before_tax"`
	CGST             float64 `json:"cgst"`
	SGST             float64 `json:"sgst"`
	IGST             float64 `json:"igst"`
	RawTotalAfterTax float64 `json:"raw_total_after_tax"`
	TotalAfterTax    float64 `json:"total_after_tax"`
	RoundOff         float64 `json:"round_off"`
	TotalInWords     string  `json:"total_in_words"`
}

// TotalTax returns cgst + sgst + igst
func (b Breakdown) TotalTax() float64 {
	return b.CGST + b.SGST + b.IGST
}

// Calculate recomputes every line amount, then derives the tax breakdown.
// The post-tax total is rounded half away from zero to a whole rupee and
// RoundOff holds the signed difference to the unrounded total.
// The input slice is not modified; the recomputed items are returned.
func Calculate(items []LineItem, rates Rates) (Breakdown, []LineItem, error) {
	if rates.CGSTPercent < 0 || rates.SGSTPercent < 0 {
		return Breakdown{}, nil, ErrNegativeTaxRate
	}

	computed := make([]LineItem, len(items))
	var totalBeforeTax float64
	for i, item := range items {
		if item.Quantity < 0 {
			return Breakdown{}, nil, ErrNegativeQuantity
		}
		if item.Rate < 0 {
			return Breakdown{}, nil, ErrNegativeRate
		}
		item.Amount = item.Quantity * item.Rate
		computed[i] = item
		totalBeforeTax += item.Amount
	}

	cgst := totalBeforeTax * rates.CGSTPercent / 100
	sgst := totalBeforeTax * rates.SGSTPercent / 100
	raw := totalBeforeTax + cgst + sgst
	rounded := math.Round(raw)

	words, err := numwords.Rupees(rounded)
	if err != nil {
		return Breakdown{}, nil, err
	}

	return Breakdown{
		TotalBeforeTax:   totalBeforeTax,
		CGST:             cgst,
		SGST:             sgst,
		IGST:             0,
		RawTotalAfterTax: raw,
		TotalAfterTax:    rounded,
		RoundOff:         rounded - raw,
		TotalInWords:     words,
	}, computed, nil
}

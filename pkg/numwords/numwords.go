package numwords

import (
	"errors"
	"math"
	"strings"
)

var (
	// ErrNegativeAmount is returned for amounts below zero
	ErrNegativeAmount = errors.New("numwords: negative amounts are not supported")
	// ErrInvalidAmount is returned for NaN, infinite or out-of-range amounts
	ErrInvalidAmount = errors.New("numwords: amount is not a finite number in range")
)

const (
	crore    = 10000000
	lakh     = 100000
	thousand = 1000

	// maxPaise keeps the int64 conversion exact
	maxPaise = 1 << 53
)

var ones = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// Words spells out a whole number using the Indian grouping scale
// (crore, lakh, thousand, hundred). Zero is spelled "Zero".
func Words(n int64) string {
	if n <= 0 {
		return "Zero"
	}
	return convert(n)
}

// Rupees renders a currency amount as "<words> Rupees", appending
// " and <words> Paise" when the amount has a non-zero fractional part.
// The fraction is rounded to the nearest paisa.
func Rupees(amount float64) (string, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", ErrInvalidAmount
	}
	if amount < 0 {
		return "", ErrNegativeAmount
	}

	totalPaise := math.Round(amount * 100)
	if totalPaise >= maxPaise {
		return "", ErrInvalidAmount
	}

	rupees := int64(totalPaise) / 100
	paise := int64(totalPaise) % 100

	result := Words(rupees) + " Rupees"
	if paise > 0 {
		result += " and " + Words(paise) + " Paise"
	}
	return result, nil
}

func convert(n int64) string {
	parts := make([]string, 0, 4)

	if c := n / crore; c > 0 {
		parts = append(parts, convert(c)+" Crore")
		n %= crore
	}
	if l := n / lakh; l > 0 {
		parts = append(parts, belowThousand(l)+" Lakh")
		n %= lakh
	}
	if t := n / thousand; t > 0 {
		parts = append(parts, belowThousand(t)+" Thousand")
		n %= thousand
	}
	if n > 0 {
		parts = append(parts, belowThousand(n))
	}

	return strings.Join(parts, " ")
}

func belowThousand(n int64) string {
	switch {
	case n < 20:
		return ones[n]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + " " + ones[n%10]
	default:
		words := ones[n/100] + " Hundred"
		if rest := n % 100; rest > 0 {
			words += " and " + belowThousand(rest)
		}
		return words
	}
}

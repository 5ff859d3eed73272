package models

// Currency is an ISO-4217 style three letter code.
type Currency string

// IsValid reports whether c looks like a three letter upper-case code.
func (c Currency) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// ExchangeRate is one directed edge of the rate snapshot: 1 From = Rate To.
type ExchangeRate struct {
	From      Currency `json:"from" db:"from_currency"`
	To        Currency `json:"to" db:"to_currency"`
	Rate      float64  `json:"rate" db:"rate"`
	Timestamp int64    `json:"timestamp,omitempty" db:"-"`
}

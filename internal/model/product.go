package model

import (
	"strings"
	"time"
)

// Product is a read-only snapshot of an authoritative stock record.
type Product struct {
	ID                int64   `json:"id"`
	SKU               string  `json:"sku"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Quantity          int     `json:"quantity"`
	LowStockThreshold int     `json:"lowStockThreshold"`
	Price             float64 `json:"price"`
	ExpirationDate    string  `json:"expirationDate,omitempty"`
	Brand             string  `json:"brand,omitempty"`
	Type              string  `json:"type,omitempty"`
	CreatedAt         string  `json:"createdAt,omitempty"`
}

// expirationLayouts lists the formats the stock API has been seen to emit.
var expirationLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
}

// ExpiresAt parses ExpirationDate. Date-only values resolve to midnight UTC.
func (p *Product) ExpiresAt() (time.Time, bool) {
	raw := strings.TrimSpace(p.ExpirationDate)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range expirationLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsExpired reports whether the product must be treated as unpurchasable at now.
func (p *Product) IsExpired(now time.Time) bool {
	exp, ok := p.ExpiresAt()
	if !ok {
		return false
	}
	return exp.Before(now)
}

// IsLowStock reports whether the stock level is at or under the alert threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}

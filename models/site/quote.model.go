package site

import (
	"time"

	"gorm.io/gorm"
)

// Quote statuses
const (
	QuotePending   = "PENDING"
	QuoteAccepted  = "ACCEPTED"
	QuoteRefused   = "REFUSED"
	QuoteCancelled = "CANCELLED"
)

// Quote work types
const (
	QuoteConstruction = "CONSTRUCTION"
	QuoteRenovation   = "RENOVATION"
	QuoteFitOut       = "FIT_OUT"
	QuoteDemolition   = "DEMOLITION"
	QuoteOther        = "OTHER"
)

// Quote is a client's request for construction work, identified by a
// generated reference of the form DEV-<year>-<seq>.
type Quote struct {
	gorm.Model
	Reference        string     `json:"reference" gorm:"unique;not null"`
	Title            string     `json:"title" gorm:"not null"`
	Description      string     `json:"description"`
	Type             string     `json:"type" gorm:"default:'CONSTRUCTION'"`
	Amount           float64    `json:"amount" gorm:"default:0"`
	Status           string     `json:"status" gorm:"default:'PENDING'"`
	WorksiteAddress  string     `json:"worksite_address"`
	StartDate        *time.Time `json:"start_date"`
	EstimatedEndDate *time.Time `json:"estimated_end_date"`
	Comment          string     `json:"comment"`
	ClientID         uint       `json:"client_id" gorm:"index;not null"`
}

// ValidQuoteStatus reports whether s is a known quote status.
func ValidQuoteStatus(s string) bool {
	switch s {
	case QuotePending, QuoteAccepted, QuoteRefused, QuoteCancelled:
		return true
	}
	return false
}

// ValidQuoteType reports whether t is a known work type.
func ValidQuoteType(t string) bool {
	switch t {
	case QuoteConstruction, QuoteRenovation, QuoteFitOut, QuoteDemolition, QuoteOther:
		return true
	}
	return false
}

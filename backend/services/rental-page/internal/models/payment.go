package models

import "regexp"

// Payment status values reported by the rental backend.
const (
	PaymentStatusSuccess = "success"
	PaymentStatusPending = "pending"
	PaymentStatusFailed  = "failed"
	// PaymentStatusNotFound is what the backend sends before any payment arrives. Any status
	// outside success/pending/failed is treated the same way.
	PaymentStatusNotFound = "not_found"
)

// PaymentStatusResponse mirrors GET /api/check_payment/{address}.
type PaymentStatusResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    *RentalData `json:"data,omitempty"`
}

// RentalData describes an active rental.
type RentalData struct {
	RentalID         int64  `json:"rental_id,omitempty"`
	RentalAddress    string `json:"rental_address"`
	EnergyAmount     int64  `json:"energy_amount"`
	ExpiryTime       string `json:"expiry_time,omitempty"`
	RemainingMinutes int    `json:"remaining_minutes"`
}

var tronAddressPattern = regexp.MustCompile(`^T[a-zA-Z0-9]{33}$`)

// IsTronAddress reports whether s looks like a base58 TRON address.
func IsTronAddress(s string) bool {
	return tronAddressPattern.MatchString(s)
}

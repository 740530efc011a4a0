package models

import "time"

// PaymentSnapshot is the last payment state rendered for an address.
type PaymentSnapshot struct {
	Address   string      `json:"address"`
	State     string      `json:"state"`
	Status    string      `json:"status,omitempty"`
	Message   string      `json:"message,omitempty"`
	Rental    *RentalData `json:"rental,omitempty"`
	CheckedAt time.Time   `json:"checked_at"`
}

// Package page implements the rental page behaviors: clipboard copy buttons, the payment
// status poll chain with its countdown, and the energy balance check. Components render into
// view handles and never look elements up themselves.
package page

import (
	"context"

	"energyrental/backend/services/rental-page/internal/models"
	"energyrental/backend/services/rental-page/internal/view"
)

// Page is the set of view handles of one rendered page. Nil handles are absent elements.
type Page struct {
	// PaymentStatus is the payment-status region; PaymentAddress is its data-address.
	PaymentStatus  view.Region
	PaymentAddress string

	RentalDetails      view.Panel
	RentalAddress      view.Text
	RentalEnergy       view.Text
	RentalTime         view.Text
	CheckPaymentButton view.Panel
	Countdown          view.Styled

	EnergyStatus  view.Region
	EnergyMessage view.Region
	RentButton    view.Control
	AddressInput  view.Field

	CopyButtons []CopyButton

	Alerter   view.Alerter
	Clipboard view.Clipboard
}

// CopyButton is a .copy-btn element; Text is its data-copy attribute.
type CopyButton struct {
	Text string
}

// PaymentSource answers payment status queries.
type PaymentSource interface {
	PaymentStatus(ctx context.Context, address string) (*models.PaymentStatusResponse, error)
}

// EnergySource answers energy balance queries.
type EnergySource interface {
	EnergyStatus(ctx context.Context, address string) (*models.EnergyStatusResponse, error)
}

// Recorder keeps the last payment state per address.
type Recorder interface {
	SavePayment(ctx context.Context, snap models.PaymentSnapshot) error
}

// Observer receives outcome counts.
type Observer interface {
	PaymentChecked(state PaymentState)
	EnergyChecked(outcome string)
	ClipboardCopied(ok bool)
}

// Energy check outcomes reported to Observer.
const (
	EnergyOutcomeEnough       = "enough"
	EnergyOutcomeInsufficient = "insufficient"
	EnergyOutcomeUnavailable  = "unavailable"
	EnergyOutcomeError        = "error"
	EnergyOutcomeNoAddress    = "no_address"
)

type nopObserver struct{}

func (nopObserver) PaymentChecked(PaymentState) {}
func (nopObserver) EnergyChecked(string)        {}
func (nopObserver) ClipboardCopied(bool)        {}

// Package view declares the handles the page controller renders into. A page surface
// (terminal, live browser session, test fake) implements the handles it has; a nil handle
// means the element is absent and is skipped.
//
// Implementations must be safe for concurrent use.
package view

import "context"

// Tone is the visual style of a notice or text.
type Tone string

// Tones used by the rental page.
const (
	ToneNone      Tone = ""
	TonePrimary   Tone = "primary"
	ToneSuccess   Tone = "success"
	ToneWarning   Tone = "warning"
	ToneDanger    Tone = "danger"
	ToneSecondary Tone = "secondary"
	ToneInfo      Tone = "info"
)

// Notice is a short styled status rendered into a region: an optional badge, the text, then
// an optional emphasized value. Tone applies to the badge, or to the value when there is no
// badge.
type Notice struct {
	Tone  Tone   `json:"tone,omitempty"`
	Badge string `json:"badge,omitempty"`
	Text  string `json:"text,omitempty"`
	Value string `json:"value,omitempty"`
	// Busy shows a progress indicator next to the text.
	Busy bool `json:"busy,omitempty"`
}

// Region renders notices (payment-status, energy-status, energy-message).
type Region interface {
	Render(Notice)
}

// Text holds plain text (rental-address, rental-energy, rental-time).
type Text interface {
	SetText(string)
}

// Panel can be shown or hidden (rental-details, check-payment-btn).
type Panel interface {
	SetHidden(bool)
}

// Control can be disabled (rent-button).
type Control interface {
	SetDisabled(bool)
}

// Styled is text whose tone can change (countdown).
type Styled interface {
	Text
	SetTone(Tone)
}

// Field is a user input (tron_address).
type Field interface {
	Value() string
}

// Alerter shows a blocking acknowledgment to the user.
type Alerter interface {
	Alert(msg string)
}

// Clipboard writes to the platform clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

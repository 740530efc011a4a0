package liveview

import "energyrental/backend/services/rental-page/internal/view"

// Element ids of the rental page markup.
const (
	ElemPaymentStatus   = "payment-status"
	ElemRentalDetails   = "rental-details"
	ElemRentalAddress   = "rental-address"
	ElemRentalEnergy    = "rental-energy"
	ElemRentalTime      = "rental-time"
	ElemCheckPaymentBtn = "check-payment-btn"
	ElemCountdown       = "countdown"
	ElemEnergyStatus    = "energy-status"
	ElemEnergyMessage   = "energy-message"
	ElemRentButton      = "rent-button"
	ElemAddressInput    = "tron_address"
	ElemCheckEnergyBtn  = "check-energy-btn"
	ElemCopyBtn         = "copy-btn"
)

// Operations pushed to the browser.
const (
	OpRender    = "render"
	OpText      = "text"
	OpHidden    = "hidden"
	OpDisabled  = "disabled"
	OpTone      = "tone"
	OpAlert     = "alert"
	OpClipboard = "clipboard"
)

// Events received from the browser.
const (
	EventReady           = "ready"
	EventClick           = "click"
	EventClipboardResult = "clipboard_result"
)

// Op is one DOM update. Target is an element id.
type Op struct {
	Op       string       `json:"op"`
	Target   string       `json:"target,omitempty"`
	Notice   *view.Notice `json:"notice,omitempty"`
	Text     string       `json:"text,omitempty"`
	Hidden   *bool        `json:"hidden,omitempty"`
	Disabled *bool        `json:"disabled,omitempty"`
	Tone     view.Tone    `json:"tone,omitempty"`
	ID       string       `json:"id,omitempty"`
}

// Event is a browser message.
//
// ready: Elements lists the element ids present on the page, Address is the payment-status
// data-address and Copy the data-copy texts of the copy buttons in document order.
// click: Target is the clicked element id (Index selects the copy button); Values carries
// current input values keyed by element id.
// clipboard_result: answers the clipboard op with the same ID.
type Event struct {
	Type     string            `json:"type"`
	Elements []string          `json:"elements,omitempty"`
	Address  string            `json:"address,omitempty"`
	Copy     []string          `json:"copy,omitempty"`
	Target   string            `json:"target,omitempty"`
	Index    int               `json:"index,omitempty"`
	Values   map[string]string `json:"values,omitempty"`
	ID       string            `json:"id,omitempty"`
	OK       bool              `json:"ok,omitempty"`
	Error    string            `json:"error,omitempty"`
}

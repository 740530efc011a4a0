// Package terminal renders the rental page as lines of text.
package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	"energyrental/backend/services/rental-page/internal/page"
	"energyrental/backend/services/rental-page/internal/view"
)

// Printer serializes element updates onto one writer as "element: text" lines.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPrinter returns a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) line(element, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s: %s\n", element, text)
}

// FormatNotice renders a notice as plain text.
func FormatNotice(n view.Notice) string {
	var parts []string
	if n.Busy {
		parts = append(parts, "...")
	}
	if n.Badge != "" {
		parts = append(parts, "["+n.Badge+"]")
	}
	if n.Text != "" {
		parts = append(parts, n.Text)
	}
	if n.Value != "" {
		v := n.Value
		if n.Badge == "" && n.Tone != view.ToneNone {
			v += " (" + string(n.Tone) + ")"
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, " ")
}

type region struct {
	p    *Printer
	name string
}

func (r region) Render(n view.Notice) { r.p.line(r.name, FormatNotice(n)) }

type text struct {
	p    *Printer
	name string
}

func (t text) SetText(s string) { t.p.line(t.name, s) }

type panel struct {
	p    *Printer
	name string
}

func (e panel) SetHidden(hidden bool) {
	if hidden {
		e.p.line(e.name, "hidden")
		return
	}
	e.p.line(e.name, "shown")
}

type control struct {
	p    *Printer
	name string
}

func (c control) SetDisabled(disabled bool) {
	if disabled {
		c.p.line(c.name, "disabled")
		return
	}
	c.p.line(c.name, "enabled")
}

type styled struct {
	text
}

func (s styled) SetTone(t view.Tone) {
	if t == view.ToneDanger {
		s.p.line(s.name, "("+string(t)+")")
	}
}

type field string

func (f field) Value() string { return string(f) }

type alerter struct {
	mu sync.Mutex
	w  io.Writer
}

func (a *alerter) Alert(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.w, "! %s\n", msg)
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// WriteText implements view.Clipboard. The write is abandoned when ctx ends first.
func (SystemClipboard) WriteText(ctx context.Context, s string) error {
	done := make(chan error, 1)
	go func() { done <- clipboard.WriteAll(s) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Options selects which parts of the page exist.
type Options struct {
	// PaymentAddress enables the payment status region.
	PaymentAddress string
	// EnergyAddress enables the energy form with this input value.
	EnergyAddress string
	// Copy lists copy-button texts.
	Copy []string
	// Clipboard overrides the system clipboard.
	Clipboard view.Clipboard
}

// NewPage builds a page whose elements print to out; alerts go to alerts.
func NewPage(out, alerts io.Writer, opts Options) *page.Page {
	p := NewPrinter(out)
	pg := &page.Page{
		Alerter:   &alerter{w: alerts},
		Clipboard: opts.Clipboard,
	}
	if pg.Clipboard == nil {
		pg.Clipboard = SystemClipboard{}
	}

	if opts.PaymentAddress != "" {
		pg.PaymentStatus = region{p, "payment-status"}
		pg.PaymentAddress = opts.PaymentAddress
		pg.RentalDetails = panel{p, "rental-details"}
		pg.RentalAddress = text{p, "rental-address"}
		pg.RentalEnergy = text{p, "rental-energy"}
		pg.RentalTime = text{p, "rental-time"}
		pg.CheckPaymentButton = panel{p, "check-payment-btn"}
		pg.Countdown = styled{text{p, "countdown"}}
	}
	if opts.EnergyAddress != "" {
		pg.AddressInput = field(opts.EnergyAddress)
		pg.EnergyStatus = region{p, "energy-status"}
		pg.EnergyMessage = region{p, "energy-message"}
		pg.RentButton = control{p, "rent-button"}
	}
	for _, s := range opts.Copy {
		pg.CopyButtons = append(pg.CopyButtons, page.CopyButton{Text: s})
	}
	return pg
}

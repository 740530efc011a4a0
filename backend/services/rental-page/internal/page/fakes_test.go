package page

import (
	"context"
	"sync"

	"energyrental/backend/services/rental-page/internal/models"
	"energyrental/backend/services/rental-page/internal/view"
)

type fakeRegion struct {
	mu      sync.Mutex
	notices []view.Notice
}

func (f *fakeRegion) Render(n view.Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, n)
}

func (f *fakeRegion) last() view.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.notices) == 0 {
		return view.Notice{}
	}
	return f.notices[len(f.notices)-1]
}

func (f *fakeRegion) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notices)
}

type fakeText struct {
	mu   sync.Mutex
	text string
	tone view.Tone
	sets int
}

func (f *fakeText) SetText(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = s
	f.sets++
}

func (f *fakeText) SetTone(t view.Tone) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tone = t
}

func (f *fakeText) get() (string, view.Tone) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text, f.tone
}

type fakePanel struct {
	mu     sync.Mutex
	hidden bool
}

func (f *fakePanel) SetHidden(h bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hidden = h
}

func (f *fakePanel) isHidden() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hidden
}

type fakeControl struct {
	mu       sync.Mutex
	disabled bool
}

func (f *fakeControl) SetDisabled(d bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disabled = d
}

func (f *fakeControl) isDisabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disabled
}

type fakeField string

func (f fakeField) Value() string { return string(f) }

type fakeAlerter struct {
	mu     sync.Mutex
	alerts []string
}

func (f *fakeAlerter) Alert(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, msg)
}

func (f *fakeAlerter) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.alerts...)
}

type fakeClipboard struct {
	mu      sync.Mutex
	written []string
	err     error
}

func (f *fakeClipboard) WriteText(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, text)
	return nil
}

// scriptedPayments answers payment checks from a queue; the last answer repeats.
type scriptedPayments struct {
	mu        sync.Mutex
	answers   []paymentAnswer
	addresses []string
}

type paymentAnswer struct {
	resp *models.PaymentStatusResponse
	err  error
}

func (s *scriptedPayments) PaymentStatus(_ context.Context, address string) (*models.PaymentStatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses = append(s.addresses, address)
	a := s.answers[0]
	if len(s.answers) > 1 {
		s.answers = s.answers[1:]
	}
	return a.resp, a.err
}

func (s *scriptedPayments) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.addresses)
}

type fixedEnergy struct {
	mu        sync.Mutex
	resp      *models.EnergyStatusResponse
	err       error
	addresses []string
}

func (f *fixedEnergy) EnergyStatus(_ context.Context, address string) (*models.EnergyStatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addresses = append(f.addresses, address)
	return f.resp, f.err
}

type countingObserver struct {
	mu       sync.Mutex
	payments []PaymentState
	energy   []string
	copies   []bool
}

func (o *countingObserver) PaymentChecked(s PaymentState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.payments = append(o.payments, s)
}

func (o *countingObserver) EnergyChecked(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.energy = append(o.energy, outcome)
}

func (o *countingObserver) ClipboardCopied(ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.copies = append(o.copies, ok)
}

type memoryRecorder struct {
	mu    sync.Mutex
	snaps []models.PaymentSnapshot
	err   error
}

func (m *memoryRecorder) SavePayment(_ context.Context, snap models.PaymentSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps = append(m.snaps, snap)
	return m.err
}

type paymentPage struct {
	page      *Page
	status    *fakeRegion
	details   *fakePanel
	address   *fakeText
	energy    *fakeText
	time      *fakeText
	button    *fakePanel
	countdown *fakeText
}

func newPaymentPage(address string) *paymentPage {
	pp := &paymentPage{
		status:    &fakeRegion{},
		details:   &fakePanel{hidden: true},
		address:   &fakeText{},
		energy:    &fakeText{},
		time:      &fakeText{},
		button:    &fakePanel{},
		countdown: &fakeText{},
	}
	pp.page = &Page{
		PaymentStatus:      pp.status,
		PaymentAddress:     address,
		RentalDetails:      pp.details,
		RentalAddress:      pp.address,
		RentalEnergy:       pp.energy,
		RentalTime:         pp.time,
		CheckPaymentButton: pp.button,
		Countdown:          pp.countdown,
	}
	return pp
}

func answer(status string) paymentAnswer {
	return paymentAnswer{resp: &models.PaymentStatusResponse{Status: status}}
}

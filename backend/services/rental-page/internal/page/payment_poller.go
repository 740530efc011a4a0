package page

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"energyrental/backend/services/rental-page/internal/models"
	"energyrental/backend/services/rental-page/internal/schedule"
)

// PaymentState is the poller state.
type PaymentState string

// Poller states. Success, Failed, Error and TimedOut are terminal.
const (
	StateUnknown  PaymentState = "unknown"
	StateChecking PaymentState = "checking"
	StateSuccess  PaymentState = "success"
	StatePending  PaymentState = "pending"
	StateFailed   PaymentState = "failed"
	StateWaiting  PaymentState = "waiting"
	StateError    PaymentState = "error"
	StateTimedOut PaymentState = "timed_out"
)

// Terminal reports whether no further check follows s.
func (s PaymentState) Terminal() bool {
	switch s {
	case StateSuccess, StateFailed, StateError, StateTimedOut:
		return true
	}
	return false
}

// Default poll intervals.
const (
	DefaultPendingInterval = 5000 * time.Millisecond
	DefaultWaitingInterval = 10000 * time.Millisecond
)

var errMissingRental = errors.New("success status without rental data")

// PollerConfig tunes the poll chain.
type PollerConfig struct {
	PendingInterval time.Duration
	WaitingInterval time.Duration
	// MaxWait bounds the total scheduled delay of one chain; zero polls forever.
	MaxWait time.Duration
}

func (c PollerConfig) withDefaults() PollerConfig {
	if c.PendingInterval <= 0 {
		c.PendingInterval = DefaultPendingInterval
	}
	if c.WaitingInterval <= 0 {
		c.WaitingInterval = DefaultWaitingInterval
	}
	return c
}

// PaymentPoller polls the payment status of one address until a terminal state.
type PaymentPoller struct {
	page      *Page
	source    PaymentSource
	sched     schedule.Scheduler
	countdown *Countdown
	cfg       PollerConfig
	observer  Observer
	recorder  Recorder
	logger    *zap.Logger

	mu     sync.Mutex
	state  PaymentState
	gen    uint64
	next   schedule.Task
	waited time.Duration
}

// NewPaymentPoller builds a poller for page.PaymentAddress. recorder and observer may be nil.
func NewPaymentPoller(
	p *Page,
	source PaymentSource,
	sched schedule.Scheduler,
	countdown *Countdown,
	cfg PollerConfig,
	observer Observer,
	recorder Recorder,
	logger *zap.Logger,
) *PaymentPoller {
	if observer == nil {
		observer = nopObserver{}
	}
	return &PaymentPoller{
		page:      p,
		source:    source,
		sched:     sched,
		countdown: countdown,
		cfg:       cfg.withDefaults(),
		observer:  observer,
		recorder:  recorder,
		logger:    logger.With(zap.String("address", p.PaymentAddress)),
		state:     StateUnknown,
	}
}

// Start begins a new poll chain with an immediate check, cancelling any pending follow-up of
// a previous chain. The chain ends at a terminal state, on Stop, or when ctx is done.
func (p *PaymentPoller) Start(ctx context.Context) {
	if p.page.PaymentStatus == nil || p.page.PaymentAddress == "" {
		return
	}
	p.mu.Lock()
	p.cancelLocked()
	gen := p.gen
	p.waited = 0
	p.mu.Unlock()

	p.check(ctx, gen)
}

// Stop cancels the pending follow-up check, if any.
func (p *PaymentPoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
}

// State returns the current state.
func (p *PaymentPoller) State() PaymentState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *PaymentPoller) cancelLocked() {
	p.gen++
	if p.next != nil {
		p.next.Cancel()
		p.next = nil
	}
}

// setState records s unless the chain gen has been superseded.
func (p *PaymentPoller) setState(gen uint64, s PaymentState) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return false
	}
	p.state = s
	return true
}

func (p *PaymentPoller) check(ctx context.Context, gen uint64) {
	if ctx.Err() != nil || !p.setState(gen, StateChecking) {
		return
	}
	p.page.PaymentStatus.Render(noticeChecking)

	resp, err := p.source.PaymentStatus(ctx, p.page.PaymentAddress)
	if ctx.Err() != nil {
		return
	}
	if err == nil && resp.Status == models.PaymentStatusSuccess && resp.Data == nil {
		err = errMissingRental
	}
	if err != nil {
		p.logger.Error("check payment status failed", zap.Error(err))
		p.finish(ctx, gen, StateError, nil)
		return
	}
	if resp.Message != "" {
		p.logger.Debug("payment status", zap.String("status", resp.Status), zap.String("message", resp.Message))
	}

	switch resp.Status {
	case models.PaymentStatusSuccess:
		p.finish(ctx, gen, StateSuccess, resp)
	case models.PaymentStatusPending:
		p.followUp(ctx, gen, StatePending, resp, p.cfg.PendingInterval)
	case models.PaymentStatusFailed:
		p.finish(ctx, gen, StateFailed, resp)
	default:
		p.followUp(ctx, gen, StateWaiting, resp, p.cfg.WaitingInterval)
	}
}

func (p *PaymentPoller) finish(ctx context.Context, gen uint64, s PaymentState, resp *models.PaymentStatusResponse) {
	if !p.setState(gen, s) {
		return
	}
	switch s {
	case StateSuccess:
		p.renderSuccess(resp.Data)
	case StateFailed:
		p.page.PaymentStatus.Render(noticeFailed)
	case StateTimedOut:
		p.page.PaymentStatus.Render(noticeTimedOut)
	default:
		p.page.PaymentStatus.Render(noticeError)
	}
	p.observer.PaymentChecked(s)
	p.record(ctx, s, resp)
}

func (p *PaymentPoller) followUp(ctx context.Context, gen uint64, s PaymentState, resp *models.PaymentStatusResponse, delay time.Duration) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	if p.cfg.MaxWait > 0 && p.waited+delay > p.cfg.MaxWait {
		p.mu.Unlock()
		p.logger.Info("payment polling gave up", zap.Duration("waited", p.waited))
		p.finish(ctx, gen, StateTimedOut, resp)
		return
	}
	p.state = s
	p.waited += delay
	if s == StatePending {
		p.page.PaymentStatus.Render(noticePending)
	} else {
		p.page.PaymentStatus.Render(noticeWaiting)
	}
	p.next = p.sched.After(delay, func() { p.check(ctx, gen) })
	p.mu.Unlock()

	p.observer.PaymentChecked(s)
	p.record(ctx, s, resp)
}

func (p *PaymentPoller) renderSuccess(data *models.RentalData) {
	p.page.PaymentStatus.Render(noticeSuccess)

	if p.page.RentalDetails != nil {
		p.page.RentalDetails.SetHidden(false)
		if p.page.RentalAddress != nil {
			p.page.RentalAddress.SetText(data.RentalAddress)
		}
		if p.page.RentalEnergy != nil {
			p.page.RentalEnergy.SetText(strconv.FormatInt(data.EnergyAmount, 10))
		}
		if p.page.RentalTime != nil {
			p.page.RentalTime.SetText(strconv.Itoa(data.RemainingMinutes) + MsgMinutesSuffix)
		}
	}
	if p.page.CheckPaymentButton != nil {
		p.page.CheckPaymentButton.SetHidden(true)
	}
	if p.countdown != nil {
		p.countdown.Start(data.RemainingMinutes)
	}
}

func (p *PaymentPoller) record(ctx context.Context, s PaymentState, resp *models.PaymentStatusResponse) {
	if p.recorder == nil {
		return
	}
	snap := models.PaymentSnapshot{
		Address:   p.page.PaymentAddress,
		State:     string(s),
		CheckedAt: time.Now().UTC(),
	}
	if resp != nil {
		snap.Status = resp.Status
		snap.Message = resp.Message
		snap.Rental = resp.Data
	}
	if err := p.recorder.SavePayment(ctx, snap); err != nil {
		p.logger.Warn("failed to record payment snapshot", zap.Error(err))
	}
}

package page

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"energyrental/backend/services/rental-page/internal/schedule"
)

// Deps collects controller collaborators.
type Deps struct {
	Payments  PaymentSource
	Energy    EnergySource
	Scheduler schedule.Scheduler
	Poller    PollerConfig
	Observer  Observer
	Recorder  Recorder
	Logger    *zap.Logger
}

// Controller wires the page behaviors. Event methods are synchronous; surfaces that must
// not block (a websocket read loop) call them from their own goroutine.
type Controller struct {
	page      *Page
	copier    *Copier
	poller    *PaymentPoller
	countdown *Countdown
	energy    *EnergyChecker
	logger    *zap.Logger
}

// NewController builds the page components once.
func NewController(p *Page, deps Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sched := deps.Scheduler
	if sched == nil {
		sched = schedule.NewSystem()
	}

	countdown := NewCountdown(p.Countdown, sched)
	return &Controller{
		page:      p,
		copier:    NewCopier(p.Clipboard, p.Alerter, deps.Observer, logger),
		poller:    NewPaymentPoller(p, deps.Payments, sched, countdown, deps.Poller, deps.Observer, deps.Recorder, logger),
		countdown: countdown,
		energy:    NewEnergyChecker(p, deps.Energy, deps.Observer, logger),
		logger:    logger,
	}
}

// Ready starts what runs on page load: the payment poll chain when the status region
// carries an address. Everything stops when ctx is done.
func (c *Controller) Ready(ctx context.Context) {
	context.AfterFunc(ctx, c.Close)
	if c.page.PaymentStatus != nil && c.page.PaymentAddress != "" {
		c.poller.Start(ctx)
	}
}

// ClickCopy handles a click on the copy button at index.
func (c *Controller) ClickCopy(ctx context.Context, index int) error {
	if index < 0 || index >= len(c.page.CopyButtons) {
		return fmt.Errorf("copy button %d not present", index)
	}
	c.copier.Copy(ctx, c.page.CopyButtons[index].Text)
	return nil
}

// Copy copies arbitrary text as a copy button would.
func (c *Controller) Copy(ctx context.Context, text string) {
	c.copier.Copy(ctx, text)
}

// CheckPayment handles the manual check button: it restarts the poll chain.
func (c *Controller) CheckPayment(ctx context.Context) {
	c.poller.Start(ctx)
}

// CheckEnergy handles the check-energy button.
func (c *Controller) CheckEnergy(ctx context.Context) {
	c.energy.Check(ctx)
}

// PaymentState returns the poller state.
func (c *Controller) PaymentState() PaymentState {
	return c.poller.State()
}

// CountdownRemaining returns the seconds left on the rental countdown.
func (c *Controller) CountdownRemaining() (int, bool) {
	return c.countdown.Remaining()
}

// Close cancels pending checks and the countdown.
func (c *Controller) Close() {
	c.poller.Stop()
	c.countdown.Stop()
}

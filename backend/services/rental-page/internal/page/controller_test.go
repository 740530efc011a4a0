package page

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"energyrental/backend/services/rental-page/internal/models"
	"energyrental/backend/services/rental-page/internal/schedule"
)

func TestCopySuccessAcknowledges(t *testing.T) {
	clip := &fakeClipboard{}
	alerts := &fakeAlerter{}
	obs := &countingObserver{}

	NewCopier(clip, alerts, obs, zap.NewNop()).Copy(context.Background(), "TXabc123")

	assert.Equal(t, []string{"TXabc123"}, clip.written)
	assert.Equal(t, []string{MsgCopied}, alerts.all())
	assert.Equal(t, []bool{true}, obs.copies)
}

func TestCopyFailureOnlyLogs(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	clip := &fakeClipboard{err: errors.New("permission denied")}
	alerts := &fakeAlerter{}

	NewCopier(clip, alerts, nil, zap.New(core)).Copy(context.Background(), "TXabc123")

	assert.Empty(t, alerts.all())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "copy to clipboard failed", logs.All()[0].Message)
	assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
}

func TestCopyWithoutClipboard(t *testing.T) {
	alerts := &fakeAlerter{}
	NewCopier(nil, alerts, nil, zap.NewNop()).Copy(context.Background(), "x")
	assert.Empty(t, alerts.all())
}

func TestControllerReadyStartsPolling(t *testing.T) {
	pp := newPaymentPage("T222")
	sched := schedule.NewManual()
	src := &scriptedPayments{answers: []paymentAnswer{answer(models.PaymentStatusFailed)}}
	c := NewController(pp.page, Deps{Payments: src, Scheduler: sched, Logger: zap.NewNop()})

	c.Ready(context.Background())
	sched.Advance(10 * time.Second)

	assert.Equal(t, StateFailed, c.PaymentState())
	assert.Equal(t, noticeFailed, pp.status.last())
	assert.Equal(t, 1, src.calls())
	assert.Equal(t, []string{"T222"}, src.addresses)
}

func TestControllerReadyWithoutAddressIsInert(t *testing.T) {
	pp := newPaymentPage("")
	sched := schedule.NewManual()
	src := &scriptedPayments{answers: []paymentAnswer{answer(models.PaymentStatusPending)}}
	c := NewController(pp.page, Deps{Payments: src, Scheduler: sched})

	c.Ready(context.Background())

	assert.Equal(t, 0, src.calls())
	assert.Equal(t, StateUnknown, c.PaymentState())
}

func TestControllerManualCheckRecoversFromError(t *testing.T) {
	pp := newPaymentPage("T1")
	sched := schedule.NewManual()
	src := &scriptedPayments{answers: []paymentAnswer{
		{err: errors.New("offline")},
		answer(models.PaymentStatusPending),
	}}
	c := NewController(pp.page, Deps{Payments: src, Scheduler: sched})

	c.Ready(context.Background())
	assert.Equal(t, StateError, c.PaymentState())

	c.CheckPayment(context.Background())
	assert.Equal(t, StatePending, c.PaymentState())
	assert.Equal(t, []time.Duration{5 * time.Second}, sched.Pending())
}

func TestControllerContextDoneClosesEverything(t *testing.T) {
	pp := newPaymentPage("T1")
	sched := schedule.NewManual()
	src := &scriptedPayments{answers: []paymentAnswer{
		{resp: &models.PaymentStatusResponse{
			Status: models.PaymentStatusSuccess,
			Data:   &models.RentalData{RentalAddress: "T1", EnergyAmount: 1, RemainingMinutes: 5},
		}},
	}}
	c := NewController(pp.page, Deps{Payments: src, Scheduler: sched})

	ctx, cancel := context.WithCancel(context.Background())
	c.Ready(ctx)
	_, running := c.CountdownRemaining()
	require.True(t, running)

	cancel()
	require.Eventually(t, func() bool {
		_, running := c.CountdownRemaining()
		return !running
	}, time.Second, time.Millisecond)
	assert.Empty(t, sched.Pending())
}

func TestControllerClickCopy(t *testing.T) {
	clip := &fakeClipboard{}
	alerts := &fakeAlerter{}
	p := &Page{
		CopyButtons: []CopyButton{{Text: "TMonitor"}, {Text: "10"}},
		Clipboard:   clip,
		Alerter:     alerts,
	}
	c := NewController(p, Deps{Scheduler: schedule.NewManual()})

	require.NoError(t, c.ClickCopy(context.Background(), 1))
	assert.Error(t, c.ClickCopy(context.Background(), 2))
	assert.Equal(t, []string{"10"}, clip.written)
}

func TestControllerCheckEnergyScenario(t *testing.T) {
	ep := newEnergyPage("T111")
	src := &fixedEnergy{resp: &models.EnergyStatusResponse{Status: "success", Energy: 50000, HasEnough: true}}
	c := NewController(ep.page, Deps{Energy: src, Scheduler: schedule.NewManual()})

	c.CheckEnergy(context.Background())

	assert.Equal(t, "50000", ep.status.last().Value)
	assert.True(t, ep.rent.isDisabled())
}

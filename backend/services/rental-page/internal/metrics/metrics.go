package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"energyrental/backend/services/rental-page/internal/page"
)

// Metrics holds rental page collectors.
type Metrics struct {
	paymentChecks *prometheus.CounterVec
	energyChecks  *prometheus.CounterVec
	clipboard     *prometheus.CounterVec
	liveSessions  prometheus.Gauge
}

// New registers collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		paymentChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rental_page",
			Name:      "payment_checks_total",
			Help:      "Payment status checks by resulting state.",
		}, []string{"state"}),
		energyChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rental_page",
			Name:      "energy_checks_total",
			Help:      "Energy status checks by outcome.",
		}, []string{"outcome"}),
		clipboard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rental_page",
			Name:      "clipboard_copies_total",
			Help:      "Clipboard writes by success.",
		}, []string{"ok"}),
		liveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rental_page",
			Name:      "live_sessions",
			Help:      "Connected live page sessions.",
		}),
	}
	reg.MustRegister(m.paymentChecks, m.energyChecks, m.clipboard, m.liveSessions)
	return m
}

// PaymentChecked implements page.Observer.
func (m *Metrics) PaymentChecked(state page.PaymentState) {
	m.paymentChecks.WithLabelValues(string(state)).Inc()
}

// EnergyChecked implements page.Observer.
func (m *Metrics) EnergyChecked(outcome string) {
	m.energyChecks.WithLabelValues(outcome).Inc()
}

// ClipboardCopied implements page.Observer.
func (m *Metrics) ClipboardCopied(ok bool) {
	m.clipboard.WithLabelValues(strconv.FormatBool(ok)).Inc()
}

// SessionOpened tracks a live session.
func (m *Metrics) SessionOpened() {
	m.liveSessions.Inc()
}

// SessionClosed untracks a live session.
func (m *Metrics) SessionClosed() {
	m.liveSessions.Dec()
}

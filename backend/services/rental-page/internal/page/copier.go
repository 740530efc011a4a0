package page

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"energyrental/backend/services/rental-page/internal/view"
)

var errNoClipboard = errors.New("clipboard unavailable")

// Copier copies button text to the clipboard.
type Copier struct {
	clipboard view.Clipboard
	alerter   view.Alerter
	observer  Observer
	logger    *zap.Logger
}

// NewCopier builds a copier over the page clipboard.
func NewCopier(clipboard view.Clipboard, alerter view.Alerter, observer Observer, logger *zap.Logger) *Copier {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Copier{clipboard: clipboard, alerter: alerter, observer: observer, logger: logger}
}

// Copy writes text to the clipboard and acknowledges success with an alert. Failures are
// only logged.
func (c *Copier) Copy(ctx context.Context, text string) {
	err := errNoClipboard
	if c.clipboard != nil {
		err = c.clipboard.WriteText(ctx, text)
	}
	if err != nil {
		c.observer.ClipboardCopied(false)
		c.logger.Warn("copy to clipboard failed", zap.Error(err))
		return
	}
	c.observer.ClipboardCopied(true)
	if c.alerter != nil {
		c.alerter.Alert(MsgCopied)
	}
}

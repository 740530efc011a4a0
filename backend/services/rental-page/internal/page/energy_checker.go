package page

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"energyrental/backend/services/rental-page/internal/models"
	"energyrental/backend/services/rental-page/internal/view"
)

// EnergyChecker reports whether the entered address already holds enough energy.
type EnergyChecker struct {
	page     *Page
	source   EnergySource
	observer Observer
	logger   *zap.Logger
}

// NewEnergyChecker builds a checker over the page energy elements.
func NewEnergyChecker(p *Page, source EnergySource, observer Observer, logger *zap.Logger) *EnergyChecker {
	if observer == nil {
		observer = nopObserver{}
	}
	return &EnergyChecker{page: p, source: source, observer: observer, logger: logger}
}

// Check runs one energy query for the address input. An empty input is rejected with an
// alert before any request is made.
func (e *EnergyChecker) Check(ctx context.Context) {
	var address string
	if e.page.AddressInput != nil {
		address = strings.TrimSpace(e.page.AddressInput.Value())
	}
	if address == "" {
		e.observer.EnergyChecked(EnergyOutcomeNoAddress)
		if e.page.Alerter != nil {
			e.page.Alerter.Alert(MsgEnterAddress)
		}
		return
	}
	if e.page.EnergyStatus == nil {
		return
	}

	resp, err := e.source.EnergyStatus(ctx, address)
	if err != nil {
		e.logger.Error("check energy status failed", zap.String("address", address), zap.Error(err))
		e.observer.EnergyChecked(EnergyOutcomeError)
		e.page.EnergyStatus.Render(view.Notice{Tone: view.ToneDanger, Text: MsgEnergyCheckFail})
		return
	}
	if resp.Status != models.EnergyStatusSuccess {
		e.logger.Warn("energy status unavailable",
			zap.String("address", address),
			zap.String("status", resp.Status),
			zap.String("message", resp.Message),
		)
		e.observer.EnergyChecked(EnergyOutcomeUnavailable)
		e.page.EnergyStatus.Render(view.Notice{Tone: view.ToneDanger, Text: MsgEnergyNoInfo})
		return
	}

	tone := view.ToneWarning
	if resp.HasEnough {
		tone = view.ToneSuccess
	}
	e.page.EnergyStatus.Render(view.Notice{
		Tone:  tone,
		Text:  MsgCurrentEnergy,
		Value: strconv.FormatInt(resp.Energy, 10),
	})

	if resp.HasEnough {
		e.observer.EnergyChecked(EnergyOutcomeEnough)
		if e.page.EnergyMessage != nil {
			e.page.EnergyMessage.Render(view.Notice{Tone: view.ToneInfo, Text: MsgEnoughEnergy})
		}
		if e.page.RentButton != nil {
			e.page.RentButton.SetDisabled(true)
		}
		return
	}

	e.observer.EnergyChecked(EnergyOutcomeInsufficient)
	if e.page.EnergyMessage != nil {
		e.page.EnergyMessage.Render(view.Notice{Tone: view.ToneSuccess, Text: MsgCanRent})
	}
	if e.page.RentButton != nil {
		e.page.RentButton.SetDisabled(false)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"energyrental/backend/libs/logging"
	"energyrental/backend/services/rental-page/internal/clients"
	"energyrental/backend/services/rental-page/internal/config"
	"energyrental/backend/services/rental-page/internal/models"
	"energyrental/backend/services/rental-page/internal/page"
	"energyrental/backend/services/rental-page/internal/schedule"
	"energyrental/backend/services/rental-page/internal/terminal"
)

func main() {
	address := flag.String("address", "", "TRON address to watch for payment")
	energy := flag.String("energy", "", "TRON address to check energy for")
	copyText := flag.String("copy", "", "text to copy to the clipboard")
	baseURL := flag.String("base-url", "", "rental backend base url (overrides RENTAL_BACKEND_URL)")
	flag.Parse()

	if *address == "" && *energy == "" && *copyText == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *address != "" && !models.IsTronAddress(*address) {
		fmt.Fprintf(os.Stderr, "invalid TRON address %q\n", *address)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logging.NewLoggerWithOptions(logging.Options{Console: true, Name: "rental-watch"})
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if *baseURL != "" {
		cfg.Backend.BaseURL = *baseURL
		if err := cfg.Validate(); err != nil {
			logger.Fatal("invalid base url", zap.Error(err))
		}
	}

	rentalClient := clients.NewRentalClient(cfg.Backend.BaseURL, clients.NewDefaultHTTPClient(cfg.BackendTimeout())).
		WithBearer(cfg.Backend.Token)

	opts := terminal.Options{
		PaymentAddress: *address,
		EnergyAddress:  *energy,
	}
	if *copyText != "" {
		opts.Copy = []string{*copyText}
	}
	pg := terminal.NewPage(os.Stdout, os.Stderr, opts)

	controller := page.NewController(pg, page.Deps{
		Payments:  rentalClient,
		Energy:    rentalClient,
		Scheduler: schedule.NewSystem(),
		Poller:    cfg.PollerConfig(),
		Logger:    logger,
	})
	defer controller.Close()

	controller.Ready(ctx)
	if len(pg.CopyButtons) > 0 {
		if err := controller.ClickCopy(ctx, 0); err != nil {
			logger.Error("copy failed", zap.Error(err))
		}
	}
	if *energy != "" {
		controller.CheckEnergy(ctx)
	}
	if *address == "" {
		return
	}

	waitForExpiry(ctx, controller, logger)
}

// waitForExpiry blocks until the poll chain settles and no countdown is running. A
// successful payment starts the countdown right after the state flips, so success only
// counts once the countdown has been seen running.
func waitForExpiry(ctx context.Context, c *page.Controller, logger *zap.Logger) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	counted := false
	for {
		select {
		case <-ctx.Done():
			logger.Info("interrupted", zap.String("state", string(c.PaymentState())))
			return
		case <-ticker.C:
			state := c.PaymentState()
			if _, running := c.CountdownRemaining(); running {
				counted = true
				continue
			}
			if !state.Terminal() || (state == page.StateSuccess && !counted) {
				continue
			}
			logger.Info("watch finished", zap.String("state", string(state)))
			return
		}
	}
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"energyrental/backend/services/rental-page/internal/models"
	"energyrental/backend/services/rental-page/internal/store"
)

// SnapshotReader loads the last payment snapshot of an address.
type SnapshotReader interface {
	GetPayment(ctx context.Context, address string) (*models.PaymentSnapshot, error)
}

// NewWatchHandler returns GET /api/watch/{address} handler.
func NewWatchHandler(snapshots SnapshotReader, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := r.PathValue("address")
		if !models.IsTronAddress(address) {
			writeError(w, http.StatusBadRequest, "invalid tron address")
			return
		}
		snap, err := snapshots.GetPayment(r.Context(), address)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no payment status recorded")
			return
		}
		if err != nil {
			logger.Error("load payment snapshot failed", zap.String("address", address), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load payment status")
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

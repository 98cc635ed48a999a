package workers

import (
	"context"
	"log"
	"time"

	"gaurosa-backend/api-service/services"
)

const workerBatchSize = 50

// CustomerSyncWorker periodically re-drives customers whose MazGest push
// is still pending or previously failed.
type CustomerSyncWorker struct {
	service  *services.CustomerSyncService
	interval time.Duration
}

// NewCustomerSyncWorker creates the background sync poller
func NewCustomerSyncWorker(service *services.CustomerSyncService, interval time.Duration) *CustomerSyncWorker {
	return &CustomerSyncWorker{
		service:  service,
		interval: interval,
	}
}

// Start runs the poll loop until the context is cancelled.
func (w *CustomerSyncWorker) Start(ctx context.Context) {
	log.Printf("🔄 Customer sync worker started (interval %s)", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Customer sync worker stopped")
			return
		case <-ticker.C:
			w.runOnce()
		}
	}
}

func (w *CustomerSyncWorker) runOnce() {
	synced, failed := w.service.PushPending(workerBatchSize)
	if synced > 0 || failed > 0 {
		log.Printf("🔄 Customer sync pass completed: %d synced, %d failed", synced, failed)
	}
}

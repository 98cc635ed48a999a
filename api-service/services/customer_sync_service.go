package services

import (
	"fmt"
	"log"
	"time"

	"gaurosa-backend/shared/clients"
	"gaurosa-backend/shared/database/models"

	"gorm.io/gorm"
)

// CustomerSyncService pushes verified customers to MazGest and keeps the
// per-row sync state up to date. The same code path serves the inline
// trigger after verification and the background poller.
type CustomerSyncService struct {
	db     *gorm.DB
	client *clients.MazGestClient
}

// NewCustomerSyncService creates a customer sync service
func NewCustomerSyncService(db *gorm.DB, client *clients.MazGestClient) *CustomerSyncService {
	return &CustomerSyncService{db: db, client: client}
}

// Push sends one customer to MazGest and records the outcome on the row.
func (s *CustomerSyncService) Push(customerID uint) error {
	var customer models.Customer
	if err := s.db.First(&customer, customerID).Error; err != nil {
		return fmt.Errorf("customer %d not found: %w", customerID, err)
	}

	if !customer.EmailVerified {
		return fmt.Errorf("customer %d is not verified", customerID)
	}

	if err := s.db.Model(&customer).Update("sync_status", models.SyncStatusSyncing).Error; err != nil {
		return err
	}

	result, err := s.client.SyncCustomer(clients.BuildCustomerPayload(&customer))
	if err != nil {
		message := err.Error()
		s.db.Model(&customer).Updates(map[string]interface{}{
			"sync_status":     models.SyncStatusError,
			"last_sync_error": message,
		})
		log.Printf("❌ Customer sync failed for %s: %v", customer.Email, err)
		return err
	}

	now := time.Now()
	if err := s.db.Model(&customer).Updates(map[string]interface{}{
		"mazgest_id":      result.MazgestID,
		"sync_status":     models.SyncStatusSynced,
		"synced_at":       now,
		"last_sync_error": nil,
	}).Error; err != nil {
		return err
	}

	log.Printf("✅ Customer %s synced to MazGest (id %d, new=%v)", customer.Email, result.MazgestID, result.IsNew)
	return nil
}

// TriggerAsync fires a push in the background. Failures are recorded on
// the customer row and retried by the poller.
func (s *CustomerSyncService) TriggerAsync(customerID uint) {
	go func() {
		if err := s.Push(customerID); err != nil {
			log.Printf("🔄 Customer %d left for sync retry: %v", customerID, err)
		}
	}()
}

// PushPending re-drives every verified customer still marked pending or
// error, oldest first. Returns how many synced and how many failed.
func (s *CustomerSyncService) PushPending(limit int) (synced, failed int) {
	var customers []models.Customer
	err := s.db.
		Where("email_verified = ? AND sync_status IN ?", true, []string{models.SyncStatusPending, models.SyncStatusError}).
		Order("created_at ASC").
		Limit(limit).
		Find(&customers).Error
	if err != nil {
		log.Printf("❌ Failed to load pending customers: %v", err)
		return 0, 0
	}

	for _, customer := range customers {
		if err := s.Push(customer.ID); err != nil {
			failed++
		} else {
			synced++
		}
	}
	return synced, failed
}

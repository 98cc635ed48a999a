package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gaurosa-backend/shared/clients"
	"gaurosa-backend/shared/database/models"
)

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newSyncService(t *testing.T, db *gorm.DB, handler http.HandlerFunc) *CustomerSyncService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewCustomerSyncService(db, clients.NewMazGestClient(server.URL, "test-key"))
}

func seedCustomer(t *testing.T, db *gorm.DB, email string, verified bool, syncStatus string) *models.Customer {
	t.Helper()

	customer := models.Customer{Email: email, EmailVerified: verified, SyncStatus: syncStatus}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
	return &customer
}

func TestPushRecordsSuccess(t *testing.T) {
	db := newServiceDB(t)
	var gotKey string
	service := newSyncService(t, db, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success": true, "isNew": true, "mazgestId": 321}`)
	})
	customer := seedCustomer(t, db, "maria@example.com", true, models.SyncStatusPending)

	if err := service.Push(customer.ID); err != nil {
		t.Fatalf("push: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}

	var synced models.Customer
	db.First(&synced, customer.ID)
	if synced.SyncStatus != models.SyncStatusSynced {
		t.Errorf("sync_status = %s", synced.SyncStatus)
	}
	if synced.MazgestID == nil || *synced.MazgestID != 321 {
		t.Errorf("mazgest_id = %v", synced.MazgestID)
	}
	if synced.SyncedAt == nil {
		t.Error("synced_at not set")
	}
	if synced.LastSyncError != nil {
		t.Errorf("last_sync_error = %v", *synced.LastSyncError)
	}
}

func TestPushRecordsFailure(t *testing.T) {
	db := newServiceDB(t)
	service := newSyncService(t, db, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	customer := seedCustomer(t, db, "maria@example.com", true, models.SyncStatusPending)

	if err := service.Push(customer.ID); err == nil {
		t.Fatal("push should fail on upstream error")
	}

	var errored models.Customer
	db.First(&errored, customer.ID)
	if errored.SyncStatus != models.SyncStatusError {
		t.Errorf("sync_status = %s", errored.SyncStatus)
	}
	if errored.LastSyncError == nil {
		t.Error("last_sync_error not recorded")
	}
}

func TestPushRefusesUnverified(t *testing.T) {
	db := newServiceDB(t)
	called := false
	service := newSyncService(t, db, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	customer := seedCustomer(t, db, "guest@example.com", false, models.SyncStatusPending)

	if err := service.Push(customer.ID); err == nil {
		t.Fatal("unverified customer must not sync")
	}
	if called {
		t.Error("unverified customer reached MazGest")
	}
}

func TestPushPendingRedrivesErrorRows(t *testing.T) {
	db := newServiceDB(t)
	nextID := 400
	service := newSyncService(t, db, func(w http.ResponseWriter, r *http.Request) {
		nextID++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"success": true, "mazgestId": %d}`, nextID)
	})

	seedCustomer(t, db, "pending@example.com", true, models.SyncStatusPending)
	seedCustomer(t, db, "errored@example.com", true, models.SyncStatusError)
	seedCustomer(t, db, "done@example.com", true, models.SyncStatusSynced)
	seedCustomer(t, db, "unverified@example.com", false, models.SyncStatusPending)

	synced, failed := service.PushPending(50)
	if synced != 2 || failed != 0 {
		t.Errorf("synced = %d, failed = %d; want 2, 0", synced, failed)
	}

	var remaining int64
	db.Model(&models.Customer{}).
		Where("email_verified = ? AND sync_status IN ?", true, []string{models.SyncStatusPending, models.SyncStatusError}).
		Count(&remaining)
	if remaining != 0 {
		t.Errorf("pending rows left = %d", remaining)
	}
}

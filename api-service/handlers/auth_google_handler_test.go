package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"gaurosa-backend/shared/clients"
	"gaurosa-backend/shared/database/models"
	utils "gaurosa-backend/shared/utils/auth"
)

func googleRouter(h *AuthHandler) *gin.Engine {
	router := gin.New()
	router.POST("/api/auth/google", h.GoogleAuth)
	return router
}

func TestGoogleAuthCreatesVerifiedCustomer(t *testing.T) {
	db := newTestDB(t)
	google := &fakeGoogle{info: &clients.GoogleTokenInfo{
		Sub:        "google-sub-1",
		Email:      "Lucia@Example.com",
		GivenName:  "Lucia",
		FamilyName: "Verdi",
		Picture:    "https://lh3.googleusercontent.com/a/photo",
	}}
	h := newAuthHandler(t, db, google)
	router := googleRouter(h)

	recorder := doJSON(router, http.MethodPost, "/api/auth/google", gin.H{"credential": "fake-id-token"})
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	body := decodeBody(t, recorder)
	if body["isNew"] != true {
		t.Error("expected isNew true for a first Google sign-in")
	}
	if responseCookie(recorder, "gaurosa_auth") == nil || responseCookie(recorder, "gaurosa_refresh") == nil {
		t.Error("session cookies not set")
	}

	var customer models.Customer
	if err := db.Where("email = ?", "lucia@example.com").First(&customer).Error; err != nil {
		t.Fatalf("customer not created: %v", err)
	}
	if !customer.EmailVerified || customer.EmailVerifiedAt == nil {
		t.Error("Google customer should be verified immediately")
	}
	if customer.AuthProvider != models.AuthProviderGoogle || customer.ProviderID == nil || *customer.ProviderID != "google-sub-1" {
		t.Errorf("provider not recorded: %s %v", customer.AuthProvider, customer.ProviderID)
	}
	if !customer.PrivacyConsent || customer.ConsentedAt == nil {
		t.Error("privacy consent not recorded")
	}
	if customer.FirstName == nil || *customer.FirstName != "Lucia" {
		t.Error("profile names not taken from the token")
	}

	if !waitFor(t, 2*time.Second, func() bool {
		var refreshed models.Customer
		db.First(&refreshed, customer.ID)
		return refreshed.SyncStatus == models.SyncStatusSynced
	}) {
		t.Error("new Google customer was not pushed to MazGest")
	}
}

func TestGoogleAuthLinksExistingAccount(t *testing.T) {
	db := newTestDB(t)
	google := &fakeGoogle{info: &clients.GoogleTokenInfo{
		Sub:        "google-sub-2",
		Email:      "maria@example.com",
		GivenName:  "Ignored",
		FamilyName: "Neri",
		Picture:    "https://lh3.googleusercontent.com/a/photo",
	}}
	h := newAuthHandler(t, db, google)
	existing := seedVerifiedCustomer(t, h, "maria@example.com", "Password1")
	db.Model(existing).Updates(map[string]interface{}{
		"first_name": "Maria",
		"last_name":  nil,
	})
	router := googleRouter(h)

	recorder := doJSON(router, http.MethodPost, "/api/auth/google", gin.H{"credential": "fake-id-token"})
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	body := decodeBody(t, recorder)
	if body["isNew"] != false {
		t.Error("linking an existing account must not report isNew")
	}

	var linked models.Customer
	db.First(&linked, existing.ID)
	if linked.AuthProvider != models.AuthProviderGoogle || linked.ProviderID == nil || *linked.ProviderID != "google-sub-2" {
		t.Error("Google identity not linked")
	}
	// Existing fields stay, empty ones are backfilled from the token.
	if linked.FirstName == nil || *linked.FirstName != "Maria" {
		t.Error("existing first name was overwritten")
	}
	if linked.LastName == nil || *linked.LastName != "Neri" {
		t.Error("empty last name was not backfilled")
	}
	if linked.Password == nil || !utils.CheckPasswordHash("Password1", *linked.Password) {
		t.Error("local password lost during Google link")
	}

	var count int64
	db.Model(&models.Customer{}).Where("email = ?", "maria@example.com").Count(&count)
	if count != 1 {
		t.Errorf("customer rows = %d, want 1", count)
	}
}

func TestGoogleAuthVerifiesUnverifiedAccount(t *testing.T) {
	db := newTestDB(t)
	google := &fakeGoogle{info: &clients.GoogleTokenInfo{
		Sub:   "google-sub-3",
		Email: "paolo@example.com",
	}}
	h := newAuthHandler(t, db, google)
	router := googleRouter(h)

	token := "pending-verification"
	expires := time.Now().Add(24 * time.Hour)
	hash, _ := utils.HashPassword("Password1")
	customer := models.Customer{
		Email:             "paolo@example.com",
		Password:          &hash,
		AuthProvider:      models.AuthProviderEmail,
		VerificationToken: &token,
		TokenExpiresAt:    &expires,
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	recorder := doJSON(router, http.MethodPost, "/api/auth/google", gin.H{"credential": "fake-id-token"})
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	var linked models.Customer
	db.First(&linked, customer.ID)
	if !linked.EmailVerified || linked.EmailVerifiedAt == nil {
		t.Error("Google sign-in should verify the email")
	}
	if linked.VerificationToken != nil || linked.TokenExpiresAt != nil {
		t.Error("pending verification token not cleared")
	}
}

func TestGoogleAuthRejectsBadToken(t *testing.T) {
	h := newAuthHandler(t, newTestDB(t), nil)
	router := googleRouter(h)

	recorder := doJSON(router, http.MethodPost, "/api/auth/google", gin.H{"credential": "bogus"})
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("invalid token status = %d", recorder.Code)
	}

	empty := doJSON(router, http.MethodPost, "/api/auth/google", gin.H{})
	if empty.Code != http.StatusBadRequest {
		t.Errorf("missing credential status = %d", empty.Code)
	}
}

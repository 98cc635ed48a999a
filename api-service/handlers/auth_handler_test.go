package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"gaurosa-backend/api-service/middleware"
	"gaurosa-backend/shared/database/models"
	authmodels "gaurosa-backend/shared/database/models/auth"
	utils "gaurosa-backend/shared/utils/auth"
)

func authRouter(h *AuthHandler) *gin.Engine {
	router := gin.New()
	router.POST("/api/auth/register", h.Register)
	router.POST("/api/auth/login", h.Login)
	router.POST("/api/auth/logout", h.Logout)
	router.GET("/api/auth/me", h.Me)
	router.PUT("/api/auth/me", middleware.AuthMiddleware(), h.UpdateProfile)
	return router
}

func seedVerifiedCustomer(t *testing.T, h *AuthHandler, email, password string) *models.Customer {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	firstName := "Maria"
	customer := models.Customer{
		Email:         email,
		Password:      &hash,
		FirstName:     &firstName,
		AuthProvider:  models.AuthProviderEmail,
		EmailVerified: true,
		SyncStatus:    models.SyncStatusSynced,
	}
	if err := h.db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return &customer
}

func TestRegisterCreatesUnverifiedCustomer(t *testing.T) {
	h := newAuthHandler(t, newTestDB(t), nil)
	router := authRouter(h)

	recorder := doJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"email":          "New.User@Example.com",
		"password":       "Password1",
		"firstName":      "Luca",
		"lastName":       "Bianchi",
		"privacyConsent": true,
	})

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	body := decodeBody(t, recorder)
	if body["requiresVerification"] != true {
		t.Error("requiresVerification missing")
	}

	var customer models.Customer
	if err := h.db.Where("email = ?", "new.user@example.com").First(&customer).Error; err != nil {
		t.Fatalf("customer not created: %v", err)
	}
	if customer.EmailVerified {
		t.Error("customer created verified")
	}
	if customer.VerificationToken == nil || customer.TokenExpiresAt == nil {
		t.Error("verification token not set")
	}
	if customer.SyncStatus != models.SyncStatusPending {
		t.Errorf("sync status = %s", customer.SyncStatus)
	}
	if customer.Password == nil || !utils.CheckPasswordHash("Password1", *customer.Password) {
		t.Error("password not stored as a valid hash")
	}
}

func TestRegisterValidationErrors(t *testing.T) {
	h := newAuthHandler(t, newTestDB(t), nil)
	router := authRouter(h)

	recorder := doJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"email":     "not-an-email",
		"password":  "weak",
		"firstName": "",
		"lastName":  "Bianchi",
	})

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", recorder.Code)
	}
	body := decodeBody(t, recorder)
	errors, ok := body["errors"].(map[string]interface{})
	if !ok {
		t.Fatalf("no field errors in %v", body)
	}
	for _, field := range []string{"email", "password", "firstName", "privacyConsent"} {
		if _, present := errors[field]; !present {
			t.Errorf("missing error for field %s", field)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newAuthHandler(t, newTestDB(t), nil)
	seedVerifiedCustomer(t, h, "taken@example.com", "Password1")
	router := authRouter(h)

	recorder := doJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"email":          "taken@example.com",
		"password":       "Password1",
		"firstName":      "Luca",
		"lastName":       "Bianchi",
		"privacyConsent": true,
	})

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", recorder.Code)
	}
	body := decodeBody(t, recorder)
	errors, _ := body["errors"].(map[string]interface{})
	if errors["email"] == nil {
		t.Errorf("expected email field error, got %v", body)
	}
}

func TestRegisterUpgradesGuestRecord(t *testing.T) {
	h := newAuthHandler(t, newTestDB(t), nil)
	router := authRouter(h)

	// Guest checkout row: no password.
	guest := models.Customer{
		Email:       "guest@example.com",
		FromWebsite: true,
		SyncStatus:  models.SyncStatusSynced,
	}
	if err := h.db.Create(&guest).Error; err != nil {
		t.Fatalf("seed guest: %v", err)
	}

	recorder := doJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"email":          "guest@example.com",
		"password":       "Password1",
		"firstName":      "Luca",
		"lastName":       "Bianchi",
		"privacyConsent": true,
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	var upgraded models.Customer
	if err := h.db.Where("email = ?", "guest@example.com").First(&upgraded).Error; err != nil {
		t.Fatalf("guest row gone: %v", err)
	}
	if upgraded.ID != guest.ID {
		t.Errorf("guest upgrade changed id: %d -> %d", guest.ID, upgraded.ID)
	}
	if !upgraded.HasPassword() {
		t.Error("password not set on guest row")
	}
	if upgraded.EmailVerified {
		t.Error("guest upgrade must require verification")
	}
	if upgraded.VerificationToken == nil {
		t.Error("verification token not set")
	}
	if upgraded.SyncStatus != models.SyncStatusPending {
		t.Errorf("sync status = %s", upgraded.SyncStatus)
	}

	var count int64
	h.db.Model(&models.Customer{}).Where("email = ?", "guest@example.com").Count(&count)
	if count != 1 {
		t.Errorf("duplicate rows for guest email: %d", count)
	}
}

func TestRegisterAddsPasswordToGoogleAccount(t *testing.T) {
	h := newAuthHandler(t, newTestDB(t), nil)
	router := authRouter(h)

	// Verified Google account, no password yet.
	now := time.Now()
	google := models.Customer{
		Email:           "maria@example.com",
		AuthProvider:    models.AuthProviderGoogle,
		ProviderID:      strptr("goog-12345"),
		EmailVerified:   true,
		EmailVerifiedAt: &now,
		PrivacyConsent:  true,
		ConsentedAt:     &now,
		SyncStatus:      models.SyncStatusSynced,
	}
	if err := h.db.Create(&google).Error; err != nil {
		t.Fatalf("seed google account: %v", err)
	}

	recorder := doJSON(router, http.MethodPost, "/api/auth/register", gin.H{
		"email":          "maria@example.com",
		"password":       "Password1",
		"firstName":      "Maria",
		"lastName":       "Neri",
		"privacyConsent": true,
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	body := decodeBody(t, recorder)
	if body["requiresVerification"] != false {
		t.Errorf("verified account must not be asked to verify again: %v", body)
	}

	var upgraded models.Customer
	if err := h.db.Where("email = ?", "maria@example.com").First(&upgraded).Error; err != nil {
		t.Fatalf("row gone: %v", err)
	}
	if upgraded.ID != google.ID {
		t.Errorf("upgrade changed id: %d -> %d", google.ID, upgraded.ID)
	}
	if !upgraded.HasPassword() {
		t.Error("password not set")
	}
	if !upgraded.EmailVerified || upgraded.EmailVerifiedAt == nil {
		t.Error("adding a password must not demote a verified account")
	}
	if upgraded.AuthProvider != models.AuthProviderGoogle {
		t.Errorf("auth provider = %q, want google kept", upgraded.AuthProvider)
	}
	if upgraded.ProviderID == nil || *upgraded.ProviderID != "goog-12345" {
		t.Errorf("provider id = %v, want goog-12345 kept", upgraded.ProviderID)
	}
	if upgraded.VerificationToken != nil {
		t.Error("no verification token should be issued for a verified account")
	}
	if upgraded.SyncStatus != models.SyncStatusPending {
		t.Errorf("sync status = %s, want pending", upgraded.SyncStatus)
	}
}

func TestLoginDoesNotRevealAccounts(t *testing.T) {
	h := newAuthHandler(t, newTestDB(t), nil)
	seedVerifiedCustomer(t, h, "known@example.com", "Password1")
	router := authRouter(h)

	unknown := doJSON(router, http.MethodPost, "/api/auth/login", gin.H{
		"email": "nobody@example.com", "password": "Password1",
	})
	wrongPassword := doJSON(router, http.MethodPost, "/api/auth/login", gin.H{
		"email": "known@example.com", "password": "WrongPass1",
	})

	if unknown.Code != http.StatusUnauthorized || wrongPassword.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d", unknown.Code, wrongPassword.Code)
	}
	if unknown.Body.String() != wrongPassword.Body.String() {
		t.Errorf("responses differ: %s vs %s", unknown.Body.String(), wrongPassword.Body.String())
	}
}

func TestLoginUnverified(t *testing.T) {
	h := newAuthHandler(t, newTestDB(t), nil)
	router := authRouter(h)

	hash, _ := utils.HashPassword("Password1")
	customer := models.Customer{Email: "fresh@example.com", Password: &hash}
	if err := h.db.Create(&customer).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	recorder := doJSON(router, http.MethodPost, "/api/auth/login", gin.H{
		"email": "fresh@example.com", "password": "Password1",
	})
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d", recorder.Code)
	}
	body := decodeBody(t, recorder)
	if body["requiresVerification"] != true {
		t.Error("requiresVerification missing")
	}
	if body["email"] != "fresh@example.com" {
		t.Errorf("email = %v", body["email"])
	}
}

func TestLoginSuccessOpensSession(t *testing.T) {
	h := newAuthHandler(t, newTestDB(t), nil)
	customer := seedVerifiedCustomer(t, h, "maria@example.com", "Password1")
	router := authRouter(h)

	recorder := doJSON(router, http.MethodPost, "/api/auth/login", gin.H{
		"email": "Maria@Example.com", "password": "Password1",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	access := responseCookie(recorder, "gaurosa_auth")
	refresh := responseCookie(recorder, "gaurosa_refresh")
	if access == nil || access.Value == "" {
		t.Fatal("access cookie missing")
	}
	if refresh == nil || refresh.Value == "" {
		t.Fatal("refresh cookie missing")
	}
	if !access.HttpOnly || !refresh.HttpOnly {
		t.Error("cookies must be httpOnly")
	}

	claims, err := utils.ValidateAccessToken(access.Value)
	if err != nil {
		t.Fatalf("access cookie is not a valid token: %v", err)
	}
	if claims.CustomerID != customer.ID {
		t.Errorf("token customer = %d, want %d", claims.CustomerID, customer.ID)
	}

	var record authmodels.RefreshToken
	if err := h.db.Where("token = ?", refresh.Value).First(&record).Error; err != nil {
		t.Fatalf("refresh token not persisted: %v", err)
	}
	if record.CustomerID != customer.ID || !record.IsValid() {
		t.Error("refresh token row invalid")
	}

	var updated models.Customer
	h.db.First(&updated, customer.ID)
	if updated.LastLoginAt == nil {
		t.Error("lastLoginAt not set")
	}
}

func TestMeAccessAndRefreshPaths(t *testing.T) {
	h := newAuthHandler(t, newTestDB(t), nil)
	seedVerifiedCustomer(t, h, "maria@example.com", "Password1")
	router := authRouter(h)

	login := doJSON(router, http.MethodPost, "/api/auth/login", gin.H{
		"email": "maria@example.com", "password": "Password1",
	})
	access := responseCookie(login, "gaurosa_auth")
	refresh := responseCookie(login, "gaurosa_refresh")

	// Access cookie fast path.
	me := doJSON(router, http.MethodGet, "/api/auth/me", nil, access)
	if me.Code != http.StatusOK {
		t.Fatalf("me with access cookie = %d", me.Code)
	}

	// Refresh fallback mints a new access cookie.
	renewed := doJSON(router, http.MethodGet, "/api/auth/me", nil, refresh)
	if renewed.Code != http.StatusOK {
		t.Fatalf("me with refresh cookie = %d, body %s", renewed.Code, renewed.Body.String())
	}
	if cookie := responseCookie(renewed, "gaurosa_auth"); cookie == nil || cookie.Value == "" {
		t.Error("refresh path did not mint a new access cookie")
	}

	// No cookies at all.
	anonymous := doJSON(router, http.MethodGet, "/api/auth/me", nil)
	if anonymous.Code != http.StatusUnauthorized {
		t.Errorf("me without cookies = %d", anonymous.Code)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	h := newAuthHandler(t, newTestDB(t), nil)
	seedVerifiedCustomer(t, h, "maria@example.com", "Password1")
	router := authRouter(h)

	login := doJSON(router, http.MethodPost, "/api/auth/login", gin.H{
		"email": "maria@example.com", "password": "Password1",
	})
	refresh := responseCookie(login, "gaurosa_refresh")

	logout := doJSON(router, http.MethodPost, "/api/auth/logout", nil, refresh)
	if logout.Code != http.StatusOK {
		t.Fatalf("logout = %d", logout.Code)
	}

	var record authmodels.RefreshToken
	if err := h.db.Where("token = ?", refresh.Value).First(&record).Error; err != nil {
		t.Fatalf("refresh row gone: %v", err)
	}
	if record.RevokedAt == nil {
		t.Error("refresh token not revoked")
	}

	// Logout without any cookie still succeeds.
	again := doJSON(router, http.MethodPost, "/api/auth/logout", nil)
	if again.Code != http.StatusOK {
		t.Errorf("cookieless logout = %d", again.Code)
	}

	// The revoked session no longer renews.
	me := doJSON(router, http.MethodGet, "/api/auth/me", nil, refresh)
	if me.Code != http.StatusUnauthorized {
		t.Errorf("me with revoked refresh = %d", me.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	h := newAuthHandler(t, newTestDB(t), nil)
	customer := seedVerifiedCustomer(t, h, "maria@example.com", "Password1")
	router := authRouter(h)

	login := doJSON(router, http.MethodPost, "/api/auth/login", gin.H{
		"email": "maria@example.com", "password": "Password1",
	})
	access := responseCookie(login, "gaurosa_auth")

	bad := doJSON(router, http.MethodPut, "/api/auth/me", gin.H{
		"codiceFiscale": "RSSMRA85T10A562Z",
	}, access)
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("invalid codice fiscale accepted: %d", bad.Code)
	}

	good := doJSON(router, http.MethodPut, "/api/auth/me", gin.H{
		"phone":          "3331234567",
		"codiceFiscale":  "RSSMRA85T10A562S",
		"billingCity":    "Milano",
		"billingCountry": "IT",
	}, access)
	if good.Code != http.StatusOK {
		t.Fatalf("update = %d, body %s", good.Code, good.Body.String())
	}

	var updated models.Customer
	h.db.First(&updated, customer.ID)
	if updated.Phone == nil || *updated.Phone != "3331234567" {
		t.Error("phone not updated")
	}
	if updated.BillingCity == nil || *updated.BillingCity != "Milano" {
		t.Error("billing city not updated")
	}

	// Profile edits must be queued for MazGest again.
	ok := waitFor(t, time.Second, func() bool {
		var current models.Customer
		h.db.First(&current, customer.ID)
		return current.SyncStatus == models.SyncStatusSynced
	})
	if !ok {
		t.Error("profile edit did not re-sync the customer")
	}
}

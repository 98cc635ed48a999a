package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gaurosa-backend/api-service/middleware"
	"gaurosa-backend/api-service/services"
	"gaurosa-backend/shared/config"
	"gaurosa-backend/shared/database/models"
	authmodels "gaurosa-backend/shared/database/models/auth"
	utils "gaurosa-backend/shared/utils/auth"
	"gaurosa-backend/shared/utils/mail"
)

// AuthHandler serves the customer auth endpoints.
type AuthHandler struct {
	db          *gorm.DB
	mailer      *mail.Mailer
	syncService *services.CustomerSyncService
	google      GoogleVerifier
}

// NewAuthHandler creates an auth handler with its collaborators
func NewAuthHandler(db *gorm.DB, mailer *mail.Mailer, syncService *services.CustomerSyncService, google GoogleVerifier) *AuthHandler {
	return &AuthHandler{
		db:          db,
		mailer:      mailer,
		syncService: syncService,
		google:      google,
	}
}

// Register request struct
type RegisterRequest struct {
	Email            string  `json:"email"`
	Password         string  `json:"password"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Phone            *string `json:"phone"`
	PrivacyConsent   bool    `json:"privacyConsent"`
	MarketingConsent bool    `json:"marketingConsent"`
}

// Login request struct
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserInfo is the customer profile returned by auth endpoints.
type UserInfo struct {
	ID            uint    `json:"id"`
	Email         string  `json:"email"`
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	Phone         *string `json:"phone"`
	AvatarURL     *string `json:"avatarUrl"`
	EmailVerified bool    `json:"emailVerified"`
}

func buildUserInfo(customer *models.Customer) UserInfo {
	return UserInfo{
		ID:            customer.ID,
		Email:         customer.Email,
		FirstName:     customer.FirstName,
		LastName:      customer.LastName,
		Phone:         customer.Phone,
		AvatarURL:     customer.AvatarURL,
		EmailVerified: customer.EmailVerified,
	}
}

// POST /api/auth/register
// @Summary Register a new customer
// @Description Create a customer account, or complete a guest checkout record that has no password yet
// @Tags auth
// @Accept json
// @Produce json
// @Param register body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{} "Account created, verification required"
// @Failure 400 {object} map[string]interface{} "Validation errors"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Richiesta non valida"})
		return
	}

	req.Email = utils.NormalizeEmail(req.Email)

	fieldErrors := map[string]string{}
	if !utils.ValidateEmail(req.Email) {
		fieldErrors["email"] = "Indirizzo email non valido"
	}
	if msg := utils.ValidatePassword(req.Password); msg != "" {
		fieldErrors["password"] = msg
	}
	if req.FirstName == "" {
		fieldErrors["firstName"] = "Il nome è obbligatorio"
	}
	if req.LastName == "" {
		fieldErrors["lastName"] = "Il cognome è obbligatorio"
	}
	if req.Phone != nil && *req.Phone != "" && !utils.ValidateItalianPhone(*req.Phone) {
		fieldErrors["phone"] = "Numero di telefono non valido"
	}
	if !req.PrivacyConsent {
		fieldErrors["privacyConsent"] = "Devi accettare l'informativa sulla privacy"
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": fieldErrors})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
		return
	}

	verificationToken, err := utils.GenerateToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
		return
	}
	tokenExpiry := time.Now().Add(config.GetConfig().GetVerificationTokenExpire())
	now := time.Now()

	var existing models.Customer
	err = h.db.Where("email = ?", req.Email).First(&existing).Error

	switch {
	case err == nil && existing.HasPassword():
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  map[string]string{"email": "Email già registrata"},
		})
		return

	case err == nil:
		// Passwordless record (guest checkout or Google account): add the
		// password in place, keeping the id so existing orders stay
		// attached. Verification state and auth provider are untouched, a
		// verified Google account must stay verified.
		updates := map[string]interface{}{
			"password":          hash,
			"first_name":        req.FirstName,
			"last_name":         req.LastName,
			"privacy_consent":   req.PrivacyConsent,
			"marketing_consent": req.MarketingConsent,
			"consented_at":      now,
			"sync_status":       models.SyncStatusPending,
		}
		if req.Phone != nil && *req.Phone != "" {
			updates["phone"] = *req.Phone
		}
		if !existing.EmailVerified {
			updates["verification_token"] = verificationToken
			updates["token_expires_at"] = tokenExpiry
		}
		if err := h.db.Model(&existing).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
			return
		}
		if existing.EmailVerified {
			h.syncService.TriggerAsync(existing.ID)
			c.JSON(http.StatusCreated, gin.H{
				"success":              true,
				"requiresVerification": false,
				"message":              "Account aggiornato. Ora puoi accedere anche con la password.",
			})
			return
		}
		h.sendVerificationAsync(req.Email, req.FirstName, verificationToken)
		c.JSON(http.StatusCreated, gin.H{
			"success":              true,
			"requiresVerification": true,
			"message":              "Registrazione completata. Controlla la tua email per confermare l'account.",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		customer := models.Customer{
			Email:             req.Email,
			Password:          &hash,
			FirstName:         &req.FirstName,
			LastName:          &req.LastName,
			Phone:             req.Phone,
			AuthProvider:      models.AuthProviderEmail,
			VerificationToken: &verificationToken,
			TokenExpiresAt:    &tokenExpiry,
			PrivacyConsent:    req.PrivacyConsent,
			MarketingConsent:  req.MarketingConsent,
			ConsentedAt:       &now,
			FromWebsite:       true,
			SyncStatus:        models.SyncStatusPending,
		}
		if err := h.db.Create(&customer).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
			return
		}
		h.sendVerificationAsync(req.Email, req.FirstName, verificationToken)
		c.JSON(http.StatusCreated, gin.H{
			"success":              true,
			"requiresVerification": true,
			"message":              "Registrazione completata. Controlla la tua email per confermare l'account.",
		})
		return

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
	}
}

func (h *AuthHandler) sendVerificationAsync(email, name, token string) {
	go func() {
		if err := h.mailer.SendVerificationEmail(email, name, token); err != nil {
			log.Printf("❌ Verification email to %s not sent: %v", email, err)
		}
	}()
}

// POST /api/auth/login
// @Summary Customer login
// @Description Authenticate with email and password, set auth cookies
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{} "Authenticated"
// @Failure 401 {object} map[string]interface{} "Invalid credentials"
// @Failure 403 {object} map[string]interface{} "Email not verified"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Richiesta non valida"})
		return
	}

	email := utils.NormalizeEmail(req.Email)

	var customer models.Customer
	err := h.db.Where("email = ?", email).First(&customer).Error
	if err != nil || !customer.HasPassword() || !utils.CheckPasswordHash(req.Password, *customer.Password) {
		failure := "invalid_credentials"
		h.recordLoginAttempt(c, email, false, &failure)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Credenziali non valide"})
		return
	}

	if !customer.EmailVerified {
		failure := "email_not_verified"
		h.recordLoginAttempt(c, email, false, &failure)
		c.JSON(http.StatusForbidden, gin.H{
			"success":              false,
			"error":                "Email non verificata. Controlla la tua casella di posta.",
			"requiresVerification": true,
			"email":                customer.Email,
		})
		return
	}

	if err := h.issueSession(c, &customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
		return
	}

	h.recordLoginAttempt(c, email, true, nil)
	h.db.Model(&customer).Update("last_login_at", time.Now())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    buildUserInfo(&customer),
	})
}

// issueSession mints the access JWT, stores a refresh token and writes
// both cookies.
func (h *AuthHandler) issueSession(c *gin.Context, customer *models.Customer) error {
	accessToken, err := utils.GenerateAccessToken(customer.ID, customer.Email, customer.FirstName, customer.LastName)
	if err != nil {
		return err
	}

	refreshToken, err := utils.GenerateToken()
	if err != nil {
		return err
	}

	userAgent := c.GetHeader("User-Agent")
	clientIP := c.ClientIP()
	record := authmodels.RefreshToken{
		Token:      refreshToken,
		CustomerID: customer.ID,
		UserAgent:  &userAgent,
		IPAddress:  &clientIP,
		ExpiresAt:  time.Now().Add(config.GetConfig().GetRefreshTokenExpire()),
	}
	if err := h.db.Create(&record).Error; err != nil {
		return err
	}

	utils.SetAccessCookie(c, accessToken)
	utils.SetRefreshCookie(c, refreshToken)
	return nil
}

func (h *AuthHandler) recordLoginAttempt(c *gin.Context, email string, success bool, failureType *string) {
	userAgent := c.GetHeader("User-Agent")
	clientIP := c.ClientIP()
	attempt := authmodels.LoginAttempt{
		Email:       email,
		IPAddress:   &clientIP,
		UserAgent:   &userAgent,
		Success:     success,
		FailureType: failureType,
	}
	if err := h.db.Create(&attempt).Error; err != nil {
		log.Printf("❌ Failed to record login attempt: %v", err)
	}
}

// POST /api/auth/logout
// @Summary Customer logout
// @Description Revoke the refresh session and clear auth cookies
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{} "Logged out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cfg := config.GetConfig()

	if token, err := c.Cookie(cfg.RefreshCookieName); err == nil && token != "" {
		now := time.Now()
		h.db.Model(&authmodels.RefreshToken{}).
			Where("token = ? AND revoked_at IS NULL", token).
			Update("revoked_at", now)
	}

	utils.ClearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/auth/me
// @Summary Current customer
// @Description Return the authenticated profile. A valid refresh cookie silently renews the access cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{} "Profile"
// @Failure 401 {object} map[string]interface{} "Not authenticated"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	cfg := config.GetConfig()

	// Fast path: valid access cookie.
	if tokenString, err := c.Cookie(cfg.AccessCookieName); err == nil && tokenString != "" {
		if claims, err := utils.ValidateAccessToken(tokenString); err == nil {
			var customer models.Customer
			if err := h.db.First(&customer, claims.CustomerID).Error; err == nil {
				c.JSON(http.StatusOK, gin.H{"success": true, "user": buildUserInfo(&customer)})
				return
			}
		}
	}

	// Slow path: renew from the refresh session.
	refreshToken, err := c.Cookie(cfg.RefreshCookieName)
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Non autenticato"})
		return
	}

	var record authmodels.RefreshToken
	if err := h.db.Where("token = ?", refreshToken).First(&record).Error; err != nil || !record.IsValid() {
		utils.ClearAuthCookies(c)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Sessione scaduta"})
		return
	}

	var customer models.Customer
	if err := h.db.First(&customer, record.CustomerID).Error; err != nil {
		utils.ClearAuthCookies(c)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Non autenticato"})
		return
	}

	accessToken, err := utils.GenerateAccessToken(customer.ID, customer.Email, customer.FirstName, customer.LastName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
		return
	}
	utils.SetAccessCookie(c, accessToken)

	c.JSON(http.StatusOK, gin.H{"success": true, "user": buildUserInfo(&customer)})
}

// UpdateProfile request struct. All fields optional, only provided ones
// are written.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`

	CustomerType   *string `json:"customerType"`
	RagioneSociale *string `json:"ragioneSociale"`
	CodiceFiscale  *string `json:"codiceFiscale"`
	PartitaIVA     *string `json:"partitaIva"`
	CodiceSDI      *string `json:"codiceSdi"`
	PECEmail       *string `json:"pecEmail"`

	BillingAddress    *string `json:"billingAddress"`
	BillingCity       *string `json:"billingCity"`
	BillingProvince   *string `json:"billingProvince"`
	BillingPostalCode *string `json:"billingPostalCode"`
	BillingCountry    *string `json:"billingCountry"`

	ShippingAddress    *string `json:"shippingAddress"`
	ShippingCity       *string `json:"shippingCity"`
	ShippingProvince   *string `json:"shippingProvince"`
	ShippingPostalCode *string `json:"shippingPostalCode"`
	ShippingCountry    *string `json:"shippingCountry"`

	MarketingConsent *bool `json:"marketingConsent"`
}

// PUT /api/auth/me
// @Summary Update profile
// @Description Update the authenticated customer's profile and invoicing data
// @Tags auth
// @Accept json
// @Produce json
// @Param profile body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} map[string]interface{} "Updated profile"
// @Failure 400 {object} map[string]interface{} "Validation errors"
// @Failure 401 {object} map[string]interface{} "Not authenticated"
// @Router /auth/me [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	customerID, ok := middleware.GetCustomerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Non autenticato"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Richiesta non valida"})
		return
	}

	fieldErrors := map[string]string{}
	if req.Phone != nil && *req.Phone != "" && !utils.ValidateItalianPhone(*req.Phone) {
		fieldErrors["phone"] = "Numero di telefono non valido"
	}
	if req.CodiceFiscale != nil && *req.CodiceFiscale != "" && !utils.ValidateCodiceFiscale(*req.CodiceFiscale) {
		fieldErrors["codiceFiscale"] = "Codice fiscale non valido"
	}
	if req.PartitaIVA != nil && *req.PartitaIVA != "" && !utils.ValidatePartitaIVA(*req.PartitaIVA) {
		fieldErrors["partitaIva"] = "Partita IVA non valida"
	}
	if req.CodiceSDI != nil && *req.CodiceSDI != "" && !utils.ValidateCodiceSDI(*req.CodiceSDI) {
		fieldErrors["codiceSdi"] = "Codice SDI non valido"
	}
	if req.CustomerType != nil && *req.CustomerType != models.CustomerTypePrivato && *req.CustomerType != models.CustomerTypeAzienda {
		fieldErrors["customerType"] = "Tipo cliente non valido"
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": fieldErrors})
		return
	}

	var customer models.Customer
	if err := h.db.First(&customer, customerID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Non autenticato"})
		return
	}

	updates := map[string]interface{}{}
	setIfPresent := func(column string, value *string) {
		if value != nil {
			updates[column] = *value
		}
	}
	setIfPresent("first_name", req.FirstName)
	setIfPresent("last_name", req.LastName)
	setIfPresent("phone", req.Phone)
	setIfPresent("customer_type", req.CustomerType)
	setIfPresent("ragione_sociale", req.RagioneSociale)
	setIfPresent("codice_fiscale", req.CodiceFiscale)
	setIfPresent("partita_iva", req.PartitaIVA)
	setIfPresent("codice_sdi", req.CodiceSDI)
	setIfPresent("pec_email", req.PECEmail)
	setIfPresent("billing_address", req.BillingAddress)
	setIfPresent("billing_city", req.BillingCity)
	setIfPresent("billing_province", req.BillingProvince)
	setIfPresent("billing_postal_code", req.BillingPostalCode)
	setIfPresent("billing_country", req.BillingCountry)
	setIfPresent("shipping_address", req.ShippingAddress)
	setIfPresent("shipping_city", req.ShippingCity)
	setIfPresent("shipping_province", req.ShippingProvince)
	setIfPresent("shipping_postal_code", req.ShippingPostalCode)
	setIfPresent("shipping_country", req.ShippingCountry)
	if req.MarketingConsent != nil {
		updates["marketing_consent"] = *req.MarketingConsent
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "user": buildUserInfo(&customer)})
		return
	}

	// Profile changes must flow back to MazGest.
	updates["sync_status"] = models.SyncStatusPending

	if err := h.db.Model(&customer).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
		return
	}

	if err := h.db.First(&customer, customerID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Errore interno"})
		return
	}

	if customer.EmailVerified {
		h.syncService.TriggerAsync(customer.ID)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": buildUserInfo(&customer)})
}

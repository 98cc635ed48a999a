package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gaurosa-backend/shared/database/models"
)

// MazGestClient handles communication with the MazGest management API
type MazGestClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewMazGestClient creates a new MazGest client
func NewMazGestClient(baseURL, apiKey string) *MazGestClient {
	return &MazGestClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CustomerSyncPayload is the customer record pushed to MazGest.
type CustomerSyncPayload struct {
	WebsiteCustomerID uint    `json:"website_customer_id"`
	Email             string  `json:"email"`
	FirstName         *string `json:"first_name"`
	LastName          *string `json:"last_name"`
	Phone             *string `json:"phone"`

	CustomerType   *string `json:"customer_type"`
	RagioneSociale *string `json:"ragione_sociale"`
	CodiceFiscale  *string `json:"codice_fiscale"`
	PartitaIVA     *string `json:"partita_iva"`
	CodiceSDI      *string `json:"codice_sdi"`
	PECEmail       *string `json:"pec_email"`

	BillingAddress    *string `json:"billing_address"`
	BillingCity       *string `json:"billing_city"`
	BillingProvince   *string `json:"billing_province"`
	BillingPostalCode *string `json:"billing_postal_code"`
	BillingCountry    *string `json:"billing_country"`

	ShippingAddress    *string `json:"shipping_address"`
	ShippingCity       *string `json:"shipping_city"`
	ShippingProvince   *string `json:"shipping_province"`
	ShippingPostalCode *string `json:"shipping_postal_code"`
	ShippingCountry    *string `json:"shipping_country"`

	PrivacyConsent   bool `json:"privacy_consent"`
	MarketingConsent bool `json:"marketing_consent"`
	FromWebsite      bool `json:"from_website"`
}

// CustomerSyncResult is the MazGest response for a customer push.
type CustomerSyncResult struct {
	Success   bool   `json:"success"`
	IsNew     bool   `json:"isNew"`
	MazgestID int    `json:"mazgestId"`
	Error     string `json:"error,omitempty"`
}

// BuildCustomerPayload maps a customer row to the sync payload.
func BuildCustomerPayload(customer *models.Customer) CustomerSyncPayload {
	return CustomerSyncPayload{
		WebsiteCustomerID: customer.ID,
		Email:             customer.Email,
		FirstName:         customer.FirstName,
		LastName:          customer.LastName,
		Phone:             customer.Phone,

		CustomerType:   customer.CustomerType,
		RagioneSociale: customer.RagioneSociale,
		CodiceFiscale:  customer.CodiceFiscale,
		PartitaIVA:     customer.PartitaIVA,
		CodiceSDI:      customer.CodiceSDI,
		PECEmail:       customer.PECEmail,

		BillingAddress:    customer.BillingAddress,
		BillingCity:       customer.BillingCity,
		BillingProvince:   customer.BillingProvince,
		BillingPostalCode: customer.BillingPostalCode,
		BillingCountry:    customer.BillingCountry,

		ShippingAddress:    customer.ShippingAddress,
		ShippingCity:       customer.ShippingCity,
		ShippingProvince:   customer.ShippingProvince,
		ShippingPostalCode: customer.ShippingPostalCode,
		ShippingCountry:    customer.ShippingCountry,

		PrivacyConsent:   customer.PrivacyConsent,
		MarketingConsent: customer.MarketingConsent,
		FromWebsite:      customer.FromWebsite,
	}
}

// SyncCustomer pushes a customer to MazGest and returns its assigned ID.
func (mc *MazGestClient) SyncCustomer(payload CustomerSyncPayload) (*CustomerSyncResult, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	url := fmt.Sprintf("%s/ecommerce/customers/sync", mc.baseURL)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", mc.apiKey)

	resp, err := mc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("MazGest returned status %d: %s", resp.StatusCode, string(body))
	}

	var result CustomerSyncResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %v", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("MazGest rejected customer: %s", result.Error)
	}

	return &result, nil
}

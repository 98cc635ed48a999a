package clients

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleClient verifies Google ID tokens against the tokeninfo endpoint
type GoogleClient struct {
	clientID     string
	tokenInfoURL string
	httpClient   *http.Client
}

// GoogleTokenInfo is the verified identity extracted from an ID token.
type GoogleTokenInfo struct {
	Sub           string `json:"sub"`
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// NewGoogleClient creates a verifier for the configured OAuth client ID
func NewGoogleClient(clientID string) *GoogleClient {
	return &GoogleClient{
		clientID:     clientID,
		tokenInfoURL: googleTokenInfoURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewGoogleClientWithEndpoint creates a verifier against a custom
// tokeninfo endpoint. Used in tests.
func NewGoogleClientWithEndpoint(clientID, endpoint string) *GoogleClient {
	gc := NewGoogleClient(clientID)
	gc.tokenInfoURL = endpoint
	return gc
}

// VerifyIDToken validates a Google ID token and checks its audience.
func (gc *GoogleClient) VerifyIDToken(idToken string) (*GoogleTokenInfo, error) {
	if idToken == "" {
		return nil, fmt.Errorf("empty ID token")
	}

	reqURL := fmt.Sprintf("%s?id_token=%s", gc.tokenInfoURL, url.QueryEscape(idToken))
	resp, err := gc.httpClient.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Google: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid Google token (status %d)", resp.StatusCode)
	}

	var info GoogleTokenInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to decode token info: %v", err)
	}

	if info.Aud != gc.clientID {
		return nil, fmt.Errorf("token audience mismatch")
	}
	if info.Email == "" {
		return nil, fmt.Errorf("token has no email claim")
	}

	return &info, nil
}

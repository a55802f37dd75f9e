package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Gelou69/Food-OrderomgHub/config"
)

// Session is an authenticated session against the hosted auth provider
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the session's token has passed its expiry
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// AuthUserInfo represents the user information returned from the provider's
// /userinfo endpoint
type AuthUserInfo struct {
	Sub   string `json:"sub"` // provider user ID
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SignUpResult is the outcome of a sign-up call. Session is nil while the
// provider is still waiting on email confirmation.
type SignUpResult struct {
	User    AuthUserInfo `json:"user"`
	Session *Session     `json:"session"`
}

// AuthProviderError is a non-2xx response from the hosted auth provider
type AuthProviderError struct {
	StatusCode int
	Code       string `json:"error"`
	Message    string `json:"error_description"`
}

func (e *AuthProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("auth provider returned status %d", e.StatusCode)
}

// InvalidCredentials reports whether the failure was a rejected
// email/password pair rather than a transport problem
func (e *AuthProviderError) InvalidCredentials() bool {
	return e.Code == "invalid_grant" || e.StatusCode == http.StatusForbidden || e.StatusCode == http.StatusUnauthorized
}

// AuthService handles interactions with the hosted auth provider
type AuthService struct {
	domain     string
	clientID   string
	audience   string
	httpClient *http.Client
}

// NewAuthService creates a new auth service instance
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		domain:   cfg.AuthDomain,
		clientID: cfg.AuthClientID,
		audience: cfg.AuthAudience,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// baseURL builds the provider base URL.
// If domain already includes a protocol (for testing), use it as-is.
func (s *AuthService) baseURL() string {
	if strings.HasPrefix(s.domain, "http://") || strings.HasPrefix(s.domain, "https://") {
		return s.domain
	}
	return "https://" + s.domain
}

// SignIn exchanges an email/password pair for a session using the provider's
// password grant
func (s *AuthService) SignIn(email, password string) (*Session, error) {
	payload := map[string]string{
		"grant_type": "password",
		"client_id":  s.clientID,
		"audience":   s.audience,
		"username":   email,
		"password":   password,
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := s.post("/oauth/token", payload, &result); err != nil {
		return nil, err
	}

	session := &Session{AccessToken: result.AccessToken}
	if result.ExpiresIn > 0 {
		session.ExpiresAt = time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	} else if parsed, err := SessionFromToken(result.AccessToken); err == nil {
		session.ExpiresAt = parsed.ExpiresAt
	}
	return session, nil
}

// SignUp creates an account with the provider. The returned session is nil
// when the provider requires email confirmation before issuing tokens.
func (s *AuthService) SignUp(email, password string, metadata map[string]string) (*SignUpResult, error) {
	payload := map[string]interface{}{
		"client_id":     s.clientID,
		"email":         email,
		"password":      password,
		"user_metadata": metadata,
	}

	var result struct {
		ID            string `json:"_id"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := s.post("/dbconnections/signup", payload, &result); err != nil {
		return nil, err
	}

	out := &SignUpResult{
		User: AuthUserInfo{
			Sub:   "auth|" + result.ID,
			Email: result.Email,
			Name:  metadata["name"],
		},
	}

	// Only verified accounts get a session right away; the rest sign in
	// after confirming their email.
	if result.EmailVerified {
		session, err := s.SignIn(email, password)
		if err != nil {
			return nil, err
		}
		out.Session = session
	}

	return out, nil
}

// SignOut revokes the session with the provider. Sign-out is best-effort:
// a provider failure is returned for logging but the local session is gone
// either way.
func (s *AuthService) SignOut(accessToken string) error {
	req, err := http.NewRequest("POST", s.baseURL()+"/oidc/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call logout endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &AuthProviderError{StatusCode: resp.StatusCode}
	}
	return nil
}

// GetUserInfo fetches user information from the provider's /userinfo
// endpoint. accessToken is the JWT access token from the Authorization
// header.
func (s *AuthService) GetUserInfo(accessToken string) (*AuthUserInfo, error) {
	req, err := http.NewRequest("GET", s.baseURL()+"/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call userinfo endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var userInfo AuthUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}

	return &userInfo, nil
}

// SessionFromToken derives a Session from a bearer token by reading the
// expiry claim. The token is not verified here; verification belongs to the
// request middleware.
func SessionFromToken(accessToken string) (*Session, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("empty access token")
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	session := &Session{AccessToken: accessToken}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time
	}
	return session, nil
}

// post sends a JSON payload to the provider and decodes a JSON response,
// converting non-2xx responses into AuthProviderError
func (s *AuthService) post(path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequest("POST", s.baseURL()+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		provErr := &AuthProviderError{StatusCode: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(provErr); decodeErr != nil {
			provErr.Message = ""
		}
		return provErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

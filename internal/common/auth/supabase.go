// internal/common/auth/supabase.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"francis-backend/internal/common/errors"
)

// SupabaseClient verifies bearer tokens against the Supabase auth endpoint.
// It is constructed once at startup and injected where needed; there is no
// package-level singleton.
type SupabaseClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client

	mu    sync.Mutex
	cache map[string]cachedUser
}

// User is the authenticated identity attached to a request.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type cachedUser struct {
	user      User
	expiresAt time.Time
}

// Verified tokens are cached briefly so a burst of dashboard calls does not
// hammer the auth endpoint.
const userCacheTTL = 30 * time.Second

// NewSupabaseClient creates a new token verifier.
func NewSupabaseClient(baseURL, anonKey string) *SupabaseClient {
	return &SupabaseClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      make(map[string]cachedUser),
	}
}

// VerifyToken resolves a bearer token to a user. The token comes exclusively
// from the Authorization header; no other storage key is honored.
func (s *SupabaseClient) VerifyToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, errors.NewUnauthorizedError("missing bearer token")
	}

	s.mu.Lock()
	if entry, ok := s.cache[token]; ok && time.Now().Before(entry.expiresAt) {
		user := entry.user
		s.mu.Unlock()
		return &user, nil
	}
	s.mu.Unlock()

	userURL := fmt.Sprintf("%s/auth/v1/user", s.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", s.anonKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewUpstreamUnavailableError("supabase-auth", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, errors.NewUnauthorizedError("token rejected by auth provider")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("auth endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	if user.ID == "" {
		return nil, errors.NewUnauthorizedError("auth provider returned no user id")
	}

	s.mu.Lock()
	s.cache[token] = cachedUser{user: user, expiresAt: time.Now().Add(userCacheTTL)}
	s.mu.Unlock()

	return &user, nil
}

// Invalidate drops a token from the verification cache (logout path).
func (s *SupabaseClient) Invalidate(token string) {
	s.mu.Lock()
	delete(s.cache, token)
	s.mu.Unlock()
}

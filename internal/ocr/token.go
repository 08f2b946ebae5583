package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	tokenRefreshMargin   = time.Minute
	defaultTokenLifetime = time.Hour
)

// tokenSource fetches and caches a Baidu access token.
type tokenSource struct {
	httpc     *http.Client
	tokenURL  string
	apiKey    string
	secretKey string
	now       func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func newTokenSource(tokenURL, apiKey, secretKey string, timeout time.Duration) *tokenSource {
	return &tokenSource{
		httpc:     &http.Client{Timeout: timeout},
		tokenURL:  tokenURL,
		apiKey:    apiKey,
		secretKey: secretKey,
		now:       time.Now,
	}
}

// Token returns the cached token or fetches a fresh one when it is within a
// minute of expiring.
func (s *tokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expires.Add(-tokenRefreshMargin)) {
		return s.token, nil
	}

	q := url.Values{}
	q.Set("grant_type", "client_credentials")
	q.Set("client_id", s.apiKey)
	q.Set("client_secret", s.secretKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.tokenURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", wrapTransport("baidu token", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", wrapTransport("baidu token", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &Error{Provider: "baidu", Op: "token", StatusCode: resp.StatusCode}
	}

	var out struct {
		AccessToken      string `json:"access_token"`
		ExpiresIn        int64  `json:"expires_in"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if out.Error != "" || out.ErrorDescription != "" {
		return "", &Error{Provider: "baidu", Op: "token", StatusCode: resp.StatusCode, Code: out.Error, Msg: out.ErrorDescription}
	}
	if out.AccessToken == "" {
		return "", &Error{Provider: "baidu", Op: "token", StatusCode: resp.StatusCode, Msg: "access token missing"}
	}

	lifetime := defaultTokenLifetime
	if out.ExpiresIn > 0 {
		lifetime = time.Duration(out.ExpiresIn) * time.Second
	}
	s.token = out.AccessToken
	s.expires = s.now().Add(lifetime)
	return s.token, nil
}

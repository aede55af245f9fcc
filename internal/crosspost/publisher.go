package crosspost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/blognest/blognest-backend/internal/common"
	"github.com/blognest/blognest-backend/internal/domain"
)

// Credentials carries decrypted tokens plus the raw per-platform config blob.
// Adapters decode the blob into their typed config at the boundary.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Config       string
}

// Outcome is the structured result of one publish attempt. Adapters never
// return a Go error for remote failures; everything resolves into this.
type Outcome struct {
	Success        bool
	PlatformPostID string
	PostURL        string
	Error          string
}

// failure builds a failed outcome from a formatted message
func failure(format string, args ...interface{}) Outcome {
	return Outcome{Success: false, Error: fmt.Sprintf(format, args...)}
}

// Publisher posts one formatted payload to its platform
type Publisher interface {
	Platform() domain.Platform
	Publish(ctx context.Context, payload Payload, creds Credentials) Outcome
}

// Registry maps platforms to their publishers. The set is closed; asking
// for an unknown platform is an explicit error, not a nil.
type Registry map[domain.Platform]Publisher

// NewRegistry wires the default adapters over a shared HTTP client
func NewRegistry(client *http.Client) Registry {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return Registry{
		domain.PlatformInstagram: NewInstagramPublisher(client, ""),
		domain.PlatformTwitter:   NewTwitterPublisher(client, ""),
		domain.PlatformFacebook:  NewFacebookPublisher(client, ""),
		domain.PlatformDiscord:   NewDiscordPublisher(client),
	}
}

// For returns the publisher for a platform
func (r Registry) For(platform domain.Platform) (Publisher, error) {
	pub, ok := r[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedPlatform, platform)
	}
	return pub, nil
}

// postJSON sends a JSON body and decodes a JSON response into out (when non-nil).
// Non-2xx statuses return an error carrying a response snippet.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body interface{}, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

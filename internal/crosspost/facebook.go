package crosspost

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/blognest/blognest-backend/internal/domain"
)

const facebookGraphBase = "https://graph.facebook.com/v19.0"

// FacebookConfig is the typed shape of the Facebook credential config blob
type FacebookConfig struct {
	PageID string `json:"page_id"`
}

// facebookPublisher posts to a page feed via the Graph API
type facebookPublisher struct {
	client  *http.Client
	baseURL string
}

// NewFacebookPublisher creates the Facebook adapter. baseURL overrides the
// Graph API host, for tests.
func NewFacebookPublisher(client *http.Client, baseURL string) Publisher {
	if baseURL == "" {
		baseURL = facebookGraphBase
	}
	return &facebookPublisher{client: client, baseURL: baseURL}
}

func (p *facebookPublisher) Platform() domain.Platform { return domain.PlatformFacebook }

func (p *facebookPublisher) Publish(ctx context.Context, payload Payload, creds Credentials) Outcome {
	var cfg FacebookConfig
	if err := json.Unmarshal([]byte(creds.Config), &cfg); err != nil {
		return failure("facebook: invalid config: %v", err)
	}
	if cfg.PageID == "" {
		return failure("facebook: page_id not configured")
	}
	if creds.AccessToken == "" {
		return failure("facebook: access token missing")
	}

	body := map[string]string{
		"message":      payload.Text,
		"access_token": creds.AccessToken,
	}
	if payload.LinkURL != "" {
		body["link"] = payload.LinkURL
	}

	var resp struct {
		ID string `json:"id"`
	}
	endpoint := p.baseURL + "/" + url.PathEscape(cfg.PageID) + "/feed"
	if err := postJSON(ctx, p.client, endpoint, nil, body, &resp); err != nil {
		return failure("facebook: %v", err)
	}
	if resp.ID == "" {
		return failure("facebook: response carried no post id")
	}

	return Outcome{
		Success:        true,
		PlatformPostID: resp.ID,
		PostURL:        "https://www.facebook.com/" + resp.ID,
	}
}

package crosspost

import (
	"context"
	"net/http"

	"github.com/blognest/blognest-backend/internal/domain"
)

const twitterAPIBase = "https://api.twitter.com"

// twitterPublisher posts through the v2 tweet endpoint with an OAuth2
// bearer token (user context).
type twitterPublisher struct {
	client  *http.Client
	baseURL string
}

// NewTwitterPublisher creates the Twitter/X adapter. baseURL overrides the
// public API host, for tests.
func NewTwitterPublisher(client *http.Client, baseURL string) Publisher {
	if baseURL == "" {
		baseURL = twitterAPIBase
	}
	return &twitterPublisher{client: client, baseURL: baseURL}
}

func (p *twitterPublisher) Platform() domain.Platform { return domain.PlatformTwitter }

func (p *twitterPublisher) Publish(ctx context.Context, payload Payload, creds Credentials) Outcome {
	if creds.AccessToken == "" {
		return failure("twitter: access token missing")
	}

	var resp struct {
		Data struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"data"`
	}

	err := postJSON(ctx, p.client, p.baseURL+"/2/tweets",
		map[string]string{"Authorization": "Bearer " + creds.AccessToken},
		map[string]string{"text": payload.Text},
		&resp,
	)
	if err != nil {
		return failure("twitter: %v", err)
	}
	if resp.Data.ID == "" {
		return failure("twitter: response carried no tweet id")
	}

	return Outcome{
		Success:        true,
		PlatformPostID: resp.Data.ID,
		PostURL:        "https://twitter.com/i/web/status/" + resp.Data.ID,
	}
}

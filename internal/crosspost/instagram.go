package crosspost

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/blognest/blognest-backend/internal/domain"
)

// InstagramConfig is the typed shape of the Instagram credential config blob
type InstagramConfig struct {
	BusinessAccountID string `json:"business_account_id"`
}

// instagramPublisher posts through the Graph API content publishing flow:
// create a media container, then publish it. Instagram requires an image,
// so a payload without one fails before any network call.
type instagramPublisher struct {
	client  *http.Client
	baseURL string
}

// NewInstagramPublisher creates the Instagram adapter. baseURL overrides
// the Graph API host, for tests.
func NewInstagramPublisher(client *http.Client, baseURL string) Publisher {
	if baseURL == "" {
		baseURL = facebookGraphBase
	}
	return &instagramPublisher{client: client, baseURL: baseURL}
}

func (p *instagramPublisher) Platform() domain.Platform { return domain.PlatformInstagram }

func (p *instagramPublisher) Publish(ctx context.Context, payload Payload, creds Credentials) Outcome {
	var cfg InstagramConfig
	if err := json.Unmarshal([]byte(creds.Config), &cfg); err != nil {
		return failure("instagram: invalid config: %v", err)
	}
	if cfg.BusinessAccountID == "" {
		return failure("instagram: business_account_id not configured")
	}
	if creds.AccessToken == "" {
		return failure("instagram: access token missing")
	}
	if payload.ImageURL == "" {
		return failure("instagram: post has no image; instagram requires one")
	}

	account := p.baseURL + "/" + url.PathEscape(cfg.BusinessAccountID)

	// Step 1: media container
	var container struct {
		ID string `json:"id"`
	}
	err := postJSON(ctx, p.client, account+"/media", nil, map[string]string{
		"image_url":    payload.ImageURL,
		"caption":      payload.Text,
		"access_token": creds.AccessToken,
	}, &container)
	if err != nil {
		return failure("instagram: create container: %v", err)
	}
	if container.ID == "" {
		return failure("instagram: container response carried no id")
	}

	// Step 2: publish the container
	var published struct {
		ID string `json:"id"`
	}
	err = postJSON(ctx, p.client, account+"/media_publish", nil, map[string]string{
		"creation_id":  container.ID,
		"access_token": creds.AccessToken,
	}, &published)
	if err != nil {
		return failure("instagram: publish container: %v", err)
	}
	if published.ID == "" {
		return failure("instagram: publish response carried no id")
	}

	return Outcome{
		Success:        true,
		PlatformPostID: published.ID,
		PostURL:        "https://www.instagram.com/p/" + published.ID + "/",
	}
}

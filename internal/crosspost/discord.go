package crosspost

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/blognest/blognest-backend/internal/domain"
)

// DiscordConfig is the typed shape of the Discord credential config blob
type DiscordConfig struct {
	WebhookURL string `json:"webhook_url"`
	Username   string `json:"username,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
}

// discordPublisher posts through an incoming webhook. Webhooks need no
// token; the webhook URL itself is the secret, so it lives in the
// encrypted config blob.
type discordPublisher struct {
	client *http.Client
}

// NewDiscordPublisher creates the Discord adapter
func NewDiscordPublisher(client *http.Client) Publisher {
	return &discordPublisher{client: client}
}

func (p *discordPublisher) Platform() domain.Platform { return domain.PlatformDiscord }

func (p *discordPublisher) Publish(ctx context.Context, payload Payload, creds Credentials) Outcome {
	var cfg DiscordConfig
	if err := json.Unmarshal([]byte(creds.Config), &cfg); err != nil {
		return failure("discord: invalid config: %v", err)
	}
	if cfg.WebhookURL == "" {
		return failure("discord: webhook_url not configured")
	}

	body := map[string]interface{}{}
	if cfg.Username != "" {
		body["username"] = cfg.Username
	}
	if cfg.AvatarURL != "" {
		body["avatar_url"] = cfg.AvatarURL
	}
	if payload.Embed != nil {
		body["embeds"] = []*DiscordEmbed{payload.Embed}
	} else {
		body["content"] = payload.Text
	}

	// ?wait=true makes the webhook return the created message
	var msg struct {
		ID        string `json:"id"`
		ChannelID string `json:"channel_id"`
	}
	if err := postJSON(ctx, p.client, cfg.WebhookURL+"?wait=true", nil, body, &msg); err != nil {
		return failure("discord: %v", err)
	}

	out := Outcome{Success: true, PlatformPostID: msg.ID}
	if msg.ID != "" && msg.ChannelID != "" {
		out.PostURL = "https://discord.com/channels/@me/" + msg.ChannelID + "/" + msg.ID
	}
	return out
}

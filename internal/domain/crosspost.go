package domain

import (
	"time"
)

// Platform identifies a supported crosspost destination
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformDiscord   Platform = "discord"
)

// AllPlatforms lists every supported platform
var AllPlatforms = []Platform{PlatformInstagram, PlatformTwitter, PlatformFacebook, PlatformDiscord}

// DeliveryStatus is the state of a single (content, platform) delivery
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySuccess DeliveryStatus = "success"
	DeliveryFailed  DeliveryStatus = "failed"
)

// CrosspostTarget marks a platform as a crosspost destination for a post.
// At most one row per (content_id, platform).
type CrosspostTarget struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ContentID     uint64    `gorm:"column:content_id;uniqueIndex:idx_target_content_platform" json:"content_id"`
	Platform      Platform  `gorm:"column:platform;type:varchar(20);uniqueIndex:idx_target_content_platform" json:"platform"`
	Enabled       bool      `gorm:"column:enabled" json:"enabled"`
	CustomMessage *string   `gorm:"column:custom_message;type:text" json:"custom_message,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CrosspostTarget) TableName() string { return "crosspost_targets" }

// PlatformCredential stores encrypted API tokens for one platform.
// Tokens are AES-encrypted blobs; only last_used_at is written by the publisher path.
type PlatformCredential struct {
	ID             uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Platform       Platform   `gorm:"column:platform;type:varchar(20);uniqueIndex" json:"platform"`
	IsActive       bool       `gorm:"column:is_active" json:"is_active"`
	AccessToken    string     `gorm:"column:access_token;type:text" json:"-"`
	RefreshToken   *string    `gorm:"column:refresh_token;type:text" json:"-"`
	Config         *string    `gorm:"column:config;type:json" json:"config,omitempty"`
	TokenExpiresAt *time.Time `gorm:"column:token_expires_at" json:"token_expires_at,omitempty"`
	LastUsedAt     *time.Time `gorm:"column:last_used_at" json:"last_used_at,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PlatformCredential) TableName() string { return "platform_credentials" }

// DeliveryRecord is the per-(content, platform) delivery ledger row.
// Once status reaches success the row is terminal: platform_post_id never
// changes and later runs short-circuit without publishing.
type DeliveryRecord struct {
	ID             uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ContentID      uint64         `gorm:"column:content_id;uniqueIndex:idx_delivery_content_platform" json:"content_id"`
	Platform       Platform       `gorm:"column:platform;type:varchar(20);uniqueIndex:idx_delivery_content_platform" json:"platform"`
	Status         DeliveryStatus `gorm:"column:status;type:varchar(10);default:'pending'" json:"status"`
	ErrorMessage   *string        `gorm:"column:error_message;type:text" json:"error_message,omitempty"`
	PlatformPostID *string        `gorm:"column:platform_post_id;type:varchar(255)" json:"platform_post_id,omitempty"`
	PostURL        *string        `gorm:"column:post_url;type:varchar(500)" json:"post_url,omitempty"`
	PostedAt       *time.Time     `gorm:"column:posted_at" json:"posted_at,omitempty"`
	RetryCount     uint           `gorm:"column:retry_count;default:0" json:"retry_count"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (DeliveryRecord) TableName() string { return "crosspost_deliveries" }

// CrosspostRequest triggers publication of one post to one or more platforms.
// Platforms nil means "all enabled targets"; an explicit empty slice means none.
type CrosspostRequest struct {
	ContentID      uint64            `json:"content_id"`
	Platforms      []Platform        `json:"platforms,omitempty"`
	CustomMessages map[Platform]string `json:"custom_messages,omitempty"`
}

// PlatformResult is the per-platform entry of a crosspost response
type PlatformResult struct {
	Success        bool   `json:"success"`
	Skipped        bool   `json:"skipped,omitempty"`
	PlatformPostID string `json:"platform_post_id,omitempty"`
	PostURL        string `json:"post_url,omitempty"`
	Error          string `json:"error,omitempty"`
}

// CrosspostSummary aggregates per-platform outcomes
type CrosspostSummary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// CrosspostResponse is the aggregate result of one orchestration run
type CrosspostResponse struct {
	OverallSuccess bool                        `json:"overall_success"`
	Summary        CrosspostSummary            `json:"summary"`
	Results        map[Platform]PlatformResult `json:"results"`
}

// UpsertTargetRequest creates or updates a crosspost target
type UpsertTargetRequest struct {
	Platform      Platform `json:"platform" binding:"required"`
	Enabled       *bool    `json:"enabled,omitempty"`
	CustomMessage *string  `json:"custom_message,omitempty"`
}

// UpsertCredentialRequest creates or rotates a platform credential.
// Tokens arrive in plaintext over the admin API and are encrypted before storage.
type UpsertCredentialRequest struct {
	Platform       Platform   `json:"platform" binding:"required"`
	AccessToken    string     `json:"access_token" binding:"required"`
	RefreshToken   *string    `json:"refresh_token,omitempty"`
	Config         *string    `json:"config,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	IsActive       *bool      `json:"is_active,omitempty"`
}

// CredentialResponse exposes a credential with masked tokens only
type CredentialResponse struct {
	ID             uint64     `json:"id"`
	Platform       Platform   `json:"platform"`
	IsActive       bool       `json:"is_active"`
	AccessToken    string     `json:"access_token"`
	RefreshToken   string     `json:"refresh_token,omitempty"`
	Config         *string    `json:"config,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	LastUsedAt     *time.Time `json:"last_used_at,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// DeliveryResponse exposes a ledger row for the history endpoint
type DeliveryResponse struct {
	Platform       Platform       `json:"platform"`
	Status         DeliveryStatus `json:"status"`
	ErrorMessage   *string        `json:"error_message,omitempty"`
	PlatformPostID *string        `json:"platform_post_id,omitempty"`
	PostURL        *string        `json:"post_url,omitempty"`
	PostedAt       *time.Time     `json:"posted_at,omitempty"`
	RetryCount     uint           `json:"retry_count"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ToResponse converts a ledger row to its API shape
func (d *DeliveryRecord) ToResponse() DeliveryResponse {
	return DeliveryResponse{
		Platform:       d.Platform,
		Status:         d.Status,
		ErrorMessage:   d.ErrorMessage,
		PlatformPostID: d.PlatformPostID,
		PostURL:        d.PostURL,
		PostedAt:       d.PostedAt,
		RetryCount:     d.RetryCount,
		UpdatedAt:      d.UpdatedAt,
	}
}

// IsValidPlatform reports whether name matches a supported platform (case-insensitive
// matching is handled by NormalizePlatform; this checks the canonical form)
func IsValidPlatform(p Platform) bool {
	switch p {
	case PlatformInstagram, PlatformTwitter, PlatformFacebook, PlatformDiscord:
		return true
	}
	return false
}

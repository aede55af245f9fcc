package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/blognest/blognest-backend/internal/common"
	"github.com/blognest/blognest-backend/internal/crosspost"
	"github.com/blognest/blognest-backend/internal/domain"
	"github.com/blognest/blognest-backend/internal/repository"
	"github.com/blognest/blognest-backend/pkg/cache"
	"github.com/blognest/blognest-backend/pkg/logger"
)

// maskVisibleChars is how many leading/trailing token characters stay
// readable in admin listings
const maskVisibleChars = 4

// CredentialService manages platform credentials for administrators.
// Tokens are encrypted before storage and only ever leave masked.
type CredentialService interface {
	Upsert(ctx context.Context, req *domain.UpsertCredentialRequest) (*domain.CredentialResponse, error)
	List(ctx context.Context) ([]domain.CredentialResponse, error)
	SetActive(ctx context.Context, platform domain.Platform, active bool) error
}

type credentialService struct {
	repo  repository.CredentialRepository
	vault *crosspost.Vault
	cache cache.Service
}

// NewCredentialService creates a new CredentialService
func NewCredentialService(repo repository.CredentialRepository, vault *crosspost.Vault, cacheService cache.Service) CredentialService {
	return &credentialService{repo: repo, vault: vault, cache: cacheService}
}

// Upsert creates or rotates a credential. The cached copy is invalidated so
// in-flight publishes pick up the rotation within one lookup.
func (s *credentialService) Upsert(ctx context.Context, req *domain.UpsertCredentialRequest) (*domain.CredentialResponse, error) {
	platform := domain.Platform(strings.ToLower(string(req.Platform)))
	if !domain.IsValidPlatform(platform) {
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedPlatform, req.Platform)
	}
	if req.AccessToken == "" {
		return nil, fmt.Errorf("%w: access_token is required", common.ErrInvalidInput)
	}

	encryptedAccess, err := s.vault.Encrypt(req.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("encrypt access token: %w", err)
	}

	cred := &domain.PlatformCredential{
		Platform:       platform,
		IsActive:       true,
		AccessToken:    encryptedAccess,
		Config:         req.Config,
		TokenExpiresAt: req.TokenExpiresAt,
	}
	if req.IsActive != nil {
		cred.IsActive = *req.IsActive
	}
	if req.RefreshToken != nil && *req.RefreshToken != "" {
		encryptedRefresh, err := s.vault.Encrypt(*req.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("encrypt refresh token: %w", err)
		}
		cred.RefreshToken = &encryptedRefresh
	}

	if err := s.repo.Upsert(cred); err != nil {
		return nil, err
	}
	if err := s.cache.InvalidateCredential(ctx, string(platform)); err != nil {
		logger.WithPlatform(string(platform)).Warn().Err(err).Msg("credential cache invalidation failed")
	}

	logger.WithPlatform(string(platform)).Info().Msg("platform credential rotated")

	resp := s.toResponse(cred, req.AccessToken, req.RefreshToken)
	return &resp, nil
}

// List returns every credential with masked tokens
func (s *credentialService) List(ctx context.Context) ([]domain.CredentialResponse, error) {
	creds, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}

	out := make([]domain.CredentialResponse, len(creds))
	for i, cred := range creds {
		// Decrypt only to mask; plaintext never leaves this function
		access, err := s.vault.Decrypt(cred.AccessToken)
		if err != nil {
			access = ""
		}
		var refresh *string
		if cred.RefreshToken != nil {
			if r, err := s.vault.Decrypt(*cred.RefreshToken); err == nil {
				refresh = &r
			}
		}
		out[i] = s.toResponse(&cred, access, refresh)
	}
	return out, nil
}

// SetActive toggles a credential and drops its cached copy
func (s *credentialService) SetActive(ctx context.Context, platform domain.Platform, active bool) error {
	platform = domain.Platform(strings.ToLower(string(platform)))
	if !domain.IsValidPlatform(platform) {
		return fmt.Errorf("%w: %q", common.ErrUnsupportedPlatform, platform)
	}
	if err := s.repo.SetActive(platform, active); err != nil {
		return err
	}
	if err := s.cache.InvalidateCredential(ctx, string(platform)); err != nil {
		logger.WithPlatform(string(platform)).Warn().Err(err).Msg("credential cache invalidation failed")
	}
	return nil
}

func (s *credentialService) toResponse(cred *domain.PlatformCredential, plainAccess string, plainRefresh *string) domain.CredentialResponse {
	resp := domain.CredentialResponse{
		ID:             cred.ID,
		Platform:       cred.Platform,
		IsActive:       cred.IsActive,
		AccessToken:    crosspost.MaskToken(plainAccess, maskVisibleChars),
		Config:         cred.Config,
		TokenExpiresAt: cred.TokenExpiresAt,
		LastUsedAt:     cred.LastUsedAt,
		UpdatedAt:      cred.UpdatedAt,
	}
	if plainRefresh != nil {
		resp.RefreshToken = crosspost.MaskToken(*plainRefresh, maskVisibleChars)
	}
	return resp
}

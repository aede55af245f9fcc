package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/blognest/blognest-backend/internal/common"
	"github.com/blognest/blognest-backend/internal/crosspost"
	"github.com/blognest/blognest-backend/internal/domain"
	"github.com/blognest/blognest-backend/internal/repository"
	"github.com/blognest/blognest-backend/pkg/cache"
	"github.com/blognest/blognest-backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// CrosspostConfig tunes the orchestrator
type CrosspostConfig struct {
	// PublishTimeout bounds each platform publish call
	PublishTimeout time.Duration
	// Workers caps concurrent platform deliveries per run
	Workers int
	// MaxRetries stops retrying a failed delivery after this many recorded
	// attempts; zero or negative means unlimited
	MaxRetries int
}

// DefaultCrosspostConfig returns the default orchestrator tuning
func DefaultCrosspostConfig() CrosspostConfig {
	return CrosspostConfig{
		PublishTimeout: 15 * time.Second,
		Workers:        4,
		MaxRetries:     5,
	}
}

// CrosspostService publishes posts to external platforms and keeps the
// delivery ledger
type CrosspostService interface {
	Publish(ctx context.Context, req *domain.CrosspostRequest) (*domain.CrosspostResponse, error)
	GetDeliveries(contentID uint64) ([]domain.DeliveryResponse, error)
}

type crosspostService struct {
	posts      repository.PostRepository
	targets    repository.TargetRepository
	creds      repository.CredentialRepository
	ledger     repository.DeliveryRepository
	vault      *crosspost.Vault
	publishers crosspost.Registry
	cache      cache.Service
	cfg        CrosspostConfig
}

// NewCrosspostService creates a new CrosspostService
func NewCrosspostService(
	posts repository.PostRepository,
	targets repository.TargetRepository,
	creds repository.CredentialRepository,
	ledger repository.DeliveryRepository,
	vault *crosspost.Vault,
	publishers crosspost.Registry,
	cacheService cache.Service,
	cfg CrosspostConfig,
) CrosspostService {
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = DefaultCrosspostConfig().PublishTimeout
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultCrosspostConfig().Workers
	}
	return &crosspostService{
		posts:      posts,
		targets:    targets,
		creds:      creds,
		ledger:     ledger,
		vault:      vault,
		publishers: publishers,
		cache:      cacheService,
		cfg:        cfg,
	}
}

// Publish fans one post out to its target platforms. Platform failures are
// isolated: every platform resolves into its own result entry and the batch
// always completes. The only request-level errors are bad input and a
// missing post.
func (s *crosspostService) Publish(ctx context.Context, req *domain.CrosspostRequest) (*domain.CrosspostResponse, error) {
	if req == nil || req.ContentID == 0 {
		return nil, fmt.Errorf("%w: content_id is required", common.ErrInvalidInput)
	}

	post, err := s.posts.FindByID(req.ContentID)
	if err != nil {
		return nil, err
	}
	content := post.ContentItem()

	// An explicit platform list may reference disabled targets (their stored
	// custom message still applies), so it reads the full target set. The
	// default path only ever needs the enabled rows.
	var stored []domain.CrosspostTarget
	if req.Platforms != nil {
		stored, err = s.targets.FindByContentID(req.ContentID)
	} else {
		stored, err = s.targets.FindEnabledByContentID(req.ContentID)
	}
	if err != nil {
		return nil, err
	}
	storedByPlatform := make(map[domain.Platform]domain.CrosspostTarget, len(stored))
	for _, t := range stored {
		storedByPlatform[t.Platform] = t
	}

	platforms := s.resolvePlatforms(req, stored)

	resp := &domain.CrosspostResponse{
		OverallSuccess: true,
		Results:        make(map[domain.Platform]domain.PlatformResult, len(platforms)),
	}
	if len(platforms) == 0 {
		return resp, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for _, platform := range platforms {
		platform := platform
		g.Go(func() error {
			message := s.effectiveMessage(req, storedByPlatform, platform)
			result := s.publishOne(gctx, content, platform, message)

			mu.Lock()
			resp.Results[platform] = result
			mu.Unlock()
			// Platform failures never abort the batch
			return nil
		})
	}
	_ = g.Wait()

	for _, result := range resp.Results {
		resp.Summary.Total++
		if result.Success {
			resp.Summary.Success++
		} else {
			resp.Summary.Failed++
		}
	}
	resp.OverallSuccess = resp.Summary.Failed == 0

	return resp, nil
}

// GetDeliveries returns the ledger rows for one post
func (s *crosspostService) GetDeliveries(contentID uint64) ([]domain.DeliveryResponse, error) {
	recs, err := s.ledger.FindByContentID(contentID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DeliveryResponse, len(recs))
	for i, rec := range recs {
		out[i] = rec.ToResponse()
	}
	return out, nil
}

// resolvePlatforms picks the target set: an explicit request list wins,
// otherwise every stored target (already filtered to enabled rows by the
// caller). An explicit empty list means none.
func (s *crosspostService) resolvePlatforms(req *domain.CrosspostRequest, stored []domain.CrosspostTarget) []domain.Platform {
	if req.Platforms != nil {
		out := make([]domain.Platform, 0, len(req.Platforms))
		seen := make(map[domain.Platform]bool)
		for _, p := range req.Platforms {
			p = domain.Platform(strings.ToLower(string(p)))
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
		return out
	}

	out := make([]domain.Platform, 0, len(stored))
	for _, t := range stored {
		out = append(out, t.Platform)
	}
	return out
}

func (s *crosspostService) effectiveMessage(req *domain.CrosspostRequest, stored map[domain.Platform]domain.CrosspostTarget, platform domain.Platform) string {
	if msg, ok := req.CustomMessages[platform]; ok && msg != "" {
		return msg
	}
	if t, ok := stored[platform]; ok && t.CustomMessage != nil {
		return *t.CustomMessage
	}
	return ""
}

// publishOne runs the full per-platform pipeline: idempotency check,
// credentials, formatting, publish, ledger write. Every failure resolves
// into the returned result; nothing escapes.
func (s *crosspostService) publishOne(ctx context.Context, content domain.ContentItem, platform domain.Platform, customMessage string) domain.PlatformResult {
	log := logger.WithPlatform(string(platform))
	start := time.Now()

	existing, err := s.ledger.Find(content.ID, platform)
	if err != nil {
		return domain.PlatformResult{Error: fmt.Sprintf("ledger lookup failed: %v", err)}
	}

	// Idempotent short-circuit: a prior success is terminal. No network
	// call, no ledger write, the stored post id is reported back.
	if existing != nil && existing.Status == domain.DeliverySuccess {
		crosspost.ObserveSkip(string(platform))
		result := domain.PlatformResult{Success: true, Skipped: true}
		if existing.PlatformPostID != nil {
			result.PlatformPostID = *existing.PlatformPostID
		}
		if existing.PostURL != nil {
			result.PostURL = *existing.PostURL
		}
		log.Info().Uint64("content_id", content.ID).Msg("crosspost skipped, already delivered")
		return result
	}

	if s.cfg.MaxRetries > 0 && existing != nil && existing.RetryCount >= uint(s.cfg.MaxRetries) {
		return s.finish(content.ID, platform, crosspost.Outcome{
			Error: fmt.Sprintf("%v (%d attempts)", common.ErrRetryLimitReached, existing.RetryCount),
		}, start)
	}

	creds, failMsg := s.loadCredentials(ctx, platform)
	if failMsg != "" {
		return s.finish(content.ID, platform, crosspost.Outcome{Error: failMsg}, start)
	}
	defer func() {
		if err := s.creds.TouchLastUsed(platform, time.Now()); err != nil {
			log.Warn().Err(err).Msg("failed to touch credential last_used_at")
		}
	}()

	payload, err := crosspost.FormatForPlatform(platform, content, customMessage)
	if err != nil {
		return s.finish(content.ID, platform, crosspost.Outcome{Error: err.Error()}, start)
	}

	publisher, err := s.publishers.For(platform)
	if err != nil {
		return s.finish(content.ID, platform, crosspost.Outcome{Error: err.Error()}, start)
	}

	pubCtx, cancel := context.WithTimeout(ctx, s.cfg.PublishTimeout)
	defer cancel()
	outcome := publisher.Publish(pubCtx, payload, *creds)

	return s.finish(content.ID, platform, outcome, start)
}

// loadCredentials fetches the platform credential (cache first) and
// decrypts its tokens. A non-empty failMsg means the platform fails now.
func (s *crosspostService) loadCredentials(ctx context.Context, platform domain.Platform) (*crosspost.Credentials, string) {
	var cred domain.PlatformCredential
	cached := s.cache.GetCredential(ctx, string(platform), &cred) == nil

	if !cached {
		found, err := s.creds.FindByPlatform(platform)
		if err != nil {
			return nil, fmt.Sprintf("credential lookup failed: %v", err)
		}
		if found == nil {
			return nil, fmt.Sprintf("%v: no credential configured for %s", common.ErrCredentialUnavailable, platform)
		}
		cred = *found
		if err := s.cache.SetCredential(ctx, string(platform), cred); err != nil {
			logger.WithPlatform(string(platform)).Warn().Err(err).Msg("credential cache write failed")
		}
	}

	if !cred.IsActive {
		return nil, fmt.Sprintf("%v: credential for %s is inactive", common.ErrCredentialUnavailable, platform)
	}

	accessToken, err := s.vault.Decrypt(cred.AccessToken)
	if err != nil {
		return nil, fmt.Sprintf("%v: access token: %v", common.ErrDecryptionFailure, err)
	}

	out := &crosspost.Credentials{AccessToken: accessToken}
	if cred.RefreshToken != nil && *cred.RefreshToken != "" {
		refreshToken, err := s.vault.Decrypt(*cred.RefreshToken)
		if err != nil {
			return nil, fmt.Sprintf("%v: refresh token: %v", common.ErrDecryptionFailure, err)
		}
		out.RefreshToken = refreshToken
	}
	if cred.Config != nil {
		out.Config = *cred.Config
	}
	return out, ""
}

// finish records the attempt in the ledger and converts the outcome into
// the per-platform result
func (s *crosspostService) finish(contentID uint64, platform domain.Platform, outcome crosspost.Outcome, start time.Time) domain.PlatformResult {
	rec := &domain.DeliveryRecord{
		ContentID: contentID,
		Platform:  platform,
	}
	result := domain.PlatformResult{Success: outcome.Success}

	if outcome.Success {
		rec.Status = domain.DeliverySuccess
		if outcome.PlatformPostID != "" {
			rec.PlatformPostID = &outcome.PlatformPostID
			result.PlatformPostID = outcome.PlatformPostID
		}
		if outcome.PostURL != "" {
			rec.PostURL = &outcome.PostURL
			result.PostURL = outcome.PostURL
		}
	} else {
		rec.Status = domain.DeliveryFailed
		msg := outcome.Error
		if msg == "" {
			msg = common.ErrPublishFailure.Error()
		}
		rec.ErrorMessage = &msg
		result.Error = msg
	}

	log := logger.WithPlatform(string(platform))
	if err := s.ledger.RecordAttempt(rec); err != nil {
		log.Error().Err(err).Uint64("content_id", contentID).Msg("ledger write failed")
		if result.Success {
			// The remote post went out; report it even if bookkeeping lagged
			result.Error = ""
		} else if result.Error == "" {
			result.Error = fmt.Sprintf("ledger write failed: %v", err)
		}
	}

	crosspost.ObservePublish(string(platform), outcome.Success, time.Since(start))
	if outcome.Success {
		log.Info().Uint64("content_id", contentID).Str("platform_post_id", outcome.PlatformPostID).Msg("crosspost delivered")
	} else {
		log.Warn().Uint64("content_id", contentID).Str("error", result.Error).Msg("crosspost failed")
	}

	return result
}

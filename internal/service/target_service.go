package service

import (
	"fmt"
	"strings"

	"github.com/blognest/blognest-backend/internal/common"
	"github.com/blognest/blognest-backend/internal/domain"
	"github.com/blognest/blognest-backend/internal/repository"
)

// TargetService manages per-post crosspost targets
type TargetService interface {
	List(contentID uint64) ([]domain.CrosspostTarget, error)
	Upsert(contentID uint64, req *domain.UpsertTargetRequest) (*domain.CrosspostTarget, error)
	Delete(contentID uint64, platform domain.Platform) error
}

type targetService struct {
	targets repository.TargetRepository
	posts   repository.PostRepository
}

// NewTargetService creates a new TargetService
func NewTargetService(targets repository.TargetRepository, posts repository.PostRepository) TargetService {
	return &targetService{targets: targets, posts: posts}
}

func (s *targetService) List(contentID uint64) ([]domain.CrosspostTarget, error) {
	return s.targets.FindByContentID(contentID)
}

func (s *targetService) Upsert(contentID uint64, req *domain.UpsertTargetRequest) (*domain.CrosspostTarget, error) {
	platform := domain.Platform(strings.ToLower(string(req.Platform)))
	if !domain.IsValidPlatform(platform) {
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedPlatform, req.Platform)
	}

	// The post must exist before a target can point at it
	if _, err := s.posts.FindByID(contentID); err != nil {
		return nil, err
	}

	target := &domain.CrosspostTarget{
		ContentID:     contentID,
		Platform:      platform,
		Enabled:       true,
		CustomMessage: req.CustomMessage,
	}
	if req.Enabled != nil {
		target.Enabled = *req.Enabled
	}

	if err := s.targets.Upsert(target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *targetService) Delete(contentID uint64, platform domain.Platform) error {
	platform = domain.Platform(strings.ToLower(string(platform)))
	if !domain.IsValidPlatform(platform) {
		return fmt.Errorf("%w: %q", common.ErrUnsupportedPlatform, platform)
	}
	return s.targets.Delete(contentID, platform)
}

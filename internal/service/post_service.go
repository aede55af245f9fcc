package service

import (
	"context"

	"github.com/blognest/blognest-backend/internal/domain"
	"github.com/blognest/blognest-backend/internal/repository"
	"github.com/blognest/blognest-backend/pkg/cache"
)

// PostService exposes the content store read model
type PostService interface {
	GetPost(ctx context.Context, id uint64) (*domain.PostResponse, error)
	ListPosts(page, limit int) ([]domain.PostResponse, int64, error)
}

type postService struct {
	repo  repository.PostRepository
	cache cache.Service
}

// NewPostService creates a new PostService
func NewPostService(repo repository.PostRepository, cacheService cache.Service) PostService {
	return &postService{repo: repo, cache: cacheService}
}

func (s *postService) GetPost(ctx context.Context, id uint64) (*domain.PostResponse, error) {
	var cached domain.PostResponse
	if err := s.cache.GetPost(ctx, id, &cached); err == nil {
		return &cached, nil
	}

	post, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	resp := post.ToResponse()
	_ = s.cache.SetPost(ctx, id, resp)
	return &resp, nil
}

func (s *postService) ListPosts(page, limit int) ([]domain.PostResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	posts, total, err := s.repo.List(page, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.PostResponse, len(posts))
	for i, post := range posts {
		out[i] = post.ToResponse()
	}
	return out, total, nil
}

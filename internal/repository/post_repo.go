package repository

import (
	"errors"

	"github.com/blognest/blognest-backend/internal/common"
	"github.com/blognest/blognest-backend/internal/domain"
	"gorm.io/gorm"
)

// PostRepository is the content store read model
type PostRepository interface {
	FindByID(id uint64) (*domain.Post, error)
	FindBySlug(slug string) (*domain.Post, error)
	List(page, limit int) ([]*domain.Post, int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) FindByID(id uint64) (*domain.Post, error) {
	var post domain.Post
	err := r.db.Where("id = ? AND status = 'published'", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindBySlug(slug string) (*domain.Post, error) {
	var post domain.Post
	err := r.db.Where("slug = ? AND status = 'published'", slug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(page, limit int) ([]*domain.Post, int64, error) {
	var posts []*domain.Post
	var total int64

	query := r.db.Model(&domain.Post{}).Where("status = 'published'")
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

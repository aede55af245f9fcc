package repository

import (
	"github.com/blognest/blognest-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TargetRepository stores crosspost targets per post
type TargetRepository interface {
	FindByContentID(contentID uint64) ([]domain.CrosspostTarget, error)
	FindEnabledByContentID(contentID uint64) ([]domain.CrosspostTarget, error)
	Upsert(target *domain.CrosspostTarget) error
	Delete(contentID uint64, platform domain.Platform) error
}

type targetRepository struct {
	db *gorm.DB
}

// NewTargetRepository creates a new TargetRepository
func NewTargetRepository(db *gorm.DB) TargetRepository {
	return &targetRepository{db: db}
}

func (r *targetRepository) FindByContentID(contentID uint64) ([]domain.CrosspostTarget, error) {
	var targets []domain.CrosspostTarget
	err := r.db.Where("content_id = ?", contentID).Order("platform ASC").Find(&targets).Error
	return targets, err
}

func (r *targetRepository) FindEnabledByContentID(contentID uint64) ([]domain.CrosspostTarget, error) {
	var targets []domain.CrosspostTarget
	err := r.db.Where("content_id = ? AND enabled = ?", contentID, true).
		Order("platform ASC").Find(&targets).Error
	return targets, err
}

// Upsert creates or updates the target keyed on (content_id, platform)
func (r *targetRepository) Upsert(target *domain.CrosspostTarget) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "content_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "custom_message", "updated_at"}),
	}).Create(target).Error
}

func (r *targetRepository) Delete(contentID uint64, platform domain.Platform) error {
	return r.db.Where("content_id = ? AND platform = ?", contentID, platform).
		Delete(&domain.CrosspostTarget{}).Error
}

package repository

import (
	"errors"
	"time"

	"github.com/blognest/blognest-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeliveryRepository is the crosspost delivery ledger
type DeliveryRepository interface {
	Find(contentID uint64, platform domain.Platform) (*domain.DeliveryRecord, error)
	FindByContentID(contentID uint64) ([]domain.DeliveryRecord, error)
	RecordAttempt(rec *domain.DeliveryRecord) error
}

type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository creates a new DeliveryRepository
func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Find(contentID uint64, platform domain.Platform) (*domain.DeliveryRecord, error) {
	var rec domain.DeliveryRecord
	err := r.db.Where("content_id = ? AND platform = ?", contentID, platform).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *deliveryRepository) FindByContentID(contentID uint64) ([]domain.DeliveryRecord, error) {
	var recs []domain.DeliveryRecord
	err := r.db.Where("content_id = ?", contentID).Order("platform ASC").Find(&recs).Error
	return recs, err
}

// RecordAttempt upserts one attempt outcome atomically on the
// (content_id, platform) unique key. The retry counter increments
// server-side so two racing runs cannot lose an attempt; prior
// platform_post_id and post_url survive unless the new attempt carries
// replacements; posted_at is written only on success.
func (r *deliveryRepository) RecordAttempt(rec *domain.DeliveryRecord) error {
	now := time.Now()

	assignments := map[string]interface{}{
		"status":        rec.Status,
		"error_message": rec.ErrorMessage,
		"retry_count":   gorm.Expr("retry_count + 1"),
		"updated_at":    now,
	}
	if rec.PlatformPostID != nil {
		assignments["platform_post_id"] = *rec.PlatformPostID
	}
	if rec.PostURL != nil {
		assignments["post_url"] = *rec.PostURL
	}
	if rec.Status == domain.DeliverySuccess {
		postedAt := rec.PostedAt
		if postedAt == nil {
			postedAt = &now
		}
		assignments["posted_at"] = *postedAt
	}

	// First attempt counts as one
	if rec.RetryCount == 0 {
		rec.RetryCount = 1
	}
	if rec.Status == domain.DeliverySuccess && rec.PostedAt == nil {
		rec.PostedAt = &now
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "content_id"}, {Name: "platform"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(rec).Error
}

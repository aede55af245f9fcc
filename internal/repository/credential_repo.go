package repository

import (
	"errors"
	"time"

	"github.com/blognest/blognest-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CredentialRepository stores per-platform API credentials
type CredentialRepository interface {
	FindByPlatform(platform domain.Platform) (*domain.PlatformCredential, error)
	FindAll() ([]domain.PlatformCredential, error)
	Upsert(cred *domain.PlatformCredential) error
	SetActive(platform domain.Platform, active bool) error
	TouchLastUsed(platform domain.Platform, at time.Time) error
}

type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new CredentialRepository
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) FindByPlatform(platform domain.Platform) (*domain.PlatformCredential, error) {
	var cred domain.PlatformCredential
	err := r.db.Where("platform = ?", platform).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepository) FindAll() ([]domain.PlatformCredential, error) {
	var creds []domain.PlatformCredential
	err := r.db.Order("platform ASC").Find(&creds).Error
	return creds, err
}

// Upsert creates or rotates the credential for its platform
func (r *credentialRepository) Upsert(cred *domain.PlatformCredential) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"is_active", "access_token", "refresh_token", "config",
			"token_expires_at", "updated_at",
		}),
	}).Create(cred).Error
}

func (r *credentialRepository) SetActive(platform domain.Platform, active bool) error {
	res := r.db.Model(&domain.PlatformCredential{}).
		Where("platform = ?", platform).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *credentialRepository) TouchLastUsed(platform domain.Platform, at time.Time) error {
	return r.db.Model(&domain.PlatformCredential{}).
		Where("platform = ?", platform).
		UpdateColumn("last_used_at", at).Error
}

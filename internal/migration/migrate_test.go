package migration

import (
	"testing"

	"github.com/blognest/blognest-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSeedCredentialRowsAreInactive(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.PlatformCredential{}))

	require.NoError(t, seedCredentialRows(db))

	var rows []domain.PlatformCredential
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, len(domain.AllPlatforms))
	for _, row := range rows {
		// Placeholder rows must stay unusable until an admin configures them
		assert.False(t, row.IsActive, "platform %s seeded active", row.Platform)
		assert.Empty(t, row.AccessToken)
	}
}

package seed

import (
	"context"
	"errors"
	"time"

	riskdomain "github.com/james21411/Projet-scolapp-sub004/internal/risk/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnsureRiskDefaults writes the bootstrap risk bands when no settings row
// exists yet. Idempotent; an existing configuration is never overwritten.
func EnsureRiskDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&riskdomain.Settings{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return tx.Create(&riskdomain.Settings{
			ID:        1,
			Levels:    datatypes.NewJSONSlice(riskdomain.DefaultBands()),
			UpdatedAt: time.Now().UTC(),
		}).Error
	})
}

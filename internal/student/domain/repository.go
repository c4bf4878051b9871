package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository exposes the student directory to the finance core.
type Repository interface {
	GetByID(ctx context.Context, db *gorm.DB, id string) (*Student, error)
	ListByClass(ctx context.Context, db *gorm.DB, className, schoolYear string) ([]Student, error)
	ListClasses(ctx context.Context, db *gorm.DB, schoolYear string) ([]string, error)
	// UpdateClass rewrites the class pointer only. Callers own transactional
	// scope via the db handle.
	UpdateClass(ctx context.Context, db *gorm.DB, id, className string) error
	UpdateStatus(ctx context.Context, db *gorm.DB, id, status string) error
}

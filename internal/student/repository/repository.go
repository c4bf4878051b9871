package repository

import (
	"context"
	"errors"
	"time"

	"github.com/james21411/Projet-scolapp-sub004/internal/student/domain"
	"gorm.io/gorm"
)

type gormRepository struct{}

// Provide returns the gorm-backed student directory.
func Provide() domain.Repository {
	return gormRepository{}
}

func (gormRepository) GetByID(ctx context.Context, db *gorm.DB, id string) (*domain.Student, error) {
	var student domain.Student
	err := db.WithContext(ctx).First(&student, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (gormRepository) ListByClass(ctx context.Context, db *gorm.DB, className, schoolYear string) ([]domain.Student, error) {
	var students []domain.Student
	err := db.WithContext(ctx).
		Where("class_name = ? AND school_year = ?", className, schoolYear).
		Order("full_name ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (gormRepository) ListClasses(ctx context.Context, db *gorm.DB, schoolYear string) ([]string, error) {
	var classes []string
	err := db.WithContext(ctx).
		Model(&domain.Student{}).
		Distinct("class_name").
		Where("school_year = ?", schoolYear).
		Order("class_name ASC").
		Pluck("class_name", &classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (gormRepository) UpdateClass(ctx context.Context, db *gorm.DB, id, className string) error {
	result := db.WithContext(ctx).
		Model(&domain.Student{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"class_name": className,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}

func (gormRepository) UpdateStatus(ctx context.Context, db *gorm.DB, id, status string) error {
	result := db.WithContext(ctx).
		Model(&domain.Student{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}

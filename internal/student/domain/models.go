package domain

import (
	"errors"
	"time"
)

// Status values mirrored from the enrollment subsystem. The finance core only
// reads them; StatusPreRegistered students become StatusActive once their
// registration fee payment is found.
const (
	StatusPreRegistered = "pre_registered"
	StatusActive        = "active"
)

// Student is the read-mostly collaborator record the finance core consumes.
// Only the class pointer is ever written, and only by the transfer handler.
type Student struct {
	ID         string    `gorm:"primaryKey;type:text"`
	FullName   string    `gorm:"type:text;not null"`
	ClassName  string    `gorm:"type:text;not null;index"`
	SchoolYear string    `gorm:"type:text;not null;index"`
	Status     string    `gorm:"type:text;not null;default:'active'"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Student) TableName() string { return "students" }

var (
	ErrStudentNotFound = errors.New("student_not_found")
)

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Common audit actions emitted by the finance core.
const (
	ActionPaymentRecord      = "payment.record"
	ActionPaymentUpdate      = "payment.update"
	ActionFeeStructureUpsert = "fee_structure.upsert"
	ActionRiskSettingsUpdate = "risk_settings.update"
	ActionStudentTransfer    = "student.transfer"
)

// AuditLog captures an immutable record of a finance action.
type AuditLog struct {
	ID              snowflake.ID      `gorm:"primaryKey"`
	Action          string            `gorm:"type:text;not null;index"`
	TargetType      string            `gorm:"type:text;not null"`
	TargetID        *string           `gorm:"type:text"`
	Cashier         *string           `gorm:"type:text"`
	CashierUsername *string           `gorm:"type:text;index"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	RequestID       *string           `gorm:"type:text"`
	IPAddress       *string           `gorm:"type:text"`
	UserAgent       *string           `gorm:"type:text"`
	CreatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }

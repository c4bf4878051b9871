package events

// Finance event types published to the outbox for the reporting side.
const (
	EventPaymentRecorded     = "payment.recorded"
	EventPaymentCorrected    = "payment.corrected"
	EventFeeStructureUpdated = "fee_structure.updated"
	EventStudentTransferred  = "student.class_changed"
	EventRiskSettingsUpdated = "risk_settings.updated"
)

// PaymentPayload carries the minimal data needed to roll up a payment event.
type PaymentPayload struct {
	PaymentID  string `json:"payment_id"`
	StudentID  string `json:"student_id"`
	SchoolYear string `json:"school_year"`
	Amount     int64  `json:"amount"`
	Method     string `json:"method"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p PaymentPayload) ToMap() map[string]any {
	return map[string]any{
		"payment_id":  p.PaymentID,
		"student_id":  p.StudentID,
		"school_year": p.SchoolYear,
		"amount":      p.Amount,
		"method":      p.Method,
	}
}

// TransferPayload carries the minimal data describing a class change.
type TransferPayload struct {
	StudentID        string `json:"student_id"`
	SchoolYear       string `json:"school_year"`
	FromClass        string `json:"from_class"`
	ToClass          string `json:"to_class"`
	MigratedPayments int64  `json:"migrated_payments"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p TransferPayload) ToMap() map[string]any {
	return map[string]any{
		"student_id":        p.StudentID,
		"school_year":       p.SchoolYear,
		"from_class":        p.FromClass,
		"to_class":          p.ToClass,
		"migrated_payments": p.MigratedPayments,
	}
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/james21411/Projet-scolapp-sub004/internal/audit/domain"
	"github.com/james21411/Projet-scolapp-sub004/internal/auditcontext"
	"github.com/james21411/Projet-scolapp-sub004/internal/clock"
	"github.com/james21411/Projet-scolapp-sub004/internal/events"
	paymentdomain "github.com/james21411/Projet-scolapp-sub004/internal/payment/domain"
	studentdomain "github.com/james21411/Projet-scolapp-sub004/internal/student/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// registrationKeyword tags the payment covering the registration fee. The
// surrounding system writes French reasons ("Frais d'inscription").
const registrationKeyword = "inscription"

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clk         clock.Clock
	genID       *snowflake.Node
	studentRepo studentdomain.Repository
	auditSvc    auditdomain.Service
	outbox      *events.Outbox
}

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	GenID       *snowflake.Node
	StudentRepo studentdomain.Repository
	AuditSvc    auditdomain.Service `optional:"true"`
	Outbox      *events.Outbox      `optional:"true"`
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("payment.service"),
		clk:         p.Clock,
		genID:       p.GenID,
		studentRepo: p.StudentRepo,
		auditSvc:    p.AuditSvc,
		outbox:      p.Outbox,
	}
}

func (s *Service) Record(ctx context.Context, req paymentdomain.RecordRequest) (*paymentdomain.Payment, error) {
	studentID := strings.TrimSpace(req.StudentID)
	schoolYear := strings.TrimSpace(req.SchoolYear)
	if studentID == "" {
		return nil, paymentdomain.ErrInvalidStudent
	}
	if schoolYear == "" {
		return nil, paymentdomain.ErrInvalidSchoolYear
	}
	if req.Amount <= 0 {
		return nil, paymentdomain.ErrInvalidAmount
	}
	if !req.Method.Valid() {
		return nil, paymentdomain.ErrInvalidMethod
	}
	if err := validateAllocation(req.InstallmentsPaid, req.Amount); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetByID(ctx, s.db, studentID)
	if err != nil {
		return nil, err
	}

	paidAt := s.clk.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	cashier, username := req.Cashier, req.CashierUsername
	if cashier == "" && username == "" {
		cashier, username = auditcontext.CashierFromContext(ctx)
	}

	payment := paymentdomain.Payment{
		ID:              s.genID.Generate(),
		StudentID:       studentID,
		SchoolYear:      schoolYear,
		Amount:          req.Amount,
		PaidAt:          paidAt,
		Method:          req.Method,
		Reason:          strings.TrimSpace(req.Reason),
		Cashier:         cashier,
		CashierUsername: username,
		CreatedAt:       s.clk.Now(),
		UpdatedAt:       s.clk.Now(),
	}
	if len(req.InstallmentsPaid) > 0 {
		payment.InstallmentsPaid = datatypes.NewJSONSlice(req.InstallmentsPaid)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		// The registration fee payment completes enrollment.
		if student.Status == studentdomain.StatusPreRegistered && isRegistrationPayment(payment) {
			if err := s.studentRepo.UpdateStatus(ctx, tx, student.ID, studentdomain.StatusActive); err != nil {
				return err
			}
		}

		if s.outbox != nil {
			return s.outbox.PublishTx(ctx, tx, events.Event{
				Type: events.EventPaymentRecorded,
				Payload: events.PaymentPayload{
					PaymentID:  payment.ID.String(),
					StudentID:  studentID,
					SchoolYear: schoolYear,
					Amount:     req.Amount,
					Method:     string(req.Method),
				}.ToMap(),
				DedupeKey: "payment:" + payment.ID.String(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.auditSvc != nil {
		targetID := payment.ID.String()
		s.auditSvc.Log(ctx, auditdomain.ActionPaymentRecord, "payment", &targetID, map[string]any{
			"student_id":  studentID,
			"school_year": schoolYear,
			"amount":      req.Amount,
			"method":      string(req.Method),
		})
	}

	return &payment, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req paymentdomain.UpdateRequest) (*paymentdomain.Payment, error) {
	payment, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, paymentdomain.ErrInvalidAmount
		}
		payment.Amount = *req.Amount
	}
	if req.Method != nil {
		if !req.Method.Valid() {
			return nil, paymentdomain.ErrInvalidMethod
		}
		payment.Method = *req.Method
	}
	if req.Reason != nil {
		payment.Reason = strings.TrimSpace(*req.Reason)
	}
	switch {
	case req.ClearAllocation:
		payment.InstallmentsPaid = nil
	case len(req.InstallmentsPaid) > 0:
		payment.InstallmentsPaid = datatypes.NewJSONSlice(req.InstallmentsPaid)
	}
	if err := validateAllocation(payment.InstallmentsPaid, payment.Amount); err != nil {
		return nil, err
	}
	payment.UpdatedAt = s.clk.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(payment).Error; err != nil {
			return err
		}
		if s.outbox != nil {
			return s.outbox.PublishTx(ctx, tx, events.Event{
				Type: events.EventPaymentCorrected,
				Payload: events.PaymentPayload{
					PaymentID:  payment.ID.String(),
					StudentID:  payment.StudentID,
					SchoolYear: payment.SchoolYear,
					Amount:     payment.Amount,
					Method:     string(payment.Method),
				}.ToMap(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.auditSvc != nil {
		targetID := payment.ID.String()
		s.auditSvc.Log(ctx, auditdomain.ActionPaymentUpdate, "payment", &targetID, map[string]any{
			"student_id": payment.StudentID,
			"amount":     payment.Amount,
		})
	}

	return payment, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*paymentdomain.Payment, error) {
	var payment paymentdomain.Payment
	err := s.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, paymentdomain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *Service) ListByStudent(ctx context.Context, studentID, schoolYear string) ([]paymentdomain.Payment, error) {
	var payments []paymentdomain.Payment
	err := s.db.WithContext(ctx).
		Where("student_id = ? AND school_year = ?", strings.TrimSpace(studentID), strings.TrimSpace(schoolYear)).
		Order("paid_at ASC, id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *Service) FindRegistrationPayment(ctx context.Context, studentID, schoolYear string) (*paymentdomain.Payment, error) {
	payments, err := s.ListByStudent(ctx, studentID, schoolYear)
	if err != nil {
		return nil, err
	}
	for i := range payments {
		if isRegistrationPayment(payments[i]) {
			return &payments[i], nil
		}
	}
	return nil, paymentdomain.ErrPaymentNotFound
}

func isRegistrationPayment(p paymentdomain.Payment) bool {
	if strings.Contains(strings.ToLower(p.Reason), registrationKeyword) {
		return true
	}
	for _, entry := range p.InstallmentsPaid {
		if strings.Contains(strings.ToLower(entry.InstallmentID), registrationKeyword) {
			return true
		}
	}
	return false
}

func validateAllocation(entries []paymentdomain.AllocationEntry, amount int64) error {
	var total int64
	for _, entry := range entries {
		if strings.TrimSpace(entry.InstallmentID) == "" || entry.Amount <= 0 {
			return paymentdomain.ErrInvalidAllocation
		}
		total += entry.Amount
	}
	if total > amount {
		return paymentdomain.ErrAllocationExceedsPay
	}
	return nil
}

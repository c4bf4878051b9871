package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/james21411/Projet-scolapp-sub004/internal/audit/domain"
	"github.com/james21411/Projet-scolapp-sub004/internal/events"
	feestructuredomain "github.com/james21411/Projet-scolapp-sub004/internal/feestructure/domain"
	paymentdomain "github.com/james21411/Projet-scolapp-sub004/internal/payment/domain"
	studentdomain "github.com/james21411/Projet-scolapp-sub004/internal/student/domain"
	transferdomain "github.com/james21411/Projet-scolapp-sub004/internal/transfer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	studentRepo  studentdomain.Repository
	structureSvc feestructuredomain.Service
	auditSvc     auditdomain.Service
	outbox       *events.Outbox
}

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	StudentRepo  studentdomain.Repository
	StructureSvc feestructuredomain.Service
	AuditSvc     auditdomain.Service `optional:"true"`
	Outbox       *events.Outbox      `optional:"true"`
}

func NewService(p Params) transferdomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("transfer.service"),
		studentRepo:  p.StudentRepo,
		structureSvc: p.StructureSvc,
		auditSvc:     p.AuditSvc,
		outbox:       p.Outbox,
	}
}

func (s *Service) ChangeClass(ctx context.Context, req transferdomain.Request) (*transferdomain.Result, error) {
	newClass := strings.TrimSpace(req.NewClass)
	if newClass == "" {
		return nil, transferdomain.ErrInvalidClass
	}

	student, err := s.studentRepo.GetByID(ctx, s.db, req.StudentID)
	if err != nil {
		return nil, err
	}
	if student.ClassName == newClass {
		return nil, transferdomain.ErrSameClass
	}

	// The target must be priced before any student points at it.
	_, err = s.structureSvc.Get(ctx, newClass, student.SchoolYear)
	if errors.Is(err, feestructuredomain.ErrNotFound) {
		return nil, transferdomain.ErrMissingFeeStructure
	}
	if err != nil {
		return nil, err
	}

	result := &transferdomain.Result{
		StudentID:        student.ID,
		FromClass:        student.ClassName,
		ToClass:          newClass,
		SchoolYear:       student.SchoolYear,
		MigratedPayments: req.MigratePayments,
	}

	// One transaction: a reader must never observe the student in the new
	// class while still carrying old-class installment allocations.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.studentRepo.UpdateClass(ctx, tx, student.ID, newClass); err != nil {
			return err
		}

		if req.MigratePayments {
			// Installment ids are class-scoped: explicit allocations cannot
			// be carried over. Clearing them lets the resolver re-match each
			// payment heuristically against the new structure on read, with
			// total paid untouched by construction.
			var candidates []paymentdomain.Payment
			err := tx.
				Where("student_id = ? AND school_year = ?", student.ID, student.SchoolYear).
				Find(&candidates).Error
			if err != nil {
				return err
			}

			ids := make([]snowflake.ID, 0, len(candidates))
			for _, payment := range candidates {
				if payment.HasExplicitAllocation() {
					ids = append(ids, payment.ID)
				}
			}
			if len(ids) > 0 {
				err := tx.Model(&paymentdomain.Payment{}).
					Where("id IN ?", ids).
					Update("installments_paid", gorm.Expr("NULL")).Error
				if err != nil {
					return err
				}
			}
			result.ClearedPayments = int64(len(ids))
		}

		if s.outbox != nil {
			return s.outbox.PublishTx(ctx, tx, events.Event{
				Type: events.EventStudentTransferred,
				Payload: events.TransferPayload{
					StudentID:        student.ID,
					SchoolYear:       student.SchoolYear,
					FromClass:        result.FromClass,
					ToClass:          newClass,
					MigratedPayments: result.ClearedPayments,
				}.ToMap(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.auditSvc != nil {
		targetID := student.ID
		s.auditSvc.Log(ctx, auditdomain.ActionStudentTransfer, "student", &targetID, map[string]any{
			"from_class":       result.FromClass,
			"to_class":         newClass,
			"school_year":      student.SchoolYear,
			"migrate_payments": req.MigratePayments,
			"cleared_payments": result.ClearedPayments,
		})
	}

	s.log.Info("student transferred",
		zap.String("student_id", student.ID),
		zap.String("from_class", result.FromClass),
		zap.String("to_class", newClass),
		zap.Bool("migrate_payments", req.MigratePayments),
	)
	return result, nil
}

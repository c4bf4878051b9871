package service

import (
	"context"
	"sort"
	"strings"

	"github.com/james21411/Projet-scolapp-sub004/internal/allocation"
	balancedomain "github.com/james21411/Projet-scolapp-sub004/internal/balance/domain"
	"github.com/james21411/Projet-scolapp-sub004/internal/clock"
	feestructuredomain "github.com/james21411/Projet-scolapp-sub004/internal/feestructure/domain"
	paymentdomain "github.com/james21411/Projet-scolapp-sub004/internal/payment/domain"
	studentdomain "github.com/james21411/Projet-scolapp-sub004/internal/student/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// summaryWorkers bounds the per-student fan-out of class and school rollups.
const summaryWorkers = 8

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	clk          clock.Clock
	studentRepo  studentdomain.Repository
	paymentSvc   paymentdomain.Service
	structureSvc feestructuredomain.Service
}

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	StudentRepo  studentdomain.Repository
	PaymentSvc   paymentdomain.Service
	StructureSvc feestructuredomain.Service
}

func NewService(p Params) balancedomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("balance.service"),
		clk:          p.Clock,
		studentRepo:  p.StudentRepo,
		paymentSvc:   p.PaymentSvc,
		structureSvc: p.StructureSvc,
	}
}

func (s *Service) Summarize(ctx context.Context, studentID, schoolYear string) (*balancedomain.StudentFinancialSummary, error) {
	schoolYear = strings.TrimSpace(schoolYear)
	if schoolYear == "" {
		return nil, balancedomain.ErrInvalidSchoolYear
	}

	student, err := s.studentRepo.GetByID(ctx, s.db, studentID)
	if err != nil {
		return nil, err
	}
	return s.summarizeStudent(ctx, student, schoolYear)
}

func (s *Service) summarizeStudent(ctx context.Context, student *studentdomain.Student, schoolYear string) (*balancedomain.StudentFinancialSummary, error) {
	// A missing structure means "cannot compute due", never "due is zero".
	structure, err := s.structureSvc.Get(ctx, student.ClassName, schoolYear)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentSvc.ListByStudent(ctx, student.ID, schoolYear)
	if err != nil {
		return nil, err
	}

	resolved := allocation.Resolve(payments, *structure, nil)
	now := s.clk.Now()

	summary := &balancedomain.StudentFinancialSummary{
		StudentID:      student.ID,
		FullName:       student.FullName,
		ClassName:      student.ClassName,
		SchoolYear:     schoolYear,
		TotalDue:       structure.Total,
		UnassignedPaid: resolved.Unassigned,
	}

	installments := feestructuredomain.NormalizeInstallments(structure.Installments)
	summary.PerInstallment = make([]balancedomain.InstallmentBalance, 0, len(installments))
	for _, inst := range installments {
		paid := resolved.Paid(inst.ID)
		remaining := inst.Amount - paid
		if remaining < 0 {
			remaining = 0
		}

		status := balancedomain.StatusPending
		switch {
		case remaining == 0:
			status = balancedomain.StatusPaid
		case inst.DueDate.Before(now):
			status = balancedomain.StatusOverdue
		}

		summary.PerInstallment = append(summary.PerInstallment, balancedomain.InstallmentBalance{
			InstallmentID: inst.ID,
			Name:          inst.Name,
			Due:           inst.Amount,
			Paid:          paid,
			Remaining:     remaining,
			DueDate:       inst.DueDate,
			Status:        status,
		})
	}

	// The raw ledger sum: a student is never shown as owing more than truly
	// paid even when heuristic matching fails.
	for _, payment := range payments {
		summary.TotalPaid += payment.Amount
		if summary.LastPaymentAt == nil || payment.PaidAt.After(*summary.LastPaymentAt) {
			paidAt := payment.PaidAt
			summary.LastPaymentAt = &paidAt
			summary.LastPaymentAmt = payment.Amount
		}
	}

	summary.Outstanding = summary.TotalDue - summary.TotalPaid
	if summary.Outstanding < 0 {
		summary.Outstanding = 0
	}
	if summary.TotalDue > 0 {
		summary.PaymentRate = float64(summary.TotalPaid) / float64(summary.TotalDue) * 100
	}
	return summary, nil
}

// ClassSummary folds per-student summaries. Students are independent, so the
// fan-out is bounded-parallel and aborts cleanly on context cancellation.
func (s *Service) ClassSummary(ctx context.Context, className, schoolYear string) (*balancedomain.ClassSummary, error) {
	className = strings.TrimSpace(className)
	schoolYear = strings.TrimSpace(schoolYear)
	if className == "" {
		return nil, balancedomain.ErrInvalidClassName
	}
	if schoolYear == "" {
		return nil, balancedomain.ErrInvalidSchoolYear
	}

	students, err := s.studentRepo.ListByClass(ctx, s.db, className, schoolYear)
	if err != nil {
		return nil, err
	}

	summaries, err := s.summarizeAll(ctx, students, schoolYear)
	if err != nil {
		return nil, err
	}

	summary := &balancedomain.ClassSummary{
		ClassName:  className,
		SchoolYear: schoolYear,
		Students:   summaries,
	}
	foldStudents(summary, summaries)
	return summary, nil
}

func (s *Service) OverallSummary(ctx context.Context, schoolYear string) (*balancedomain.OverallSummary, error) {
	schoolYear = strings.TrimSpace(schoolYear)
	if schoolYear == "" {
		return nil, balancedomain.ErrInvalidSchoolYear
	}

	classes, err := s.studentRepo.ListClasses(ctx, s.db, schoolYear)
	if err != nil {
		return nil, err
	}

	overall := &balancedomain.OverallSummary{
		SchoolYear: schoolYear,
		Classes:    make([]balancedomain.ClassSummary, 0, len(classes)),
	}

	var totalRate float64
	for _, className := range classes {
		class, err := s.ClassSummary(ctx, className, schoolYear)
		if err != nil {
			return nil, err
		}
		class.Students = nil

		overall.Classes = append(overall.Classes, *class)
		overall.StudentCount += class.StudentCount
		overall.TotalDue += class.TotalDue
		overall.TotalPaid += class.TotalPaid
		overall.Outstanding += class.Outstanding
		totalRate += class.AveragePaymentRate * float64(class.StudentCount)
	}
	if overall.StudentCount > 0 {
		overall.AveragePaymentRate = totalRate / float64(overall.StudentCount)
	}
	return overall, nil
}

func (s *Service) summarizeAll(ctx context.Context, students []studentdomain.Student, schoolYear string) ([]balancedomain.StudentFinancialSummary, error) {
	summaries := make([]balancedomain.StudentFinancialSummary, len(students))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(summaryWorkers)
	for i := range students {
		i := i
		group.Go(func() error {
			summary, err := s.summarizeStudent(groupCtx, &students[i], schoolYear)
			if err != nil {
				return err
			}
			summaries[i] = *summary
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].FullName < summaries[j].FullName
	})
	return summaries, nil
}

func foldStudents(class *balancedomain.ClassSummary, summaries []balancedomain.StudentFinancialSummary) {
	var totalRate float64
	for _, summary := range summaries {
		class.StudentCount++
		class.TotalDue += summary.TotalDue
		class.TotalPaid += summary.TotalPaid
		class.Outstanding += summary.Outstanding
		totalRate += summary.PaymentRate
	}
	if class.StudentCount > 0 {
		class.AveragePaymentRate = totalRate / float64(class.StudentCount)
	}
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	auditdomain "github.com/james21411/Projet-scolapp-sub004/internal/audit/domain"
	"github.com/james21411/Projet-scolapp-sub004/internal/cache"
	"github.com/james21411/Projet-scolapp-sub004/internal/events"
	feestructuredomain "github.com/james21411/Projet-scolapp-sub004/internal/feestructure/domain"
	studentdomain "github.com/james21411/Projet-scolapp-sub004/internal/student/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const cacheTTL = 30 * time.Second

type structureKey struct {
	ClassName  string
	SchoolYear string
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	studentRepo studentdomain.Repository
	auditSvc    auditdomain.Service
	outbox      *events.Outbox
	lookups     *cache.TTLCache[structureKey, feestructuredomain.FeeStructure]
}

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	StudentRepo studentdomain.Repository
	AuditSvc    auditdomain.Service `optional:"true"`
	Outbox      *events.Outbox      `optional:"true"`
}

func NewService(p Params) feestructuredomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("feestructure.service"),
		studentRepo: p.StudentRepo,
		auditSvc:    p.AuditSvc,
		outbox:      p.Outbox,
		lookups:     cache.New[structureKey, feestructuredomain.FeeStructure](cacheTTL),
	}
}

func (s *Service) Get(ctx context.Context, className, schoolYear string) (*feestructuredomain.FeeStructure, error) {
	className = strings.TrimSpace(className)
	schoolYear = strings.TrimSpace(schoolYear)
	if className == "" {
		return nil, feestructuredomain.ErrInvalidClassName
	}
	if schoolYear == "" {
		return nil, feestructuredomain.ErrInvalidSchoolYear
	}

	key := structureKey{ClassName: className, SchoolYear: schoolYear}
	if cached, ok := s.lookups.Get(key); ok {
		return &cached, nil
	}

	var structure feestructuredomain.FeeStructure
	err := s.db.WithContext(ctx).
		First(&structure, "class_name = ? AND school_year = ?", className, schoolYear).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, feestructuredomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	s.lookups.Set(key, structure)
	return &structure, nil
}

func (s *Service) Upsert(ctx context.Context, req feestructuredomain.UpsertRequest) (*feestructuredomain.FeeStructure, error) {
	className := strings.TrimSpace(req.ClassName)
	schoolYear := strings.TrimSpace(req.SchoolYear)
	if className == "" {
		return nil, feestructuredomain.ErrInvalidClassName
	}
	if schoolYear == "" {
		return nil, feestructuredomain.ErrInvalidSchoolYear
	}
	if req.RegistrationFee < 0 {
		return nil, feestructuredomain.ErrNegativeAmount
	}

	installments := feestructuredomain.NormalizeInstallments(req.Installments)
	var installmentsTotal int64
	for _, inst := range installments {
		if inst.Amount < 0 {
			return nil, feestructuredomain.ErrNegativeAmount
		}
		installmentsTotal += inst.Amount
	}
	if req.Total != req.RegistrationFee+installmentsTotal {
		return nil, feestructuredomain.ErrTotalMismatch
	}

	now := time.Now().UTC()
	structure := feestructuredomain.FeeStructure{
		ClassName:       className,
		SchoolYear:      schoolYear,
		RegistrationFee: req.RegistrationFee,
		Total:           req.Total,
		Installments:    datatypes.NewJSONSlice(installments),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM fee_structures WHERE class_name = ? AND school_year = ?`,
			className, schoolYear,
		).Error; err != nil {
			return err
		}
		if err := tx.Create(&structure).Error; err != nil {
			return err
		}
		if s.outbox != nil {
			return s.outbox.PublishTx(ctx, tx, events.Event{
				Type: events.EventFeeStructureUpdated,
				Payload: map[string]any{
					"class_name":  className,
					"school_year": schoolYear,
					"total":       req.Total,
				},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.lookups.Invalidate(structureKey{ClassName: className, SchoolYear: schoolYear})

	if s.auditSvc != nil {
		targetID := className + "/" + schoolYear
		s.auditSvc.Log(ctx, auditdomain.ActionFeeStructureUpsert, "fee_structure", &targetID, map[string]any{
			"registration_fee": req.RegistrationFee,
			"total":            req.Total,
			"installments":     len(installments),
		})
	}

	return &structure, nil
}

func (s *Service) EnsureDefaults(ctx context.Context, schoolYear string) (int, error) {
	schoolYear = strings.TrimSpace(schoolYear)
	if schoolYear == "" {
		return 0, feestructuredomain.ErrInvalidSchoolYear
	}

	classes, err := s.studentRepo.ListClasses(ctx, s.db, schoolYear)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, className := range classes {
		_, err := s.Get(ctx, className, schoolYear)
		if err == nil {
			continue
		}
		if !errors.Is(err, feestructuredomain.ErrNotFound) {
			return created, err
		}

		now := time.Now().UTC()
		placeholder := feestructuredomain.FeeStructure{
			ClassName:    className,
			SchoolYear:   schoolYear,
			Installments: datatypes.NewJSONSlice([]feestructuredomain.Installment{}),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.db.WithContext(ctx).Create(&placeholder).Error; err != nil {
			return created, err
		}
		created++
	}

	if created > 0 {
		s.log.Info("created placeholder fee structures",
			zap.String("school_year", schoolYear),
			zap.Int("count", created),
		)
	}
	return created, nil
}

func (s *Service) RepairInstallmentIDs(ctx context.Context, schoolYear string) (int, error) {
	schoolYear = strings.TrimSpace(schoolYear)
	if schoolYear == "" {
		return 0, feestructuredomain.ErrInvalidSchoolYear
	}

	var structures []feestructuredomain.FeeStructure
	if err := s.db.WithContext(ctx).
		Where("school_year = ?", schoolYear).
		Find(&structures).Error; err != nil {
		return 0, err
	}

	repaired := 0
	for _, structure := range structures {
		normalized := feestructuredomain.NormalizeInstallments(structure.Installments)
		if installmentsEqual(structure.Installments, normalized) {
			continue
		}

		err := s.db.WithContext(ctx).
			Model(&feestructuredomain.FeeStructure{}).
			Where("class_name = ? AND school_year = ?", structure.ClassName, structure.SchoolYear).
			Updates(map[string]any{
				"installments": datatypes.NewJSONSlice(normalized),
				"updated_at":   time.Now().UTC(),
			}).Error
		if err != nil {
			return repaired, err
		}

		s.lookups.Invalidate(structureKey{ClassName: structure.ClassName, SchoolYear: structure.SchoolYear})
		repaired++
	}
	return repaired, nil
}

func installmentsEqual(a, b []feestructuredomain.Installment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}

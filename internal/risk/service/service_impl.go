package service

import (
	"context"
	"errors"
	"time"

	auditdomain "github.com/james21411/Projet-scolapp-sub004/internal/audit/domain"
	balancedomain "github.com/james21411/Projet-scolapp-sub004/internal/balance/domain"
	"github.com/james21411/Projet-scolapp-sub004/internal/events"
	riskdomain "github.com/james21411/Projet-scolapp-sub004/internal/risk/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// settingsRowID pins the single active configuration row.
const settingsRowID = 1

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	balanceSvc balancedomain.Service
	auditSvc   auditdomain.Service
	outbox     *events.Outbox
}

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	BalanceSvc balancedomain.Service
	AuditSvc   auditdomain.Service `optional:"true"`
	Outbox     *events.Outbox      `optional:"true"`
}

func NewService(p Params) riskdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("risk.service"),
		balanceSvc: p.BalanceSvc,
		auditSvc:   p.AuditSvc,
		outbox:     p.Outbox,
	}
}

func (s *Service) Bands(ctx context.Context) ([]riskdomain.Band, error) {
	var settings riskdomain.Settings
	err := s.db.WithContext(ctx).First(&settings, "id = ?", settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return riskdomain.DefaultBands(), nil
	}
	if err != nil {
		return nil, err
	}
	if len(settings.Levels) == 0 {
		return riskdomain.DefaultBands(), nil
	}
	return settings.Levels, nil
}

func (s *Service) SaveBands(ctx context.Context, bands []riskdomain.Band) error {
	if len(bands) == 0 {
		return riskdomain.ErrNoBands
	}
	for _, band := range bands {
		if band.Name == "" || band.Min < 0 || band.Max > 100 || band.Min >= band.Max {
			return riskdomain.ErrInvalidBand
		}
	}

	err := s.db.WithContext(ctx).Exec(
		`INSERT INTO finance_risk_settings (id, levels, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET levels = excluded.levels, updated_at = excluded.updated_at`,
		settingsRowID,
		datatypes.NewJSONSlice(bands),
		time.Now().UTC(),
	).Error
	if err != nil {
		return err
	}

	if s.outbox != nil {
		if err := s.outbox.Publish(ctx, events.Event{
			Type:    events.EventRiskSettingsUpdated,
			Payload: map[string]any{"bands": len(bands)},
		}); err != nil {
			s.log.Warn("risk settings event not published", zap.Error(err))
		}
	}
	if s.auditSvc != nil {
		s.auditSvc.Log(ctx, auditdomain.ActionRiskSettingsUpdate, "risk_settings", nil, map[string]any{
			"bands": len(bands),
		})
	}
	return nil
}

func (s *Service) ClassifyStudent(ctx context.Context, studentID, schoolYear string) (*riskdomain.StudentRisk, error) {
	bands, err := s.Bands(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := s.balanceSvc.Summarize(ctx, studentID, schoolYear)
	if err != nil {
		return nil, err
	}
	return classifySummary(summary, bands), nil
}

func (s *Service) ClassDistribution(ctx context.Context, className, schoolYear string) (*riskdomain.Distribution, error) {
	bands, err := s.Bands(ctx)
	if err != nil {
		return nil, err
	}

	class, err := s.balanceSvc.ClassSummary(ctx, className, schoolYear)
	if err != nil {
		return nil, err
	}

	dist := newDistribution(className, schoolYear, bands)
	for i := range class.Students {
		risk := classifySummary(&class.Students[i], bands)
		dist.Students = append(dist.Students, *risk)
		tally(dist, risk)
	}
	return dist, nil
}

func (s *Service) OverallDistribution(ctx context.Context, schoolYear string) (*riskdomain.Distribution, error) {
	bands, err := s.Bands(ctx)
	if err != nil {
		return nil, err
	}

	classes, err := s.balanceSvc.OverallSummary(ctx, schoolYear)
	if err != nil {
		return nil, err
	}

	dist := newDistribution("", schoolYear, bands)
	for _, class := range classes.Classes {
		classDist, err := s.ClassDistribution(ctx, class.ClassName, schoolYear)
		if err != nil {
			return nil, err
		}
		dist.StudentCount += classDist.StudentCount
		dist.Unclassified += classDist.Unclassified
		for name, count := range classDist.PerBand {
			dist.PerBand[name] += count
		}
	}
	return dist, nil
}

func classifySummary(summary *balancedomain.StudentFinancialSummary, bands []riskdomain.Band) *riskdomain.StudentRisk {
	risk := &riskdomain.StudentRisk{
		StudentID:   summary.StudentID,
		FullName:    summary.FullName,
		ClassName:   summary.ClassName,
		PaymentRate: summary.PaymentRate,
	}

	band, err := riskdomain.Classify(riskdomain.ClampRate(summary.PaymentRate), bands)
	if err != nil {
		// Misconfigured bands: surface the hole instead of guessing a tier.
		risk.Unclassified = true
		return risk
	}
	risk.Band = &band
	return risk
}

func newDistribution(className, schoolYear string, bands []riskdomain.Band) *riskdomain.Distribution {
	dist := &riskdomain.Distribution{
		ClassName:  className,
		SchoolYear: schoolYear,
		PerBand:    make(map[string]int, len(bands)),
	}
	for _, band := range bands {
		dist.PerBand[band.Name] = 0
	}
	return dist
}

func tally(dist *riskdomain.Distribution, risk *riskdomain.StudentRisk) {
	dist.StudentCount++
	if risk.Unclassified {
		dist.Unclassified++
		return
	}
	dist.PerBand[risk.Band.Name]++
}

package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/james21411/Projet-scolapp-sub004/internal/audit/domain"
	"github.com/james21411/Projet-scolapp-sub004/internal/auditcontext"
	"github.com/james21411/Projet-scolapp-sub004/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// Log writes an audit entry. Failures are logged and swallowed so a sink
// outage never blocks a cashier operation.
func (s *Service) Log(ctx context.Context, action, targetType string, targetID *string, metadata map[string]any) {
	entry := &domain.AuditLog{
		ID:         s.genID.Generate(),
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   datatypes.JSONMap{},
	}
	for key, value := range logger.MaskJSON(metadata) {
		entry.Metadata[key] = value
	}

	if cashier, username := auditcontext.CashierFromContext(ctx); cashier != "" || username != "" {
		if cashier != "" {
			entry.Cashier = &cashier
		}
		if username != "" {
			entry.CashierUsername = &username
		}
	}
	if requestID := auditcontext.RequestIDFromContext(ctx); requestID != "" {
		entry.RequestID = &requestID
	}
	if ip := auditcontext.IPAddressFromContext(ctx); ip != "" {
		entry.IPAddress = &ip
	}
	if agent := auditcontext.UserAgentFromContext(ctx); agent != "" {
		entry.UserAgent = &agent
	}

	if err := s.repo.Insert(ctx, s.db, entry); err != nil {
		s.log.Warn("audit write failed",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

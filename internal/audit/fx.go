package audit

import (
	"github.com/james21411/Projet-scolapp-sub004/internal/audit/repository"
	"github.com/james21411/Projet-scolapp-sub004/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

package risk

import (
	"github.com/james21411/Projet-scolapp-sub004/internal/risk/service"
	"go.uber.org/fx"
)

var Module = fx.Module("risk.service",
	fx.Provide(service.NewService),
)

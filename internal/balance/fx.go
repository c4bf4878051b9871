package balance

import (
	"github.com/james21411/Projet-scolapp-sub004/internal/balance/service"
	"go.uber.org/fx"
)

var Module = fx.Module("balance.service",
	fx.Provide(service.NewService),
)

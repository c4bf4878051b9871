package feestructure

import (
	"github.com/james21411/Projet-scolapp-sub004/internal/feestructure/service"
	"go.uber.org/fx"
)

var Module = fx.Module("feestructure.service",
	fx.Provide(service.NewService),
)

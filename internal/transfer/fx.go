package transfer

import (
	"github.com/james21411/Projet-scolapp-sub004/internal/transfer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("transfer.service",
	fx.Provide(service.NewService),
)

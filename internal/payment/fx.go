package payment

import (
	"github.com/james21411/Projet-scolapp-sub004/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(service.NewService),
)

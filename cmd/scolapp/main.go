package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/james21411/Projet-scolapp-sub004/internal/audit"
	"github.com/james21411/Projet-scolapp-sub004/internal/balance"
	"github.com/james21411/Projet-scolapp-sub004/internal/clock"
	"github.com/james21411/Projet-scolapp-sub004/internal/config"
	"github.com/james21411/Projet-scolapp-sub004/internal/events"
	"github.com/james21411/Projet-scolapp-sub004/internal/feestructure"
	"github.com/james21411/Projet-scolapp-sub004/internal/migration"
	"github.com/james21411/Projet-scolapp-sub004/internal/observability/logger"
	"github.com/james21411/Projet-scolapp-sub004/internal/payment"
	"github.com/james21411/Projet-scolapp-sub004/internal/risk"
	"github.com/james21411/Projet-scolapp-sub004/internal/seed"
	"github.com/james21411/Projet-scolapp-sub004/internal/server"
	"github.com/james21411/Projet-scolapp-sub004/internal/student"
	"github.com/james21411/Projet-scolapp-sub004/internal/transfer"
	"github.com/james21411/Projet-scolapp-sub004/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		clock.Module,

		fx.Invoke(func(conn *gorm.DB) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			return seed.EnsureRiskDefaults(conn)
		}),

		fx.Provide(events.NewOutbox),
		audit.Module,
		student.Module,
		feestructure.Module,
		payment.Module,
		balance.Module,
		risk.Module,
		transfer.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}

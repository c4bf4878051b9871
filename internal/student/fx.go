package student

import (
	"github.com/james21411/Projet-scolapp-sub004/internal/student/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("student.directory",
	fx.Provide(repository.Provide),
)

package medicine

import (
	"github.com/smallbiznis/medipos/internal/medicine/repository"
	"github.com/smallbiznis/medipos/internal/medicine/service"
	"go.uber.org/fx"
)

var Module = fx.Module("medicine.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

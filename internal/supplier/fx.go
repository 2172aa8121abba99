package supplier

import (
	"github.com/smallbiznis/medipos/internal/supplier/repository"
	"github.com/smallbiznis/medipos/internal/supplier/service"
	"go.uber.org/fx"
)

var Module = fx.Module("supplier.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

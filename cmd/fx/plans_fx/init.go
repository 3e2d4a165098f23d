package plans_fx

import (
	"go.uber.org/fx"

	"tripnotes/internal/repositories"
	"tripnotes/internal/services"
)

var Module = fx.Provide(
	repositories.NewPlanRepository,
	services.NewPlanService,
	services.NewGenerationService,
)

package controllers_fx

import (
	"go.uber.org/fx"

	"tripnotes/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewPlanController))

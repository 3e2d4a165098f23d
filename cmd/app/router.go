package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tripnotes/internal/api/controllers"
	"tripnotes/internal/config"
	"tripnotes/pkg/middleware"
	"tripnotes/pkg/utils"
)

func ProvideRouter(
	cfg *config.AppConfig,
	logger *zap.Logger,
	db *gorm.DB,
	planController *controllers.PlanController) (http.Handler, error) {

	gin.SetMode(cfg.Server.RunMode)
	if err := utils.RegisterGinValidations(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.RecoveryWithLogger(logger))

	RegisterRoutes(r, db, planController)

	return r, nil
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, planController *controllers.PlanController) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			utils.RespondError(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		utils.RespondSuccess(c, gin.H{"status": "ok"}, "")
	})

	planController.Register(r)
}

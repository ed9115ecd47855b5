package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NovaClinicas/clinic-scheduler/internal/config"
	"github.com/NovaClinicas/clinic-scheduler/internal/coordination"
	dbpkg "github.com/NovaClinicas/clinic-scheduler/internal/db"
	infraRepo "github.com/NovaClinicas/clinic-scheduler/internal/infra/repository"
	"github.com/NovaClinicas/clinic-scheduler/internal/logging"
	"github.com/NovaClinicas/clinic-scheduler/internal/reaper"
	"github.com/NovaClinicas/clinic-scheduler/internal/routes"
	ucAppointment "github.com/NovaClinicas/clinic-scheduler/internal/usecase/appointment"
)

func main() {

	cfg := config.Load()

	logger := logging.NewLogger(cfg.Env)
	defer logger.Sync()

	db := dbpkg.NewDB(cfg)

	coord, err := coordination.NewRedisStore(cfg.RedisURL)
	if err != nil {
		logger.Fatal("failed to connect redis", zap.Error(err))
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, coord, logger)

	// Background sweep that flips lapsed holds to expired so their
	// slots become bookable again without waiting for traffic.
	expireHoldsUC := ucAppointment.NewExpireHolds(infraRepo.NewAppointmentGormRepository(db))
	holdReaper := reaper.New(expireHoldsUC, cfg.ReaperInterval, logger)
	holdReaper.Start(context.Background())
	defer holdReaper.Stop()

	logger.Info("server starting", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

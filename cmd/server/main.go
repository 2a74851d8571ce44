package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/jchiwaii/blood-donations-sub000/internal/config"
	"github.com/jchiwaii/blood-donations-sub000/internal/database"
	"github.com/jchiwaii/blood-donations-sub000/internal/handler"
	"github.com/jchiwaii/blood-donations-sub000/internal/metrics"
	"github.com/jchiwaii/blood-donations-sub000/internal/middleware"
	"github.com/jchiwaii/blood-donations-sub000/internal/queue"
	"github.com/jchiwaii/blood-donations-sub000/internal/repository"
	"github.com/jchiwaii/blood-donations-sub000/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	// Redis is optional: without it logout revocation, rate limiting and
	// the browse cache are disabled but the service still works.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logrus.Warn("redis unavailable; denylist, rate limiting and caching disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.NewMetrics(reg)

	users := repository.NewUserRepo(db)
	requests := repository.NewRequestRepo(db)
	donations := repository.NewDonationRepo(db)
	media := repository.NewMediaRepo(db)
	denylist := repository.NewDenylistRepo(rdb)

	// One session gate instance guards every private group.
	gate := middleware.SessionGate(cfg.JWTSecret, users, denylist)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.ObserveRequests(m))

	router.RegisterPublic(e, reg)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, denylist, m), gate, rdb)
	router.RegisterRecipient(e, handler.NewRecipientHandler(requests, donations, media), gate)
	router.RegisterDonor(e, handler.NewDonorHandler(donations, requests, media), gate, rdb)
	router.RegisterAdmin(e, handler.NewAdminHandler(requests, donations, users, m), gate)

	// Background audit consumer; it maintains its own reconnect loop.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			logrus.WithError(err).Error("audit consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

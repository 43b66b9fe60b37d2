package main

import (
	"context"

	"github.com/fleetops/vehicle-booking/config"
	"github.com/fleetops/vehicle-booking/internal/clock"
	"github.com/fleetops/vehicle-booking/internal/consumer"
	"github.com/fleetops/vehicle-booking/internal/handler"
	"github.com/fleetops/vehicle-booking/internal/middleware"
	"github.com/fleetops/vehicle-booking/internal/repository"
	"github.com/fleetops/vehicle-booking/internal/service"
	"github.com/fleetops/vehicle-booking/internal/sweeper"
	"github.com/fleetops/vehicle-booking/pkg/database"
	"github.com/fleetops/vehicle-booking/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	log := newLogger(cfg)

	db := database.NewPostgresDB(cfg.DSN())

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	// Fleet sync consumer: mirrors vehicle/user records owned upstream.
	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ consumer: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	txManager := repository.NewTxManager(db)

	consumer.NewFleetConsumer(vehicleRepo, userRepo, log).Start(msgs)

	// Service
	clk := clock.System()
	bookingSvc := service.NewBookingService(txManager, bookingRepo, vehicleRepo, userRepo, clk, publisher, log)

	// Periodic reconciliation: auto-complete expired approved bookings.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.New(bookingSvc, clk, cfg.SweepInterval, log).Start(ctx)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.WithFields(logrus.Fields{
				"method": v.Method,
				"uri":    v.URI,
				"status": v.Status,
			}).Info("request")
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "vehicle-booking"})
	})

	handler.NewBookingHandler(bookingSvc).RegisterRoutes(e)
	handler.NewVehicleHandler(bookingSvc, vehicleRepo).RegisterRoutes(e)

	log.Infof("Vehicle Booking Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/PpaulaPulido/karaoke-reservations/internal/api"
	"github.com/PpaulaPulido/karaoke-reservations/internal/config"
	"github.com/PpaulaPulido/karaoke-reservations/internal/db"
	"github.com/PpaulaPulido/karaoke-reservations/internal/events"
	"github.com/PpaulaPulido/karaoke-reservations/internal/lock"
	"github.com/PpaulaPulido/karaoke-reservations/internal/model"
	"github.com/PpaulaPulido/karaoke-reservations/internal/repository"
	"github.com/PpaulaPulido/karaoke-reservations/internal/service"
)

func main() {
	// 1. .env (если есть) и конфиги.
	if err := config.LoadDotEnv(); err != nil {
		logrus.Fatalf("load .env: %v", err)
	}
	appCfg, err := config.LoadAppConfig()
	if err != nil {
		logrus.Fatalf("load app config: %v", err)
	}
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		logrus.Fatalf("load db config: %v", err)
	}

	setupLogger(appCfg)
	log := logrus.WithField("env", appCfg.Env)

	// 2. БД через GORM и миграции.
	gormDB, err := db.NewGormDB(dbCfg)
	if err != nil {
		log.Fatalf("init db: %v", err)
	}
	if err := model.AutoMigrate(gormDB); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("sql DB: %v", err)
	}
	defer sqlDB.Close()

	// 3. Блокировки приёма броней.
	var locker lock.Locker
	switch appCfg.LockBackend {
	case config.LockBackendRedis:
		client, err := config.NewRedisClient(appCfg)
		if err != nil {
			log.Fatalf("init redis: %v", err)
		}
		defer client.Close()
		locker = lock.NewRedisLocker(client, appCfg.LockTTL)
	default:
		locker = lock.NewLocalLocker()
	}

	// 4. Публикация событий.
	var publisher events.Publisher
	switch appCfg.EventsBackend {
	case config.EventsBackendRabbitMQ:
		rabbit, err := events.NewRabbitPublisher(appCfg.RabbitMQURL, appCfg.EventsQueue)
		if err != nil {
			log.Fatalf("init rabbitmq: %v", err)
		}
		defer rabbit.Close()
		publisher = rabbit
	default:
		publisher = events.NewLogPublisher(logrus.StandardLogger())
	}

	// 5. Репозитории и сервисы.
	repos := repository.NewRepositories(gormDB)
	tx := repository.NewGormTransactor(gormDB)
	clock := service.SystemClock(appCfg.BusinessLocation)

	reservationSvc := service.NewReservationService(repos, tx, locker, publisher, clock)
	roomSvc := service.NewRoomService(repos, tx, publisher)
	extraSvc := service.NewExtraService(repos, tx, publisher)

	// 6. gRPC-сервер.
	grpcServer := api.NewGRPCServer(
		api.NewServer(reservationSvc, roomSvc, extraSvc),
		api.ServerOptions{Reflection: appCfg.Reflection},
	)

	lis, err := net.Listen("tcp", appCfg.GRPCAddr)
	if err != nil {
		log.Fatalf("listen %s: %v", appCfg.GRPCAddr, err)
	}

	log.WithFields(logrus.Fields{
		"addr":     appCfg.GRPCAddr,
		"db":       dbCfg.Driver,
		"lock":     appCfg.LockBackend,
		"events":   appCfg.EventsBackend,
		"timezone": appCfg.BusinessLocation.String(),
	}).Info("karaoke reservations gRPC server listening")

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("grpc serve: %v", err)
		}
	}()

	// 7. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down gRPC server...")
	grpcServer.GracefulStop()
}

func setupLogger(cfg *config.AppConfig) {
	if !cfg.IsDev() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

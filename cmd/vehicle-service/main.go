package main

import (
	"flag"
	"fmt"

	"github.com/DriveRegistry/DriveRegistry/internal/api/routes"
	"github.com/DriveRegistry/DriveRegistry/internal/common/config"
	"github.com/DriveRegistry/DriveRegistry/internal/common/db"
	"github.com/DriveRegistry/DriveRegistry/internal/common/logger"
	"github.com/DriveRegistry/DriveRegistry/internal/common/server"
	"github.com/DriveRegistry/DriveRegistry/internal/common/tracing"
	"github.com/DriveRegistry/DriveRegistry/internal/vehicle"
)

var (
	configPath = flag.String("config", "configs/vehicle-service.json", "配置文件路径")
)

func main() {
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化链路追踪
	tracer, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}
	_ = tracer

	// 初始化数据库
	gormDB, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}
	// 建表并写入车辆类型参照数据
	if err := vehicle.Migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate mysql schema: %v", err)
	}

	svc := vehicle.NewService(vehicle.NewRepo(gormDB))
	router := routes.SetupRouter(cfg, log, svc)

	if err := server.RunHTTPServer(cfg, log, router); err != nil {
		log.Fatalf("vehicle-service exited with error: %v", err)
	}
}

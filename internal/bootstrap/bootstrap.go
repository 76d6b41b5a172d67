// Package bootstrap wires config → db → cache → services → state for both servers.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trally-server/internal/app"
	"trally-server/internal/core/auth"
	"trally-server/internal/core/cache"
	"trally-server/internal/core/config"
	"trally-server/internal/core/database"
	"trally-server/internal/core/logger"
	"trally-server/internal/notify"
	"trally-server/internal/repo"
	"trally-server/internal/service"
	"trally-server/internal/transport/http/router"
)

type Container struct {
	DB    *gorm.DB
	Cache *cache.Cache
	State *app.State
	Deps  router.Deps
}

// Close 关闭 redis 与数据库连接
func (c *Container) Close() {
	_ = c.Cache.Close()
	if sqlDB, err := c.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func OpenDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	return database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Writer:             gormlogger.Writer(logger.ToStdLogger(l.Named("gorm"), zapcore.WarnLevel)),
	})
}

// Build 打开依赖并完成首次加载；bootstrap.admin 缺失时自动创建
func Build(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	db, err := OpenDB(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))
	return assemble(ctx, cfg, l, db)
}

func assemble(ctx context.Context, cfg *config.Config, l *zap.Logger, db *gorm.DB) (*Container, error) {
	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if c.Enabled() {
		l.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	svc := app.Services{
		Directory: service.NewDirectoryService(
			repo.NewUserRepo(db),
			notify.New(cfg.Mail, l.Named("notify")),
			c, l.Named("directory"),
			time.Duration(cfg.Cache.StatusTTLSec)*time.Second,
		),
		Schedules:  service.NewScheduleService(repo.NewScheduleRepo(db), l.Named("schedule")),
		Topics:     service.NewTopicService(repo.NewTopicRepo(db), cfg.Topics.AuthorRanks()),
		Attendance: service.NewAttendanceService(repo.NewAttendanceRepo(db)),
	}

	created, err := svc.Directory.EnsureAdmin(ctx, cfg.Bootstrap.Admin)
	if err != nil {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		l.Info("bootstrap admin created", zap.String("username", cfg.Bootstrap.Admin.Username))
	}

	state := app.New(svc, l.Named("state"), time.Duration(cfg.Cache.RefreshSec)*time.Second)
	state.LoadAll(ctx)

	return &Container{
		DB:    db,
		Cache: c,
		State: state,
		Deps: router.Deps{
			State:     state,
			Directory: svc.Directory,
			JWT:       auth.NewJWTer(cfg.JWT),
			Config:    cfg,
		},
	}, nil
}

package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Opts struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
	Writer             logger.Writer // 为空则用 gorm 默认 stdout
}

var ErrUnsupportedDriver = errors.New("unsupported db driver")

func NewGorm(o Opts) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch o.Driver {
	case "postgres":
		dial = postgres.Open(o.DSN)
	case "mysql":
		dsn, err := mysqlDSN(o.DSN, o.Username, o.Password)
		if err != nil {
			return nil, fmt.Errorf("mysql dsn: %w", err)
		}
		dial = mysql.Open(dsn)
	case "sqlite":
		// 本地开发 / 测试用，纯 Go 实现不依赖 cgo
		dial = sqlite.Open(o.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, o.Driver)
	}

	lvl := logger.Warn
	switch o.LogLevel {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}
	gl := logger.Default.LogMode(lvl)
	if o.Writer != nil {
		gl = logger.New(o.Writer, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  lvl,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: gl})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetimeMin > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	}
	return db.Session(&gorm.Session{
		PrepareStmt:            true, // 预编译缓存
		CreateBatchSize:        200,  // 批量写
		SkipDefaultTransaction: true, // 只在需要时手动开 Tx
	}), nil
}

// mysqlDSN 支持驱动原生 DSN、mysql:// 和 jdbc:mysql:// 三种写法；配置里的账号优先
func mysqlDSN(raw, user, pass string) (string, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "jdbc:")
	if strings.HasPrefix(raw, "mysql://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", err
		}
		native := fmt.Sprintf("tcp(%s)/%s", u.Host, strings.TrimPrefix(u.Path, "/"))
		if u.RawQuery != "" {
			native += "?" + u.RawQuery
		}
		if u.User != nil {
			cred := u.User.Username()
			if p, ok := u.User.Password(); ok {
				cred += ":" + p
			}
			native = cred + "@" + native
		}
		raw = native
	}

	cfg, err := gomysql.ParseDSN(raw)
	if err != nil {
		return "", err
	}
	if user != "" {
		cfg.User = user
	}
	if pass != "" {
		cfg.Passwd = pass
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

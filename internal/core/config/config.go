package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
	CORSOrigins     []string // 为空则允许所有来源
}
type AdminHTTP struct {
	Host        string
	Port        int
	CORSOrigins []string
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level      string
	JSON       bool
	File       string // 为空则只输出到 stdout
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Cache 进程内投影的刷新周期 + 登录状态缓存 TTL
type Cache struct {
	RefreshSec   int
	StatusTTLSec int
}

// Mail EmailJS 配置
type Mail struct {
	Enabled         bool
	Endpoint        string
	ServiceID       string
	PublicKey       string
	PrivateKey      string
	AdminTemplateID string
	UserTemplateID  string
	AdminEmail      string
}

type Static struct {
	Root      string
	MaxAgeSec int
}

type Topics struct {
	AuthorPriority []string
}

type BootstrapAdmin struct {
	Name     string
	Username string
	Password string
	Email    string
}

type Bootstrap struct {
	Admin BootstrapAdmin
}

type Config struct {
	App       App
	Log       Log
	JWT       JWT
	DB        DB
	Redis     Redis `mapstructure:"redis"`
	Cache     Cache
	Mail      Mail
	Static    Static
	Topics    Topics
	Bootstrap Bootstrap
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "trally")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 10)
	v.SetDefault("app.http.writetimeoutsec", 30)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.maxsizemb", 100)
	v.SetDefault("log.maxbackups", 7)
	v.SetDefault("log.maxagedays", 30)

	v.SetDefault("jwt.issuer", "trally")
	v.SetDefault("jwt.accesstokenttlmin", 720)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("cache.refreshsec", 30)
	v.SetDefault("cache.statusttlsec", 60)

	v.SetDefault("mail.endpoint", "https://api.emailjs.com/api/v1.0/email/send")
	v.SetDefault("mail.usertemplateid", "template_user_notify")

	v.SetDefault("static.root", "./wwwroot")
	v.SetDefault("static.maxagesec", 86400)

	v.SetDefault("topics.authorpriority", []string{"민구", "다흰", "아름", "승종", "원혁", "동원"})
}

// Load 读取配置，失败直接退出
func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return c
}

// Read 同 Load，但把错误交给调用方
func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// AuthorRanks 把有序列表转成 {name: rank}
func (t Topics) AuthorRanks() map[string]int {
	out := make(map[string]int, len(t.AuthorPriority))
	for i, name := range t.AuthorPriority {
		if _, dup := out[name]; !dup {
			out[name] = i
		}
	}
	return out
}

package config

import (
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
}
type AdminHTTP struct {
	Host string
	Port int
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
	File       string // 非空时日志同时写文件并切割
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret             string
	Issuer             string
	AccessTokenTTLHour int // 默认 168（7 天）
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Cache struct {
	Enable     bool
	PostTTLSec int
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

type Config struct {
	App   App
	Log   Log
	JWT   JWT
	DB    DB
	Redis Redis `mapstructure:"redis"`
	Cache Cache
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	if c.JWT.AccessTokenTTLHour <= 0 {
		c.JWT.AccessTokenTTLHour = 24 * 7
	}
	if c.Cache.PostTTLSec <= 0 {
		c.Cache.PostTTLSec = 30
	}
	return &c
}

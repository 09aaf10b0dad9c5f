package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type QueueConfig struct {
	Stream        string
	Group         string
	Consumer      string
	ClaimInterval time.Duration
}

type StorageConfig struct {
	Endpoint    string
	AccessKey   string
	SecretKey   string
	BucketMedia string
	UseSSL      bool
	Region      string
}

type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
}

type TranslationConfig struct {
	ProviderURL    string
	ProviderKey    string
	ProviderLimit  int64
	CacheTTL       time.Duration
	RequestTimeout time.Duration
}

type ContactConfig struct {
	SMTPAddr    string
	SMTPUser    string
	SMTPPass    string
	FromAddress string
	ToAddress   string
	RateLimit   int
	RateWindow  time.Duration
}

type TrashConfig struct {
	RetentionDays int
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Queue            QueueConfig
	Storage          StorageConfig
	Session          SessionConfig
	Translation      TranslationConfig
	Contact          ContactConfig
	Trash            TrashConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("PAWSHOME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("queue.stream", "pawshome:tasks")
	v.SetDefault("queue.group", "pawshome-workers")
	v.SetDefault("queue.consumer", "worker-1")
	v.SetDefault("queue.claiminterval", "30s")

	v.SetDefault("storage.bucketmedia", "pawshome-media")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("session.cookiename", "session")
	v.SetDefault("session.ttl", "120h") // 5 days

	v.SetDefault("translation.providerlimit", 500000)
	v.SetDefault("translation.cachettl", "168h")
	v.SetDefault("translation.requesttimeout", "15s")

	v.SetDefault("contact.ratelimit", 5)
	v.SetDefault("contact.ratewindow", "1h")

	v.SetDefault("trash.retentiondays", 30)
}

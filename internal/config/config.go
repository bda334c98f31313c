package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/tallow-shop/storefront/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 购物车槽位后端
const (
	SlotBackendDatabase = "database"
	SlotBackendRedis    = "redis"
	SlotBackendMemory   = "memory"
)

// 结算方式
const (
	CheckoutProviderRedirect = "redirect"
	CheckoutProviderStripe   = "stripe"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Cart     CartConfig     `mapstructure:"cart"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	Review   ReviewConfig   `mapstructure:"review"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Stdout:     c.Stdout,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// CartConfig 购物车配置
type CartConfig struct {
	SlotBackend        string `mapstructure:"slot_backend"` // database / redis / memory
	SlotPrefix         string `mapstructure:"slot_prefix"`
	SlotTTLHours       int    `mapstructure:"slot_ttl_hours"` // redis 过期时间 / database 清理阈值，0 为永久保留
	CookieName         string `mapstructure:"cookie_name"`
	CookieMaxAgeDays   int    `mapstructure:"cookie_max_age_days"`
	CookieSecure       bool   `mapstructure:"cookie_secure"`
	SessionIdleMinutes int    `mapstructure:"session_idle_minutes"`
}

// SlotTTL 槽位过期时间
func (c CartConfig) SlotTTL() time.Duration {
	if c.SlotTTLHours <= 0 {
		return 0
	}
	return time.Duration(c.SlotTTLHours) * time.Hour
}

// SessionIdle 内存会话闲置回收时间
func (c CartConfig) SessionIdle() time.Duration {
	if c.SessionIdleMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}

// CatalogConfig 商品目录配置
type CatalogConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

// CheckoutConfig 结算配置
type CheckoutConfig struct {
	Provider    string       `mapstructure:"provider"` // redirect / stripe
	StoreDomain string       `mapstructure:"store_domain"`
	Stripe      StripeConfig `mapstructure:"stripe"`
	TimeoutMS   int          `mapstructure:"timeout_ms"`
}

// StripeConfig Stripe 托管结算配置
type StripeConfig struct {
	SecretKey  string `mapstructure:"secret_key"`
	SuccessURL string `mapstructure:"success_url"`
	CancelURL  string `mapstructure:"cancel_url"`
}

// ReviewConfig 评价配置
type ReviewConfig struct {
	RateLimit ReviewRateLimitConfig `mapstructure:"rate_limit"`
}

// ReviewRateLimitConfig 评价提交限流
type ReviewRateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// dotEnvFiles 启动时尝试加载的 .env 文件，已存在的环境变量优先
var dotEnvFiles = []string{".env", "./etc/.env"}

// Load 从 .env 与 config.yml 加载配置
func Load() *Config {
	loadDotEnv(dotEnvFiles...)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./")
	viper.AddConfigPath("../") // 如果从 cmd/server 运行
	viper.AddConfigPath("./etc")

	setDefaults(viper.GetViper())

	// 环境变量支持：server.port -> SERVER_PORT
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	cfg, err := decode(viper.GetViper())
	if err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("config decode failed: %w", err))
	}
	return cfg
}

func loadDotEnv(files ...string) {
	for _, file := range files {
		err := godotenv.Load(file)
		if err == nil {
			logger.Infow("config_dotenv_loaded", "file", file)
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warnw("config_dotenv_load_failed", "file", file, "error", err)
		}
	}
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Cart.SlotBackend = strings.ToLower(strings.TrimSpace(cfg.Cart.SlotBackend))
	cfg.Checkout.Provider = strings.ToLower(strings.TrimSpace(cfg.Checkout.Provider))
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.stdout", false)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/storefront.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "tallow")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 5)
	v.SetDefault("queue.queues", map[string]int{
		"default":  10,
		"critical": 5,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("cart.slot_backend", SlotBackendDatabase)
	v.SetDefault("cart.slot_prefix", "cart")
	v.SetDefault("cart.slot_ttl_hours", 24*30)
	v.SetDefault("cart.cookie_name", "tallow_cart")
	v.SetDefault("cart.cookie_max_age_days", 30)
	v.SetDefault("cart.cookie_secure", false)
	v.SetDefault("cart.session_idle_minutes", 30)
	v.SetDefault("catalog.path", "./catalog.yml")
	v.SetDefault("catalog.watch", false)
	v.SetDefault("checkout.provider", CheckoutProviderRedirect)
	v.SetDefault("checkout.store_domain", "")
	v.SetDefault("checkout.timeout_ms", 10000)
	v.SetDefault("checkout.stripe.secret_key", "")
	v.SetDefault("checkout.stripe.success_url", "")
	v.SetDefault("checkout.stripe.cancel_url", "")
	v.SetDefault("review.rate_limit.window_seconds", 600)
	v.SetDefault("review.rate_limit.max_requests", 3)
	v.SetDefault("review.rate_limit.block_seconds", 1800)
}

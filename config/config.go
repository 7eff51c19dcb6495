package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env              string           `yaml:"env" env-default:"development"`
	DbConfig         DbConfig         `yaml:"db" env-required:"true"`
	HttpServerConfig HttpServerConfig `yaml:"http_server" env-required:"true"`
	CacheConfig      CacheConfig      `yaml:"cache" env-required:"true"`
	SMTPConfig       SMTPConfig       `yaml:"smtp"`
	JWTConfig        JWTConfig        `yaml:"jwt" env-required:"true"`
	S3Config         S3Config         `yaml:"s3"`
	FCMConfig        FCMConfig        `yaml:"fcm"`
	SchedulerConfig  SchedulerConfig  `yaml:"scheduler"`
	AppConfig        AppConfig        `yaml:"app"`
}

type AppConfig struct {
	FrontendURL string        `yaml:"frontend_url" env-default:"http://localhost:3000"`
	InviteTTL   time.Duration `yaml:"invite_ttl" env-default:"48h"`
}

type DbConfig struct {
	Username string `yaml:"username"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	DbName   string `yaml:"dbname"`
	SSLMode  string `yaml:"ssl_mode"`
}

type TLSConfig struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

type HttpServerConfig struct {
	Address        string        `yaml:"address" env-required:"true"`
	Timeout        time.Duration `yaml:"timeout" env-required:"true"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-required:"true"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	TLS            TLSConfig     `yaml:"tls"`
}

type CacheConfig struct {
	Address        string        `yaml:"address" env-required:"true"`
	Db             int           `yaml:"db"`
	UnreadCountTtl time.Duration `yaml:"unread_count_ttl" env-default:"10m"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
}

type JWTConfig struct {
	AccessExpire  time.Duration `yaml:"access_expire" env-required:"true"`
	RefreshExpire time.Duration `yaml:"refresh_expire" env-required:"true"`
	CookieDomain  string        `yaml:"cookie_domain"`
	SecureCookie  bool          `yaml:"secure_cookie" env-default:"true"`
}

type S3Config struct {
	Endpoint          string `yaml:"endpoint"`
	Region            string `yaml:"region"`
	BucketTenantLogos string `yaml:"bucket_tenant_logos"`
}

type FCMConfig struct {
	ProjectID                 string `yaml:"project_id"`
	ServiceAccountKeyJSONPath string `yaml:"service_account_key_json_path"`
}

// SchedulerConfig holds cron specs for the background jobs. The deadline
// sweep runs once a day in production; the spec is configurable so staging
// environments can trigger it more often.
type SchedulerConfig struct {
	DeadlineSweepSpec string `yaml:"deadline_sweep_spec" env-default:"0 0 * * *"`
}

var JwtConfig JWTConfig

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/dev.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("error reading config file: %s. Error: %v", configPath, err)
	}

	JwtConfig = cfg.JWTConfig

	return &cfg
}

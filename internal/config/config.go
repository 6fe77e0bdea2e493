package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	AI       AIConfig
	Mail     MailConfig
	NATS     NATSConfig
	PDF      PDFConfig
	Admin    AdminConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogJSON     bool
	LogDebug    bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type AIConfig struct {
	GeminiAPIKey string
	Model        string
	Timeout      time.Duration
	MaxLogLength int
}

type MailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	From         string

	Workers       int
	QueueSize     int
	RatePerSecond int
	SendTimeout   time.Duration
}

func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.SMTPHost) != ""
}

type NATSConfig struct {
	URL           string
	SubjectPrefix string
	Timeout       time.Duration
}

func (n NATSConfig) Enabled() bool {
	return strings.TrimSpace(n.URL) != ""
}

type PDFConfig struct {
	Enabled bool
	Timeout time.Duration
}

type AdminConfig struct {
	Email    string
	Password string
	FullName string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Sources names optional files read before the environment. An empty EnvFile
// loads .env when present; a named EnvFile must exist.
type Sources struct {
	EnvFile    string
	ConfigFile string
}

func Load() (Config, error) {
	return LoadFrom(Sources{})
}

// LoadFrom reads the dotenv file, then the config file, then the process
// environment. Environment variables win over the config file; dotenv never
// overrides variables that are already set.
func LoadFrom(src Sources) (Config, error) {
	if src.EnvFile != "" {
		if err := godotenv.Load(src.EnvFile); err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", src.EnvFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)
	if src.ConfigFile != "" {
		v.SetConfigFile(src.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", src.ConfigFile, err)
		}
	}
	v.AutomaticEnv()

	return load(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", 5*time.Second)
	v.SetDefault("JWT_ACCESS_EXPIRES_IN", 15*time.Minute)
	v.SetDefault("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_TTL", 10*time.Minute)
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("AI_TIMEOUT", 60*time.Second)
	v.SetDefault("AI_MAX_LOG_LENGTH", 200)
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("MAIL_WORKERS", 2)
	v.SetDefault("MAIL_QUEUE_SIZE", 100)
	v.SetDefault("MAIL_SEND_TIMEOUT", 30*time.Second)
	v.SetDefault("NATS_SUBJECT_PREFIX", "hireflow")
	v.SetDefault("NATS_TIMEOUT", 5*time.Second)
	v.SetDefault("PDF_TIMEOUT", 30*time.Second)
	v.SetDefault("ADMIN_FULL_NAME", "Administrator")
}

func load(v *viper.Viper) (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		LogJSON:     v.GetBool("LOG_JSON"),
		LogDebug:    v.GetBool("LOG_DEBUG"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     req("DB_HOST"),
		DBPort:     req("DB_PORT"),
		DBName:     req("DB_NAME"),
		DBUser:     req("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  v.GetDuration("JWT_ACCESS_EXPIRES_IN"),
		RefreshExpiresIn: v.GetDuration("JWT_REFRESH_EXPIRES_IN"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      v.GetDuration("REDIS_TTL"),
	}

	cfg.AI = AIConfig{
		GeminiAPIKey: req("GEMINI_API_KEY"),
		Model:        opt("GEMINI_MODEL"),
		Timeout:      v.GetDuration("AI_TIMEOUT"),
		MaxLogLength: v.GetInt("AI_MAX_LOG_LENGTH"),
	}

	cfg.Mail = MailConfig{
		SMTPHost:     opt("SMTP_HOST"),
		SMTPPort:     opt("SMTP_PORT"),
		SMTPUser:     opt("SMTP_USER"),
		SMTPPassword: opt("SMTP_PASSWORD"),
		From:         opt("MAIL_FROM"),

		Workers:       v.GetInt("MAIL_WORKERS"),
		QueueSize:     v.GetInt("MAIL_QUEUE_SIZE"),
		RatePerSecond: v.GetInt("MAIL_RATE_PER_SECOND"),
		SendTimeout:   v.GetDuration("MAIL_SEND_TIMEOUT"),
	}

	cfg.NATS = NATSConfig{
		URL:           opt("NATS_URL"),
		SubjectPrefix: opt("NATS_SUBJECT_PREFIX"),
		Timeout:       v.GetDuration("NATS_TIMEOUT"),
	}

	cfg.PDF = PDFConfig{
		Enabled: v.GetBool("PDF_ENABLED"),
		Timeout: v.GetDuration("PDF_TIMEOUT"),
	}

	cfg.Admin = AdminConfig{
		Email:    opt("ADMIN_EMAIL"),
		Password: opt("ADMIN_PASSWORD"),
		FullName: opt("ADMIN_FULL_NAME"),
	}

	if cfg.Mail.Enabled() && cfg.Mail.From == "" {
		missing = append(missing, "MAIL_FROM")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

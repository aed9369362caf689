package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	Engine    EngineConfig    `mapstructure:"engine"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	StreamName string `mapstructure:"stream_name"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// RemoteConfig points at the upstream detection API. When disabled or
// unreachable, scans fall back to the local engine.
type RemoteConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// EngineConfig groups the policy constants for the scoring and simulation
// engines. The band cutoffs and per-layer weights are policy, not derived
// values; changing them is a policy change.
type EngineConfig struct {
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Monitor    MonitorConfig    `mapstructure:"monitor"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Integrity  IntegrityConfig  `mapstructure:"integrity"`
	Vault      VaultConfig      `mapstructure:"vault"`
}

type ScoringConfig struct {
	Bands      BandConfig       `mapstructure:"bands"`
	Confidence ConfidenceConfig `mapstructure:"confidence"`
}

// BandConfig defines the three classification bands over the raw score.
type BandConfig struct {
	Suspicious float64 `mapstructure:"suspicious"` // lower bound of the middle band
	Danger     float64 `mapstructure:"danger"`     // lower bound of the high band
	Critical   float64 `mapstructure:"critical"`   // within the high band, critical risk
}

type ConfidenceConfig struct {
	Baseline    float64 `mapstructure:"baseline"`
	ScaleFactor float64 `mapstructure:"scale_factor"`
	JitterMax   float64 `mapstructure:"jitter_max"`
	Ceiling     float64 `mapstructure:"ceiling"`
}

type MonitorConfig struct {
	TickInterval     time.Duration `mapstructure:"tick_interval"`
	EventProbability float64       `mapstructure:"event_probability"`
	MaxEvents        int           `mapstructure:"max_events"`
	MaxScanIncrement int           `mapstructure:"max_scan_increment"`
}

type SimulationConfig struct {
	TickInterval        time.Duration `mapstructure:"tick_interval"`
	VulnerabilityChance float64       `mapstructure:"vulnerability_chance"`
}

type IntegrityConfig struct {
	TickInterval      time.Duration `mapstructure:"tick_interval"`
	MinIncrement      int           `mapstructure:"min_increment"`
	MaxIncrement      int           `mapstructure:"max_increment"`
	RecordProbability float64       `mapstructure:"record_probability"`
	VerifiedChance    float64       `mapstructure:"verified_chance"`
	MaxRecords        int           `mapstructure:"max_records"`
}

type VaultConfig struct {
	MaxFileBytes int64 `mapstructure:"max_file_bytes"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/javelin-lab")
	}

	v.SetEnvPrefix("JAVELIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("redis.enabled", "JAVELIN_REDIS_ENABLED")
	v.BindEnv("redis.host", "JAVELIN_REDIS_HOST")
	v.BindEnv("redis.port", "JAVELIN_REDIS_PORT")
	v.BindEnv("redis.password", "JAVELIN_REDIS_PASSWORD")
	v.BindEnv("database.enabled", "JAVELIN_DATABASE_ENABLED")
	v.BindEnv("database.host", "JAVELIN_DATABASE_HOST")
	v.BindEnv("database.port", "JAVELIN_DATABASE_PORT")
	v.BindEnv("database.user", "JAVELIN_DATABASE_USER")
	v.BindEnv("database.password", "JAVELIN_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "JAVELIN_DATABASE_DBNAME")
	v.BindEnv("nats.enabled", "JAVELIN_NATS_ENABLED")
	v.BindEnv("remote.enabled", "JAVELIN_REMOTE_ENABLED")
	v.BindEnv("remote.base_url", "JAVELIN_REMOTE_BASE_URL")
	v.BindEnv("app.environment", "JAVELIN_APP_ENVIRONMENT")

	setDefaults(v)

	// The engine has defaults for every knob, so a missing config file is fine
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault loads configuration from the default search paths
func LoadDefault() (*Config, error) {
	return Load("")
}

// Validate checks config invariants that would otherwise surface as
// hard-to-diagnose engine misbehavior.
func (c *Config) Validate() error {
	b := c.Engine.Scoring.Bands
	if !(b.Suspicious < b.Danger && b.Danger <= b.Critical) {
		return fmt.Errorf("scoring bands must be ordered: suspicious(%v) < danger(%v) <= critical(%v)",
			b.Suspicious, b.Danger, b.Critical)
	}
	if p := c.Engine.Monitor.EventProbability; p < 0 || p > 1 {
		return fmt.Errorf("monitor event probability out of range: %v", p)
	}
	if p := c.Engine.Integrity.VerifiedChance; p < 0 || p > 1 {
		return fmt.Errorf("integrity verified chance out of range: %v", p)
	}
	if c.Engine.Integrity.MinIncrement <= 0 || c.Engine.Integrity.MaxIncrement < c.Engine.Integrity.MinIncrement {
		return fmt.Errorf("integrity increments misconfigured: min=%d max=%d",
			c.Engine.Integrity.MinIncrement, c.Engine.Integrity.MaxIncrement)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "javelin-lab")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "javelin")
	v.SetDefault("database.dbname", "javelin")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.key_prefix", "javelin:")

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.stream_name", "JAVELIN_EVENTS")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Authorization", "Content-Type"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.requests_per_minute", 120)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.time_format", time.RFC3339)

	v.SetDefault("remote.enabled", false)
	v.SetDefault("remote.timeout", 10*time.Second)

	// Scoring policy. The 25/50/75 cutoffs are preserved from the product
	// policy as-is rather than re-derived.
	v.SetDefault("engine.scoring.bands.suspicious", 25.0)
	v.SetDefault("engine.scoring.bands.danger", 50.0)
	v.SetDefault("engine.scoring.bands.critical", 75.0)
	v.SetDefault("engine.scoring.confidence.baseline", 60.0)
	v.SetDefault("engine.scoring.confidence.scale_factor", 0.35)
	v.SetDefault("engine.scoring.confidence.jitter_max", 5.0)
	v.SetDefault("engine.scoring.confidence.ceiling", 95.0)

	v.SetDefault("engine.monitor.tick_interval", 2*time.Second)
	v.SetDefault("engine.monitor.event_probability", 0.3)
	v.SetDefault("engine.monitor.max_events", 50)
	v.SetDefault("engine.monitor.max_scan_increment", 8)

	v.SetDefault("engine.simulation.tick_interval", 800*time.Millisecond)
	v.SetDefault("engine.simulation.vulnerability_chance", 0.5)

	v.SetDefault("engine.integrity.tick_interval", 400*time.Millisecond)
	v.SetDefault("engine.integrity.min_increment", 40)
	v.SetDefault("engine.integrity.max_increment", 120)
	v.SetDefault("engine.integrity.record_probability", 0.25)
	v.SetDefault("engine.integrity.verified_chance", 0.85)
	v.SetDefault("engine.integrity.max_records", 12)

	v.SetDefault("engine.vault.max_file_bytes", int64(100*1024*1024))
}

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit          string        `yaml:"git_commit" envconfig:"DBAP_GIT_COMMIT"`
	GitTag             string        `yaml:"git_tag" envconfig:"DBAP_GIT_TAG"`
	BuildTime          string        `yaml:"build_time" envconfig:"DBAP_BUILD_TIME"`
	IsProduction       bool          `yaml:"is_production" envconfig:"DBAP_IS_PRODUCTION"`
	LogLevel           zapcore.Level `yaml:"log_level" envconfig:"DBAP_LOG_LEVEL"`
	LogFolder          string        `yaml:"log_folder" envconfig:"DBAP_LOG_FOLDER"`
	LogMaxSize         int           `yaml:"log_max_size" envconfig:"DBAP_LOG_MAX_SIZE"`
	OpsEndpointsEnable bool          `yaml:"ops_endpoints_enable" envconfig:"DBAP_OPS_ENDPOINTS_ENABLE"`
	Server             ServerConfig  `yaml:"server"`
	Storage            StorageConfig `yaml:"storage"`
	BoltDB             BoltDBConfig  `yaml:"boltdb"`
	Redis              RedisConfig   `yaml:"redis"`
	Postgres           PgConfig      `yaml:"postgres"`
	Client             ClientConfig  `yaml:"client"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"DBAP_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"DBAP_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"DBAP_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"DBAP_SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"DBAP_SERVER_SHUTDOWN_TIMEOUT"`
	RateLimitEnable bool          `yaml:"rate_limit_enable" envconfig:"DBAP_SERVER_RATE_LIMIT_ENABLE"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec" envconfig:"DBAP_SERVER_RATE_LIMIT_PER_SEC"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"DBAP_SERVER_RATE_LIMIT_BURST"`
}

// StorageConfig selects which book storage backend the app runs on.
// Valid backends are `bolt` (default), `redis` and `postgres`.
type StorageConfig struct {
	Backend string `yaml:"backend" envconfig:"DBAP_STORAGE_BACKEND"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"DBAP_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"DBAP_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"DBAP_BOLTDB_BUCKET_NAME"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"DBAP_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"DBAP_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"DBAP_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"DBAP_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"DBAP_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"DBAP_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"DBAP_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"DBAP_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"DBAP_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"DBAP_REDIS_DATABASE_INDEX"`
}

// PgConfig holds the postgres connection string. The table is created
// at startup if missing so a fresh database works out of the box.
type PgConfig struct {
	DSN string `yaml:"dsn" envconfig:"DBAP_POSTGRES_DSN"`
}

// ClientConfig holds settings used by the catalog browsing client.
type ClientConfig struct {
	ServerURL       string        `yaml:"server_url" envconfig:"DBAP_CLIENT_SERVER_URL"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"DBAP_CLIENT_REQUEST_TIMEOUT"`
	NotificationTTL time.Duration `yaml:"notification_ttl" envconfig:"DBAP_CLIENT_NOTIFICATION_TTL"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	switch config.Storage.Backend {
	case "":
		config.Storage.Backend = "bolt"
	case "bolt", "redis", "postgres":
	default:
		return fmt.Errorf("unknown storage backend %q in configuration file", config.Storage.Backend)
	}

	if config.Storage.Backend == "bolt" && len(config.BoltDB.FilePath) == 0 {
		return errors.New("make sure to set the boltdb file path in configuration file")
	}

	if config.Storage.Backend == "redis" && (len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0) {
		return errors.New("make sure to set valid redis address and port in configuration file")
	}

	if config.Storage.Backend == "postgres" && len(config.Postgres.DSN) == 0 {
		return errors.New("make sure to set the postgres connection string in configuration file")
	}

	if config.Client.NotificationTTL <= 0 {
		config.Client.NotificationTTL = 3 * time.Second
	}

	if config.Client.RequestTimeout <= 0 {
		config.Client.RequestTimeout = 10 * time.Second
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil && !os.IsNotExist(err) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `DBAP`.
	err = LoadConfigEnvs("DBAP", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}

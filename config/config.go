package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "trustscore.yaml"

// Config holds all application configuration. Values come from built-in
// defaults, then an optional YAML file, then environment variables.
type Config struct {
	DataSource string

	DatabaseURL      string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	CSVDataDir    string
	ReportCSVPath string

	MaxConcurrency   int
	MaxRetries       int
	RetryBaseDelayMs int

	HTTPPort           string
	Environment        string
	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string
}

type fileConfig struct {
	DataSource  string `yaml:"data_source"`
	DatabaseURL string `yaml:"database_url"`
	Postgres    struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DB       string `yaml:"db"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"postgres"`
	CSV struct {
		DataDir    string `yaml:"data_dir"`
		ReportPath string `yaml:"report_path"`
	} `yaml:"csv"`
	Engine struct {
		MaxConcurrency int `yaml:"max_concurrency"`
	} `yaml:"engine"`
	Loader struct {
		MaxRetries       int `yaml:"max_retries"`
		RetryBaseDelayMs int `yaml:"retry_base_delay_ms"`
	} `yaml:"loader"`
	Server struct {
		HTTPPort           string   `yaml:"http_port"`
		Environment        string   `yaml:"environment"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads the .env file and the optional YAML file named by
// TRUSTSCORE_CONFIG, then applies environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("[config] No .env file found, falling back to system env vars")
	}

	cfg := defaults()

	path := getEnv("TRUSTSCORE_CONFIG", defaultConfigFile)
	if err := cfg.applyFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		DataSource: "postgres",

		PostgresHost:     "localhost",
		PostgresPort:     "5432",
		PostgresUser:     "trustscore",
		PostgresPassword: "trustscore",
		PostgresDB:       "marketplace",
		PostgresSSLMode:  "disable",

		CSVDataDir:    "./data",
		ReportCSVPath: "./output/trust_scores.csv",

		MaxConcurrency:   4,
		MaxRetries:       3,
		RetryBaseDelayMs: 500,

		HTTPPort:    "8000",
		Environment: "development",

		LogLevel:  "info",
		LogFormat: "text",
	}
}

// applyFile overlays values from a YAML file. A missing file is not an error.
func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: read %q: %w", path, err)
	}

	var f fileConfig
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("config: parse %q: %w", path, err)
	}

	setString(&c.DataSource, f.DataSource)
	setString(&c.DatabaseURL, f.DatabaseURL)
	setString(&c.PostgresHost, f.Postgres.Host)
	setString(&c.PostgresPort, f.Postgres.Port)
	setString(&c.PostgresUser, f.Postgres.User)
	setString(&c.PostgresPassword, f.Postgres.Password)
	setString(&c.PostgresDB, f.Postgres.DB)
	setString(&c.PostgresSSLMode, f.Postgres.SSLMode)
	setString(&c.CSVDataDir, f.CSV.DataDir)
	setString(&c.ReportCSVPath, f.CSV.ReportPath)
	setInt(&c.MaxConcurrency, f.Engine.MaxConcurrency)
	setInt(&c.MaxRetries, f.Loader.MaxRetries)
	setInt(&c.RetryBaseDelayMs, f.Loader.RetryBaseDelayMs)
	setString(&c.HTTPPort, f.Server.HTTPPort)
	setString(&c.Environment, f.Server.Environment)
	if len(f.Server.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = f.Server.CORSAllowedOrigins
	}
	setString(&c.LogLevel, f.Log.Level)
	setString(&c.LogFormat, f.Log.Format)
	return nil
}

func (c *Config) applyEnv() {
	c.DataSource = strings.ToLower(getEnv("DATA_SOURCE", c.DataSource))

	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.PostgresHost = getEnv("POSTGRES_HOST", c.PostgresHost)
	c.PostgresPort = getEnv("POSTGRES_PORT", c.PostgresPort)
	c.PostgresUser = getEnv("POSTGRES_USER", c.PostgresUser)
	c.PostgresPassword = getEnv("POSTGRES_PASSWORD", c.PostgresPassword)
	c.PostgresDB = getEnv("POSTGRES_DB", c.PostgresDB)
	c.PostgresSSLMode = getEnv("POSTGRES_SSLMODE", c.PostgresSSLMode)

	c.CSVDataDir = getEnv("CSV_DATA_DIR", c.CSVDataDir)
	c.ReportCSVPath = getEnv("REPORT_CSV_PATH", c.ReportCSVPath)

	c.MaxConcurrency = getEnvInt("MAX_CONCURRENCY", c.MaxConcurrency)
	c.MaxRetries = getEnvInt("MAX_RETRIES", c.MaxRetries)
	c.RetryBaseDelayMs = getEnvInt("RETRY_BASE_DELAY_MS", c.RetryBaseDelayMs)

	c.HTTPPort = getEnv("HTTP_PORT", c.HTTPPort)
	c.Environment = getEnv("GO_ENV", c.Environment)
	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		c.CORSAllowedOrigins = splitAndTrim(origins)
	}

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
}

// DSN returns the PostgreSQL connection string. DATABASE_URL wins when set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rpggio/punchclock/internal/timefmt"
	"gopkg.in/yaml.v3"
)

// PathEnv names the variable holding the YAML config path.
const PathEnv = "PUNCHCLOCK_CONFIG_PATH"

// Config defines server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	DB         DBConfig         `yaml:"db"`
	Log        LogConfig        `yaml:"log"`
	Auth       AuthConfig       `yaml:"auth"`
	Attendance AttendanceConfig `yaml:"attendance"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" env:"PUNCHCLOCK_SERVER_HOST"`
	Port            int           `yaml:"port" env:"PUNCHCLOCK_SERVER_PORT"`
	Transport       string        `yaml:"transport" env:"PUNCHCLOCK_TRANSPORT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"PUNCHCLOCK_SHUTDOWN_TIMEOUT"`
}

type DBConfig struct {
	Path string `yaml:"path" env:"PUNCHCLOCK_DB_PATH"`
}

type LogConfig struct {
	Level     string `yaml:"level" env:"PUNCHCLOCK_LOG_LEVEL"`
	Format    string `yaml:"format" env:"PUNCHCLOCK_LOG_FORMAT"`
	Path      string `yaml:"path" env:"PUNCHCLOCK_LOG_PATH"`
	MaxSizeMB int    `yaml:"max_size_mb" env:"PUNCHCLOCK_LOG_MAX_SIZE_MB"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled" env:"PUNCHCLOCK_AUTH_ENABLED"`
}

type AttendanceConfig struct {
	// Timezone is an IANA zone name or "Local".
	Timezone        string `yaml:"timezone" env:"PUNCHCLOCK_TIMEZONE"`
	MissingDuration string `yaml:"missing_duration" env:"PUNCHCLOCK_MISSING_DURATION"`
}

const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			Transport:       TransportHTTP,
			ShutdownTimeout: 10 * time.Second,
		},
		DB: DBConfig{
			Path: "punchclock.db",
		},
		Log: LogConfig{
			Level:     "info",
			Format:    "text",
			MaxSizeMB: 10,
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		Attendance: AttendanceConfig{
			Timezone:        "Local",
			MissingDuration: string(timefmt.MissingZero),
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// PUNCHCLOCK_* environment variables, in increasing priority. An empty path
// falls back to PUNCHCLOCK_CONFIG_PATH.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port))
	}
	switch c.Server.Transport {
	case TransportHTTP, TransportStdio:
	default:
		errs = append(errs, fmt.Errorf("server.transport must be %q or %q (got %q)", TransportHTTP, TransportStdio, c.Server.Transport))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout must be >= 0 (got %s)", c.Server.ShutdownTimeout))
	}
	if strings.TrimSpace(c.DB.Path) == "" {
		errs = append(errs, errors.New("db.path is required"))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format))
	}
	if c.Log.MaxSizeMB < 0 {
		errs = append(errs, fmt.Errorf("log.max_size_mb must be >= 0 (got %d)", c.Log.MaxSizeMB))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := timefmt.ParseMissingPolicy(c.Attendance.MissingDuration); err != nil {
		errs = append(errs, fmt.Errorf("attendance.missing_duration: %w", err))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Location resolves attendance.timezone.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Attendance.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("attendance.timezone: %w", err)
	}
	return loc, nil
}

// MissingPolicy resolves attendance.missing_duration. Validate has already
// rejected unknown values.
func (c Config) MissingPolicy() timefmt.MissingPolicy {
	policy, err := timefmt.ParseMissingPolicy(c.Attendance.MissingDuration)
	if err != nil {
		return timefmt.MissingZero
	}
	return policy
}

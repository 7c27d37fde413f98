package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "config/config.yaml"

	ModeDev     = "dev"
	ModeRelease = "release"

	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"` // sqlite のみ
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	TLS             Certs         `yaml:"tls"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DetectionConfig struct {
	Endpoint      string            `yaml:"endpoint"`
	Timeout       time.Duration     `yaml:"timeout"`
	MinConfidence float64           `yaml:"min_confidence"`
	Labels        map[string]string `yaml:"labels"` // 検出ラベル -> inventory.name
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type Config struct {
	Version   string          `yaml:"version"`
	Mode      string          `yaml:"mode"`
	Server    ServerConfig    `yaml:"server"`
	DB        DatabaseConfig  `yaml:"database"`
	Detection DetectionConfig `yaml:"detection"`
	Log       LogConfig       `yaml:"log"`
}

func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(buf)
}

// Parse は YAML を読み込み、デフォルト値を補完してから検証する
func Parse(buf []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeDev
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.DB.Driver == "" {
		c.DB.Driver = DriverSQLite
	}
	if c.DB.Driver == DriverSQLite && c.DB.Path == "" {
		c.DB.Path = "database.db"
	}
	if c.DB.Driver == DriverMySQL && c.DB.Port == 0 {
		c.DB.Port = 3306
	}
	if c.Detection.Timeout <= 0 {
		c.Detection.Timeout = 15 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Encoding == "" {
		c.Log.Encoding = "json"
	}
}

func (c *Config) Validate() error {
	if c.Mode != ModeDev && c.Mode != ModeRelease {
		return fmt.Errorf("config: mode must be %q or %q, got %q", ModeDev, ModeRelease, c.Mode)
	}
	switch c.DB.Driver {
	case DriverSQLite:
	case DriverMySQL:
		if strings.TrimSpace(c.DB.Host) == "" || strings.TrimSpace(c.DB.DBName) == "" {
			return fmt.Errorf("config: database.host and database.dbname are required for mysql")
		}
	default:
		return fmt.Errorf("config: unsupported database.driver %q", c.DB.Driver)
	}
	if (c.Server.TLS.Cert == "") != (c.Server.TLS.Key == "") {
		return fmt.Errorf("config: server.tls.cert and server.tls.key must be set together")
	}
	if c.Detection.MinConfidence < 0 || c.Detection.MinConfidence > 1 {
		return fmt.Errorf("config: detection.min_confidence must be within [0,1]")
	}
	return nil
}

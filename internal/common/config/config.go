package config

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Config holds every parameter the terminal needs.
type Config struct {
	Backend  BackendConfig
	RabbitMQ RabbitMQConfig
	Storage  StorageConfig
	Printer  PrinterConfig
	App      AppConfig
}

type BackendConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

// Enabled reports whether event publishing is configured at all.
func (c RabbitMQConfig) Enabled() bool { return c.Host != "" }

type StorageConfig struct {
	Driver    string // "file" | "redis"
	Path      string // file driver: data directory
	RedisAddr string
}

type PrinterConfig struct {
	Transport string // "tcp" | "none"
	SpoolDir  string // fallback receipts land here
}

type AppConfig struct {
	BusinessName string
	Port         int
}

// Load reads the purpose-built two-level YAML format used across our
// deployments. Not a general YAML parser; sections and scalar k:v pairs only.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	scanner := bufio.NewScanner(file)

	var section string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, ":") {
			section = strings.TrimSuffix(line, ":")
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		// Inline comments are allowed on unquoted values.
		if !strings.HasPrefix(value, `"`) && !strings.HasPrefix(value, `'`) {
			if i := strings.Index(value, "#"); i >= 0 {
				value = strings.TrimSpace(value[:i])
			}
		}
		value = strings.Trim(value, `"'`)
		cfg.assign(section, key, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if cfg.Backend.Host == "" {
		return nil, fmt.Errorf("invalid config: backend host is required")
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Backend: BackendConfig{Port: 5432},
		Storage: StorageConfig{Driver: "file", Path: "data", RedisAddr: "localhost:6379"},
		Printer: PrinterConfig{Transport: "tcp", SpoolDir: "spool"},
		App:     AppConfig{BusinessName: "Cafe", Port: 3000},
	}
}

func (c *Config) assign(section, key, value string) {
	switch section {
	case "backend":
		switch key {
		case "host":
			c.Backend.Host = value
		case "port":
			c.Backend.Port = atoi(value, c.Backend.Port)
		case "user":
			c.Backend.User = value
		case "password":
			c.Backend.Password = value
		case "database":
			c.Backend.Database = value
		}
	case "rabbitmq":
		switch key {
		case "host":
			c.RabbitMQ.Host = value
		case "port":
			c.RabbitMQ.Port = atoi(value, 5672)
		case "user":
			c.RabbitMQ.User = value
		case "password":
			c.RabbitMQ.Password = value
		case "vhost":
			c.RabbitMQ.VHost = value
		}
	case "storage":
		switch key {
		case "driver":
			c.Storage.Driver = value
		case "path":
			c.Storage.Path = value
		case "redis_addr":
			c.Storage.RedisAddr = value
		}
	case "printer":
		switch key {
		case "transport":
			c.Printer.Transport = value
		case "spool_dir":
			c.Printer.SpoolDir = value
		}
	case "app":
		switch key {
		case "business_name":
			c.App.BusinessName = value
		case "port":
			c.App.Port = atoi(value, c.App.Port)
		}
	}
}

func atoi(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// FindConfig checks the usual locations for a config file.
func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "config.yml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}

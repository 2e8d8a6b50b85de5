// Package config provides functionality for managing configuration options for the service
// using command-line flags, an optional YAML config file and environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendFile  = "file"
	BackendMySQL = "mysql"
)

// Session backends.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// DatabaseOptions holds the connection parameters of the MySQL backend.
type DatabaseOptions struct {
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// Options holds the configuration values of the service.
type Options struct {
	// Addr is the listening address (ip:port).
	Addr string `yaml:"addr"`

	// DataDir is the root of the flat-file storage: users.yml and data/<user>/contacts.yml.
	DataDir string `yaml:"data_dir"`

	// StorageBackend selects where credentials and contacts live: "file" or "mysql".
	StorageBackend string `yaml:"storage_backend"`

	Database DatabaseOptions `yaml:"database"`

	// SessionBackend selects the session store: "memory" or "redis".
	SessionBackend string        `yaml:"session_backend"`
	RedisAddr      string        `yaml:"redis_addr"`
	RedisPassword  string        `yaml:"redis_password"`
	SessionTTL     time.Duration `yaml:"session_ttl"`

	// CookieSecure restricts the session cookie to HTTPS.
	CookieSecure bool `yaml:"cookie_secure"`

	// BcryptCost is the cost of new password hashes; 0 selects the bcrypt default.
	BcryptCost int `yaml:"bcrypt_cost"`

	LogLevel string `yaml:"log_level"`

	// GinMode is passed to gin.SetMode ("debug", "release", "test").
	GinMode string `yaml:"gin_mode"`

	// RequestLogging turns the per-request log lines on or off.
	RequestLogging bool `yaml:"request_logging"`

	// ConfigFile is the path to the optional YAML config file.
	ConfigFile string `yaml:"-"`
}

// Parse builds the options from defaults, the command-line arguments, the config file and the
// environment, in that order of increasing precedence.
func Parse(args []string) (*Options, error) {
	options := &Options{}
	fs := flag.NewFlagSet("contact-manager", flag.ContinueOnError)
	fs.StringVar(&options.Addr, "a", ":8080", "run on ip:port server")
	fs.StringVar(&options.DataDir, "data", ".", "directory holding users.yml and the contact files")
	fs.StringVar(&options.StorageBackend, "storage", BackendFile, "storage backend (file, mysql)")
	fs.StringVar(&options.Database.Host, "dbhost", "localhost:3306", "MySQL host:port")
	fs.StringVar(&options.Database.User, "dbuser", "", "MySQL user")
	fs.StringVar(&options.Database.Name, "dbname", "contacts", "MySQL database name")
	fs.StringVar(&options.SessionBackend, "sessions", SessionMemory, "session backend (memory, redis)")
	fs.StringVar(&options.RedisAddr, "redis", "localhost:6379", "Redis address")
	fs.DurationVar(&options.SessionTTL, "session-ttl", 24*time.Hour, "session lifetime")
	fs.BoolVar(&options.CookieSecure, "cookie-secure", false, "send the session cookie over HTTPS only")
	fs.IntVar(&options.BcryptCost, "bcrypt-cost", 0, "bcrypt cost of new password hashes")
	fs.StringVar(&options.LogLevel, "log-level", "info", "log level")
	fs.StringVar(&options.GinMode, "gin-mode", "release", "gin mode")
	fs.BoolVar(&options.RequestLogging, "request-logging", true, "log every request")
	fs.StringVar(&options.ConfigFile, "config", "", "path to YAML config file")
	fs.StringVar(&options.ConfigFile, "c", "", "path to YAML config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.ConfigFile = configPath
	}
	if options.ConfigFile != "" {
		f, err := os.Open(options.ConfigFile) // nosemgrep
		if err != nil {
			return nil, fmt.Errorf("error while reading config file: %w", err)
		}
		err = DecodeStrict(f, options)
		f.Close()
		if err != nil {
			return nil, err
		}
	}

	if err := applyEnvironment(options); err != nil {
		return nil, err
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}
	return options, nil
}

// DecodeStrict decodes YAML from a reader and rejects any unknown fields. An empty document
// leaves out unchanged.
func DecodeStrict(r io.Reader, out interface{}) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnvironment(options *Options) error {
	setString := func(key string, target *string) {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return fmt.Errorf("could not parse PORT env variable: %w", err)
		}
		options.Addr = ":" + port
	}
	setString("SERVER_ADDRESS", &options.Addr)
	setString("DATA_DIR", &options.DataDir)
	setString("STORAGE_BACKEND", &options.StorageBackend)
	setString("DBHOST", &options.Database.Host)
	setString("DBUSER", &options.Database.User)
	setString("DBPWD", &options.Database.Password)
	setString("DBNAME", &options.Database.Name)
	setString("SESSION_BACKEND", &options.SessionBackend)
	setString("REDIS_ADDR", &options.RedisAddr)
	setString("REDIS_PASSWORD", &options.RedisPassword)
	setString("LOG_LEVEL", &options.LogLevel)
	setString("GIN_MODE", &options.GinMode)
	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("could not parse SESSION_TTL env variable: %w", err)
		}
		options.SessionTTL = ttl
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("could not parse BCRYPT_COST env variable: %w", err)
		}
		options.BcryptCost = cost
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("could not parse COOKIE_SECURE env variable: %w", err)
		}
		options.CookieSecure = secure
	}
	if strings.EqualFold(os.Getenv("GIN_LOGGING"), "off") {
		options.RequestLogging = false
	}
	return nil
}

// Validate checks the option values that cannot be checked by their type.
func (o *Options) Validate() error {
	switch o.StorageBackend {
	case BackendFile:
		if o.DataDir == "" {
			return errors.New("config: data directory must not be empty")
		}
	case BackendMySQL:
		if o.Database.Host == "" || o.Database.Name == "" {
			return errors.New("config: mysql backend needs a database host and name")
		}
	default:
		return fmt.Errorf("config: unknown storage backend %q", o.StorageBackend)
	}
	switch o.SessionBackend {
	case SessionMemory:
	case SessionRedis:
		if o.RedisAddr == "" {
			return errors.New("config: redis session backend needs an address")
		}
	default:
		return fmt.Errorf("config: unknown session backend %q", o.SessionBackend)
	}
	if o.SessionTTL <= 0 {
		return errors.New("config: session ttl must be positive")
	}
	if o.BcryptCost != 0 && (o.BcryptCost < 4 || o.BcryptCost > 31) {
		return fmt.Errorf("config: bcrypt cost %d out of range 4..31", o.BcryptCost)
	}
	return nil
}

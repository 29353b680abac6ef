package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/petition"
	ConfigFileName    = "petition.yml"
	DefaultDotenvPath = ".env"

	MinSessionSecretLength = 16
)

// Sources of attribute values
const (
	SourceDefault     = "default"
	SourceFile        = "file"
	SourceDotenv      = "dotenv"
	SourceEnvironment = "environment"
)

// Session store backends
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// PetitionConfig holds all server configuration settings
type PetitionConfig struct {
	DatabaseURL      string
	SessionSecret    string
	Port             int
	BindAddress      string
	BaseURL          string
	SessionTTL       int // seconds
	SessionStore     string
	RedisURL         string
	ListLimitDefault int
	ListLimitMax     int
	RequestTimeout   int // seconds
	LoginMaxAttempts int
	CookieSecure     bool
	AuditDatabaseURL string
	TemplatesDir     string

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

type attribute struct {
	name   string
	env    string
	secret bool
	get    func(c *PetitionConfig) string
	set    func(c *PetitionConfig, v string) error
}

func stringAttr(name, env string, secret bool, field func(c *PetitionConfig) *string) attribute {
	return attribute{
		name:   name,
		env:    env,
		secret: secret,
		get:    func(c *PetitionConfig) string { return *field(c) },
		set: func(c *PetitionConfig, v string) error {
			*field(c) = v
			return nil
		},
	}
}

func intAttr(name, env string, field func(c *PetitionConfig) *int) attribute {
	return attribute{
		name: name,
		env:  env,
		get:  func(c *PetitionConfig) string { return strconv.Itoa(*field(c)) },
		set: func(c *PetitionConfig, v string) error {
			i, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: %q is not an integer", name, v)
			}
			*field(c) = i
			return nil
		},
	}
}

func boolAttr(name, env string, field func(c *PetitionConfig) *bool) attribute {
	return attribute{
		name: name,
		env:  env,
		get:  func(c *PetitionConfig) string { return strconv.FormatBool(*field(c)) },
		set: func(c *PetitionConfig, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: %q is not a boolean", name, v)
			}
			*field(c) = b
			return nil
		},
	}
}

var attributes = []attribute{
	stringAttr("database_url", "DATABASE_URL", true, func(c *PetitionConfig) *string { return &c.DatabaseURL }),
	stringAttr("session_secret", "SESSION_SECRET", true, func(c *PetitionConfig) *string { return &c.SessionSecret }),
	intAttr("port", "PORT", func(c *PetitionConfig) *int { return &c.Port }),
	stringAttr("bind_address", "PETITION_BIND_ADDRESS", false, func(c *PetitionConfig) *string { return &c.BindAddress }),
	stringAttr("base_url", "PETITION_BASE_URL", false, func(c *PetitionConfig) *string { return &c.BaseURL }),
	intAttr("session_ttl", "PETITION_SESSION_TTL", func(c *PetitionConfig) *int { return &c.SessionTTL }),
	stringAttr("session_store", "PETITION_SESSION_STORE", false, func(c *PetitionConfig) *string { return &c.SessionStore }),
	stringAttr("redis_url", "REDIS_URL", true, func(c *PetitionConfig) *string { return &c.RedisURL }),
	intAttr("list_limit_default", "PETITION_LIST_LIMIT_DEFAULT", func(c *PetitionConfig) *int { return &c.ListLimitDefault }),
	intAttr("list_limit_max", "PETITION_LIST_LIMIT_MAX", func(c *PetitionConfig) *int { return &c.ListLimitMax }),
	intAttr("request_timeout", "PETITION_REQUEST_TIMEOUT", func(c *PetitionConfig) *int { return &c.RequestTimeout }),
	intAttr("login_max_attempts", "PETITION_LOGIN_MAX_ATTEMPTS", func(c *PetitionConfig) *int { return &c.LoginMaxAttempts }),
	boolAttr("cookie_secure", "PETITION_COOKIE_SECURE", func(c *PetitionConfig) *bool { return &c.CookieSecure }),
	stringAttr("audit_database_url", "AUDIT_DATABASE_URL", true, func(c *PetitionConfig) *string { return &c.AuditDatabaseURL }),
	stringAttr("templates_dir", "PETITION_TEMPLATES_DIR", false, func(c *PetitionConfig) *string { return &c.TemplatesDir }),
}

// newDefault returns a config with default values
func newDefault() *PetitionConfig {
	c := &PetitionConfig{
		Port:             3000,
		BindAddress:      "0.0.0.0",
		BaseURL:          "http://localhost:3000",
		SessionTTL:       20,
		SessionStore:     SessionStoreMemory,
		ListLimitDefault: 50,
		ListLimitMax:     500,
		RequestTimeout:   5,
		LoginMaxAttempts: 5,
		sources:          make(map[string]string),
	}
	for _, attr := range attributes {
		c.sources[attr.name] = SourceDefault
	}
	return c
}

// Load loads configuration from the config file, the .env file and
// environment variables, in increasing order of precedence
func Load() (*PetitionConfig, error) {
	config := newDefault()

	configPath := os.Getenv("PETITION_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		fileValues := map[string]string{}
		if err := yaml.Unmarshal(data, &fileValues); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		if err := config.apply(SourceFile, func(attr attribute) (string, bool) {
			v, ok := fileValues[attr.name]
			return v, ok
		}); err != nil {
			return nil, fmt.Errorf("config file %s: %w", config.configFilePath, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file %s: %w", config.configFilePath, err)
	}

	dotenvPath := os.Getenv("PETITION_DOTENV_PATH")
	if dotenvPath == "" {
		dotenvPath = DefaultDotenvPath
	}
	if dotenv, err := godotenv.Read(dotenvPath); err == nil {
		if err := config.apply(SourceDotenv, func(attr attribute) (string, bool) {
			v, ok := dotenv[attr.env]
			return v, ok && v != ""
		}); err != nil {
			return nil, fmt.Errorf("%s: %w", dotenvPath, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", dotenvPath, err)
	}

	if err := config.apply(SourceEnvironment, func(attr attribute) (string, bool) {
		v, ok := os.LookupEnv(attr.env)
		return v, ok && v != ""
	}); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *PetitionConfig) apply(source string, lookup func(attribute) (string, bool)) error {
	for _, attr := range attributes {
		v, ok := lookup(attr)
		if !ok {
			continue
		}
		if err := attr.set(c, v); err != nil {
			return err
		}
		c.sources[attr.name] = source
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *PetitionConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *PetitionConfig) Source(name string) string {
	if c.sources == nil {
		return SourceDefault
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return SourceDefault
}

// Addr returns the listen address
func (c *PetitionConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.BindAddress, c.Port)
}

// SessionLifetime returns the session TTL as a duration
func (c *PetitionConfig) SessionLifetime() time.Duration {
	return time.Duration(c.SessionTTL) * time.Second
}

// RequestDeadline returns the per-request timeout as a duration
func (c *PetitionConfig) RequestDeadline() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Validate validates the configuration
func (c *PetitionConfig) Validate() error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("database_url is required (DATABASE_URL)"))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("session_secret is required (SESSION_SECRET)"))
	} else if len(c.SessionSecret) < MinSessionSecretLength {
		errs = append(errs, fmt.Errorf("session_secret must be at least %d characters", MinSessionSecretLength))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid base_url: %q", c.BaseURL))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("session_ttl must be positive, got %d", c.SessionTTL))
	}
	switch c.SessionStore {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("redis_url is required when session_store is redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid session_store: %q (expected memory or redis)", c.SessionStore))
	}
	if c.ListLimitDefault <= 0 || c.ListLimitMax < c.ListLimitDefault {
		errs = append(errs, fmt.Errorf("invalid list limits: default %d, max %d", c.ListLimitDefault, c.ListLimitMax))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive, got %d", c.RequestTimeout))
	}
	if c.LoginMaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("login_max_attempts must not be negative, got %d", c.LoginMaxAttempts))
	}

	return errors.Join(errs...)
}

// Attributes returns all configuration attributes with their values and
// sources. Secret values are masked.
func (c *PetitionConfig) Attributes() []Attribute {
	result := make([]Attribute, 0, len(attributes))
	for _, attr := range attributes {
		value := attr.get(c)
		if attr.secret && value != "" {
			value = "********"
		}
		result = append(result, Attribute{Name: attr.name, Value: value, Source: c.Source(attr.name)})
	}
	return result
}

// FormatText returns a text representation of the configuration
func (c *PetitionConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-24s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-24s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-24s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *PetitionConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

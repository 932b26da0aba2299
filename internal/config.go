package internal

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"http_server"`
	Database DatabaseConfig `mapstructure:"database"`
	Security SecurityConfig `mapstructure:"security"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Mail     MailConfig     `mapstructure:"mail"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	BasePath          string        `mapstructure:"base_path"`
	OpenAPIPath       string        `mapstructure:"openapi_path"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	AccessTokenSecret    string        `mapstructure:"access_token_secret"`
	RefreshTokenSecret   string        `mapstructure:"refresh_token_secret"`
	ResetTokenSecret     string        `mapstructure:"reset_token_secret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration"`
	ResetTokenDuration   time.Duration `mapstructure:"reset_token_duration"`
	BCryptCost           int           `mapstructure:"bcrypt_cost"`
	RoleCacheSize        int           `mapstructure:"role_cache_size"`
}

type StorageConfig struct {
	Region                string        `mapstructure:"region"`
	Bucket                string        `mapstructure:"bucket"`
	AccessKeyID           string        `mapstructure:"access_key_id"`
	SecretAccessKey       string        `mapstructure:"secret_access_key"`
	Endpoint              string        `mapstructure:"endpoint"`
	UsePathStyle          bool          `mapstructure:"use_path_style"`
	ImagePresignExpiry    time.Duration `mapstructure:"image_presign_expiry"`
	DocumentPresignExpiry time.Duration `mapstructure:"document_presign_expiry"`
	MaxImageSize          int64         `mapstructure:"max_image_size"`
	MaxDocumentSize       int64         `mapstructure:"max_document_size"`
}

type MailConfig struct {
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	From             string `mapstructure:"from"`
	ResetPasswordURL string `mapstructure:"reset_password_url"`
}

type SeedConfig struct {
	AdminEmail     string `mapstructure:"admin_email"`
	AdminPassword  string `mapstructure:"admin_password"`
	AdminFirstName string `mapstructure:"admin_first_name"`
	AdminLastName  string `mapstructure:"admin_last_name"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Mail.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("mail config: %v", err))
	}

	if err := c.Seed.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("seed config: %v", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return errors.New("base_path must start with /")
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	var errs []string
	secrets := map[string]string{
		"access_token_secret":  c.AccessTokenSecret,
		"refresh_token_secret": c.RefreshTokenSecret,
		"reset_token_secret":   c.ResetTokenSecret,
	}
	for _, name := range []string{"access_token_secret", "refresh_token_secret", "reset_token_secret"} {
		if len(secrets[name]) < 32 {
			errs = append(errs, fmt.Sprintf("%s must be at least 32 characters", name))
		}
	}
	if c.AccessTokenSecret != "" && (c.AccessTokenSecret == c.RefreshTokenSecret || c.AccessTokenSecret == c.ResetTokenSecret) {
		errs = append(errs, "access, refresh and reset secrets must differ")
	}
	if c.AccessTokenDuration < time.Minute {
		errs = append(errs, "access_token_duration must be at least 1m")
	}
	if c.RefreshTokenDuration <= c.AccessTokenDuration {
		errs = append(errs, "refresh_token_duration must be longer than access_token_duration")
	}
	if c.ResetTokenDuration <= 0 {
		errs = append(errs, "reset_token_duration is required")
	}
	if c.BCryptCost < 4 || c.BCryptCost > 31 {
		errs = append(errs, "bcrypt_cost must be between 4 and 31")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, ", "))
	}
	return nil
}

func (c *StorageConfig) Validate() error {
	var errs []string
	if c.Region == "" {
		errs = append(errs, "region is required")
	}
	if c.Bucket == "" {
		errs = append(errs, "bucket is required")
	}
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		errs = append(errs, "access_key_id and secret_access_key are required")
	}
	if c.Endpoint != "" {
		if _, err := url.ParseRequestURI(c.Endpoint); err != nil {
			errs = append(errs, fmt.Sprintf("invalid endpoint: %v", err))
		}
	}
	if c.ImagePresignExpiry <= 0 || c.DocumentPresignExpiry <= 0 {
		errs = append(errs, "presign expiries must be positive")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, ", "))
	}
	return nil
}

func (c *MailConfig) Validate() error {
	if c.Host == "" {
		return errors.New("host is required")
	}
	if c.Port <= 0 {
		return errors.New("port is required")
	}
	if _, err := mail.ParseAddress(c.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if _, err := url.ParseRequestURI(c.ResetPasswordURL); err != nil {
		return fmt.Errorf("invalid reset_password_url: %w", err)
	}
	return nil
}

func (c *SeedConfig) Validate() error {
	if _, err := mail.ParseAddress(c.AdminEmail); err != nil {
		return fmt.Errorf("invalid admin_email: %w", err)
	}
	if len(c.AdminPassword) < 8 {
		return errors.New("admin_password must be at least 8 characters")
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}

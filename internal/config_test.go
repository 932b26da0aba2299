package internal_test

import (
	"time"

	"github.com/frahmantamala/training-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validConfig() internal.Config {
	return internal.Config{
		Server: internal.ServerConfig{
			Port:              8080,
			BasePath:          "/api/v1",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
		},
		Database: internal.DatabaseConfig{Source: "postgres://localhost/training", MaxOpenConns: 10, MaxIdleConns: 2},
		Security: internal.SecurityConfig{
			AccessTokenSecret:    "access-secret-access-secret-0123",
			RefreshTokenSecret:   "refresh-secret-refresh-secret-012",
			ResetTokenSecret:     "reset-secret-reset-secret-reset-0",
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 24 * time.Hour,
			ResetTokenDuration:   30 * time.Minute,
			BCryptCost:           10,
		},
		Storage: internal.StorageConfig{
			Region:                "ap-southeast-1",
			Bucket:                "media",
			AccessKeyID:           "key",
			SecretAccessKey:       "secret",
			ImagePresignExpiry:    time.Minute,
			DocumentPresignExpiry: time.Minute,
		},
		Mail: internal.MailConfig{
			Host:             "smtp.local",
			Port:             587,
			From:             "Training <no-reply@training.local>",
			ResetPasswordURL: "https://app.local/reset",
		},
		Seed:    internal.SeedConfig{AdminEmail: "admin@training.local", AdminPassword: "long-enough"},
		Logging: internal.LoggingConfig{Level: "info", Format: "json"},
	}
}

var _ = Describe("Config.Validate", func() {
	It("accepts a complete config", func() {
		cfg := validConfig()
		Expect(cfg.Validate()).To(Succeed())
	})

	DescribeTable("rejects",
		func(mutate func(*internal.Config), want string) {
			cfg := validConfig()
			mutate(&cfg)
			Expect(cfg.Validate()).To(MatchError(ContainSubstring(want)))
		},
		Entry("a port out of range", func(c *internal.Config) { c.Server.Port = 70000 }, "port 70000"),
		Entry("a relative base path", func(c *internal.Config) { c.Server.BasePath = "api" }, "base_path"),
		Entry("a missing database source", func(c *internal.Config) { c.Database.Source = "" }, "source is required"),
		Entry("short secrets", func(c *internal.Config) { c.Security.ResetTokenSecret = "short" }, "reset_token_secret"),
		Entry("shared secrets", func(c *internal.Config) { c.Security.RefreshTokenSecret = c.Security.AccessTokenSecret }, "must differ"),
		Entry("a refresh token outliving nothing", func(c *internal.Config) { c.Security.RefreshTokenDuration = time.Minute }, "refresh_token_duration"),
		Entry("a bcrypt cost out of range", func(c *internal.Config) { c.Security.BCryptCost = 2 }, "bcrypt_cost"),
		Entry("a missing bucket", func(c *internal.Config) { c.Storage.Bucket = "" }, "bucket is required"),
		Entry("a bad reset url", func(c *internal.Config) { c.Mail.ResetPasswordURL = "reset" }, "reset_password_url"),
		Entry("a short admin password", func(c *internal.Config) { c.Seed.AdminPassword = "short" }, "admin_password"),
		Entry("an unknown log level", func(c *internal.Config) { c.Logging.Level = "loud" }, "unknown level"),
	)
})

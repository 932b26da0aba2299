package cmd

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults registers every key, which is also what lets AutomaticEnv
// fill keys that are absent from config.yml.
func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.base_url", "http://localhost:8080")
	v.SetDefault("http_server.base_path", "/api/v1")
	v.SetDefault("http_server.openapi_path", "./api/openapi.yml")
	v.SetDefault("http_server.read_header_timeout", 5*time.Second)
	v.SetDefault("http_server.read_timeout", 30*time.Second)
	v.SetDefault("http_server.idle_timeout", 60*time.Second)
	v.SetDefault("http_server.write_timeout", 30*time.Second)
	v.SetDefault("http_server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.source", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 5*time.Minute)

	v.SetDefault("security.access_token_secret", "")
	v.SetDefault("security.refresh_token_secret", "")
	v.SetDefault("security.reset_token_secret", "")
	v.SetDefault("security.access_token_duration", 15*time.Minute)
	v.SetDefault("security.refresh_token_duration", 7*24*time.Hour)
	v.SetDefault("security.reset_token_duration", 30*time.Minute)
	v.SetDefault("security.bcrypt_cost", 10)
	v.SetDefault("security.role_cache_size", 64)

	v.SetDefault("storage.region", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.secret_access_key", "")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.use_path_style", false)
	v.SetDefault("storage.image_presign_expiry", 30*time.Second)
	v.SetDefault("storage.document_presign_expiry", time.Minute)
	v.SetDefault("storage.max_image_size", 5<<20)
	v.SetDefault("storage.max_document_size", 20<<20)

	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.reset_password_url", "")

	v.SetDefault("seed.admin_email", "")
	v.SetDefault("seed.admin_password", "")
	v.SetDefault("seed.admin_first_name", "System")
	v.SetDefault("seed.admin_last_name", "Administrator")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

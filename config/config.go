package config

var Conf Config

type Config struct {
	Application Application `yaml:"application" json:"application"`
}

type Application struct {
	DisplayName string     `yaml:"display-name" json:"display_name"`
	LogLevel    string     `yaml:"log-level" json:"log_level"`
	Server      Server     `yaml:"server" json:"server"`
	Datasource  Datasource `yaml:"datasource" json:"datasource"`
	Migration   string     `yaml:"migration"`
	Security    Security   `yaml:"security" json:"security"`
	Redis       Redis      `yaml:"redis" json:"redis"`
	WebAuthn    WebAuthn   `yaml:"webauthn" json:"webauthn"`
	Kafka       Kafka      `yaml:"kafka" json:"kafka"`
	RateLimit   RateLimit  `yaml:"rate-limit" json:"rate_limit"`
}

type Server struct {
	ContextPath string   `yaml:"context-path" json:"context_path"`
	Port        string   `yaml:"port"`
	PublicPaths []string `yaml:"public-paths" json:"public_paths"`
}

type Datasource struct {
	Driver                string `yaml:"driver" json:"driver"`
	PrimaryURL            string `yaml:"primary-url" json:"primary_url" env:"APP_DATASOURCE_URL"`
	MaxIdleConnections    int    `yaml:"max-idle-connections" json:"max_idle_connections"`
	MaxOpenConnections    int    `yaml:"max-open-connections" json:"max_open_connections"`
	ConnectionMaxLifetime int    `yaml:"connection-max-lifetime" json:"connection_max_lifetime"`
}

// Security holds token settings. Validity values are milliseconds.
type Security struct {
	Issuer                       string `yaml:"issuer" json:"issuer"`
	AccessPrivateKeyLocation     string `yaml:"access-private-key-location" json:"-" env:"APP_JWT_ACCESS_PRIVATE_KEY_PATH"`
	RefreshPrivateKeyLocation    string `yaml:"refresh-private-key-location" json:"-" env:"APP_JWT_REFRESH_PRIVATE_KEY_PATH"`
	AccessTokenValidity          int64  `yaml:"access-token-validity" json:"access_token_validity"`
	RefreshTokenValidity         int64  `yaml:"refresh-token-validity" json:"refresh_token_validity"`
	PasswordChangeTokenValidity  int64  `yaml:"password-change-token-validity" json:"password_change_token_validity"`
	RevocationPruneIntervalInMin int    `yaml:"revocation-prune-interval-in-minutes" json:"revocation_prune_interval_in_minutes"`
	SecureCookie                 bool   `yaml:"secure-cookie" json:"secure_cookie"`
}

type Redis struct {
	Host string `yaml:"address" json:"address" env:"APP_REDIS_ADDRESS"`
}

type WebAuthn struct {
	RpDisplayName       string   `yaml:"rp-display-name" json:"rp_display_name"`
	RpOrigins           []string `yaml:"rp-origins" json:"rp_origins"`
	RpID                string   `yaml:"rp-id" json:"rp_id"`
	SessionTTLInSeconds int      `yaml:"session-ttl-in-seconds" json:"session_ttl_in_seconds"`
}

type Kafka struct {
	Brokers    []string `yaml:"brokers" json:"brokers" env:"APP_KAFKA_BROKERS" envSeparator:","`
	AuditTopic string   `yaml:"audit-topic" json:"audit_topic"`
}

type RateLimit struct {
	Max             int `yaml:"max" json:"max"`
	WindowInSeconds int `yaml:"window-in-seconds" json:"window_in_seconds"`
}

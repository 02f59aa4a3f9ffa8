// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Supabase      SupabaseConfig      `mapstructure:"supabase"`
	GenAI         GenAIConfig         `mapstructure:"genai"`
	Billing       BillingConfig       `mapstructure:"billing"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Notifications NotificationConfig  `mapstructure:"notifications"`
	Session       SessionConfig       `mapstructure:"session"`
	Questionnaire QuestionnaireConfig `mapstructure:"questionnaire"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int `mapstructure:"write_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Enabled   bool     `mapstructure:"enabled"`
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- External services ---

// SupabaseConfig points the token verifier at the Supabase project. The
// anon key travels as the "apikey" header on verification calls.
type SupabaseConfig struct {
	URL     string `mapstructure:"url"`
	AnonKey string `mapstructure:"anon_key"`
}

// GenAIConfig points the assistant and the semantic extractor at the AI
// compute service.
type GenAIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// BillingConfig carries the hosted Stripe checkout redirect. Payment is a
// static redirect only; no webhook handling lives in this service.
type BillingConfig struct {
	CheckoutURL string `mapstructure:"checkout_url"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NotificationConfig holds settings for advisor notifications.
type NotificationConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	AWSRegion    string `mapstructure:"aws_region"`
	SenderEmail  string `mapstructure:"sender_email"`
	AdvisorEmail string `mapstructure:"advisor_email"`
	AdvisorPhone string `mapstructure:"advisor_phone"`
	SMSEnabled   bool   `mapstructure:"sms_enabled"`
}

// SessionConfig bounds onboarding sessions.
type SessionConfig struct {
	TTL int `mapstructure:"ttl"` // seconds
}

// QuestionnaireConfig optionally points at a questionnaire JSON file; when
// empty the compiled-in default is used.
type QuestionnaireConfig struct {
	Path string `mapstructure:"path"`
}

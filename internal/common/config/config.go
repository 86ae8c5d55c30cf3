// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Registry      RegistryConfig     `mapstructure:"registry"`
	Verification  VerificationConfig `mapstructure:"verification"`
	GenAI         GenAIConfig        `mapstructure:"genai"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Pipeline      PipelineConfig     `mapstructure:"pipeline"`
	Batch         BatchConfig        `mapstructure:"batch"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// RegistryConfig holds settings for the primary business registry source.
type RegistryConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	PublicURL string `mapstructure:"public_url"` // user-followable verification links
	APIKey    string `mapstructure:"api_key"`
	PageSize  int    `mapstructure:"page_size"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
}

// VerificationConfig holds settings for the secondary verification sources.
// A source with an empty API key is treated as not configured and skipped.
type VerificationConfig struct {
	CacheTTLHours int `mapstructure:"cache_ttl_hours"`

	LegalRegistry struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
	} `mapstructure:"legal_registry"`

	Location struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
	} `mapstructure:"location"`
}

// GenAIConfig holds settings for the content-generation service.
type GenAIConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	CostPerCall float64 `mapstructure:"cost_per_call"` // coarse USD estimate
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
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig holds settings for the published-content store.
type StorageConfig struct {
	PublicBaseURL string `mapstructure:"public_base_url"`
	ContentIndex  string `mapstructure:"content_index"`
}

// PipelineConfig holds per-run orchestrator settings.
type PipelineConfig struct {
	ValidateContent      bool `mapstructure:"validate_content"`
	IncludeIntelligence  bool `mapstructure:"include_intelligence"`
	SendWelcome          bool `mapstructure:"send_welcome"`
	GenerationAttempts   int  `mapstructure:"generation_attempts"`
	GenerationRetryDelay int  `mapstructure:"generation_retry_delay"` // milliseconds
}

// BatchConfig holds settings for the batch aggregator.
type BatchConfig struct {
	ItemDelay           int     `mapstructure:"item_delay"` // milliseconds
	MinSampleSize       int     `mapstructure:"min_sample_size"`
	EscalationThreshold float64 `mapstructure:"escalation_threshold"`
}

// NotificationConfig holds settings for the notification collaborator.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	Alerts struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"alerts"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

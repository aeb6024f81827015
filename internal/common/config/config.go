// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Ranking   RankingConfig   `mapstructure:"ranking"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
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

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Provider Configuration ---

// ProvidersConfig holds vendor endpoints, credentials and orchestration knobs.
type ProvidersConfig struct {
	CatalogPath      string `mapstructure:"catalog_path"`
	AttemptTimeout   int    `mapstructure:"attempt_timeout"` // milliseconds, per provider attempt
	FailureThreshold int    `mapstructure:"failure_threshold"`

	OpenAI struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"openai"`

	Groq struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Model   string `mapstructure:"model"`
	} `mapstructure:"groq"`

	Gemini struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Model   string `mapstructure:"model"`
	} `mapstructure:"gemini"`

	ElevenLabs struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		VoiceID string `mapstructure:"voice_id"`
	} `mapstructure:"elevenlabs"`

	AzureTTS struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Region  string `mapstructure:"region"`
		Voice   string `mapstructure:"voice"`
	} `mapstructure:"azure_tts"`
}

// Credentials returns the credential map consulted before any provider call.
// A descriptor whose credential key maps to an empty value is skipped, never
// invoked.
func (p ProvidersConfig) Credentials() map[string]string {
	return map[string]string{
		"OPENAI_API_KEY":     p.OpenAI.APIKey,
		"GROQ_API_KEY":       p.Groq.APIKey,
		"GEMINI_API_KEY":     p.Gemini.APIKey,
		"ELEVENLABS_API_KEY": p.ElevenLabs.APIKey,
		"AZURE_SPEECH_KEY":   p.AzureTTS.APIKey,
	}
}

// --- Pipeline / Ranking Configuration ---

// PipelineConfig holds settings for the batch orchestration pipeline.
type PipelineConfig struct {
	BatchTimeout    int                `mapstructure:"batch_timeout"` // milliseconds
	RevenuePerPoint float64            `mapstructure:"revenue_per_point"`
	ContentUnits    map[string]float64 `mapstructure:"content_units"`
}

// RankingConfig holds the priority-score weights and the filter threshold.
type RankingConfig struct {
	ScoreWeight     float64 `mapstructure:"score_weight"`
	ROIWeight       float64 `mapstructure:"roi_weight"`
	ROICap          float64 `mapstructure:"roi_cap"`
	MinOverallScore float64 `mapstructure:"min_overall_score"`
}

// CacheConfig holds settings for the analysis result cache.
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	TTL     int  `mapstructure:"ttl"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

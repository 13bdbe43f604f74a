package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"risk-copilot-be/internal/constant"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Keys      APIKeys
	Ai        AIConfig
	Pipeline  PipelineConfig
	Guardrail GuardrailConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	// AlertRecipients receive compliance alert mails, comma separated.
	AlertRecipients []string
}

type APIKeys struct {
	GoogleGemini string
	HuggingFace  string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaEmbedModel  string
	LLMProvider       string // "ollama" or "huggingface"
	LLMModel          string // e.g. "llama3", "qwen2.5"
	LLMBaseURL        string
	LLMTimeoutSecs    int
}

type PipelineConfig struct {
	TopK               int
	MinSimilarity      float64
	RelevanceThreshold float64
	MaxContextChars    int
	StageTimeoutSecs   int
	LogFilePath        string
}

type GuardrailConfig struct {
	Enabled          bool
	BlockingSeverity string // "low", "medium", "high", "critical"
	BannedTopics     []string
	// Per-family toggles; all on by default.
	CheckPII           bool
	CheckToxicity      bool
	CheckBannedTopics  bool
	CheckInjection     bool
	CheckHallucination bool
}

type RateLimitConfig struct {
	Enabled   bool
	PerMinute int
}

type AuditConfig struct {
	RetentionDays int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:            getEnv("SMTP_HOST", ""),
			Port:            getEnvAsInt("SMTP_PORT", 587),
			Email:           getEnv("SMTP_EMAIL", ""),
			Password:        getEnv("SMTP_PASSWORD", ""),
			SenderName:      getEnv("SMTP_SENDER_NAME", "Risk Copilot"),
			AlertRecipients: getEnvAsList("ALERT_RECIPIENTS", nil),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HF_TOKEN", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			LLMTimeoutSecs:    getEnvAsInt("LLM_TIMEOUT_SECONDS", 60),
		},
		Pipeline: PipelineConfig{
			TopK:               getEnvAsInt("RETRIEVAL_TOP_K", 5),
			MinSimilarity:      getEnvAsFloat("RETRIEVAL_MIN_SIMILARITY", 0.5),
			RelevanceThreshold: getEnvAsFloat("CITATION_RELEVANCE_THRESHOLD", 0.6),
			MaxContextChars:    getEnvAsInt("GENERATION_MAX_CONTEXT_CHARS", 3000),
			StageTimeoutSecs:   getEnvAsInt("PIPELINE_STAGE_TIMEOUT_SECONDS", 30),
			LogFilePath:        getEnv("PIPELINE_LOG_FILE_PATH", "pipeline.log"),
		},
		Guardrail: GuardrailConfig{
			Enabled:            getEnvAsBool("ENABLE_GUARDRAILS", true),
			BlockingSeverity:   getEnv("GUARDRAIL_BLOCKING_SEVERITY", "critical"),
			BannedTopics:       getEnvAsList("GUARDRAIL_BANNED_TOPICS", nil),
			CheckPII:           getEnvAsBool("GUARDRAIL_CHECK_PII", true),
			CheckToxicity:      getEnvAsBool("GUARDRAIL_CHECK_TOXICITY", true),
			CheckBannedTopics:  getEnvAsBool("GUARDRAIL_CHECK_BANNED_TOPICS", true),
			CheckInjection:     getEnvAsBool("GUARDRAIL_CHECK_INJECTION", true),
			CheckHallucination: getEnvAsBool("GUARDRAIL_CHECK_HALLUCINATION", true),
		},
		RateLimit: RateLimitConfig{
			Enabled:   getEnvAsBool("RATE_LIMIT_ENABLED", true),
			PerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 30),
		},
		Audit: AuditConfig{
			RetentionDays: getEnvAsInt("AUDIT_RETENTION_DAYS", constant.AuditRetentionDays),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	parts := strings.Split(strValue, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

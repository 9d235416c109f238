package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Graph    GraphConfig
	SMTP     SMTPConfig
	Ai       AIConfig
	Jwt      JwtConfig
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
}

type DatabaseConfig struct {
	Connection string
}

// GraphConfig drives the Microsoft Graph drive backend and its OAuth app
type GraphConfig struct {
	BaseURL      string
	TenantId     string
	ClientId     string
	ClientSecret string
	RedirectURL  string
	Scopes       string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AIConfig struct {
	Provider      string // "ollama", "gemini" or "openai"
	Model         string
	OllamaBaseURL string
	OpenAIBaseURL string
	GeminiAPIKey  string
	OpenAIAPIKey  string
}

type JwtConfig struct {
	Secret    string
	ExpiryHrs int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Graph: GraphConfig{
			BaseURL:      getEnv("GRAPH_BASE_URL", "https://graph.microsoft.com/v1.0"),
			TenantId:     getEnv("MS_TENANT_ID", "common"),
			ClientId:     getEnv("MS_CLIENT_ID", ""),
			ClientSecret: getEnv("MS_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("MS_REDIRECT_URL", "http://localhost:3000/api/v1/oauth/microsoft/callback"),
			Scopes:       getEnv("MS_SCOPES", "Files.Read.All Sites.Read.All offline_access"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Drive Assistant"),
		},
		Ai: AIConfig{
			Provider:      getEnv("LLM_PROVIDER", "ollama"),
			Model:         getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			GeminiAPIKey:  getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		},
		Jwt: JwtConfig{
			Secret:    getEnv("JWT_SECRET", ""),
			ExpiryHrs: getEnvAsInt("JWT_EXPIRY_HOURS", 72),
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

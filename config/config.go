package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries every tunable the API server and the tool server read from
// the environment. Values are secrets or endpoints; nothing here is persisted.
type Config struct {
	// Server
	Port string
	Env  string

	// Model provider: "gemini" (default) or "openai"
	LLMProvider   string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Tool upstreams
	GoogleMapsAPIKey string
	SerpAPIKey       string

	// Tool transport
	ToolServerCommand string
	ToolServerPort    string

	// Chat history (DynamoDB)
	DynamoDBEndpoint string
	AWSRegion        string
	HistoryTable     string

	// Agent
	AgentTimeoutSeconds int

	// Frontend
	StaticDir string
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	return &Config{
		Port:                getEnvOrDefault("PORT", "8080"),
		Env:                 getEnvOrDefault("ENV", "development"),
		LLMProvider:         getEnvOrDefault("LLM_PROVIDER", "gemini"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:       os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:         getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		GoogleMapsAPIKey:    os.Getenv("GOOGLEMAPS_API_KEY"),
		SerpAPIKey:          os.Getenv("SERPAPI_API_KEY"),
		ToolServerCommand:   getEnvOrDefault("TOOLSERVER_COMMAND", "geoinsight-toolserver"),
		ToolServerPort:      getEnvOrDefault("TOOLSERVER_PORT", "8000"),
		DynamoDBEndpoint:    os.Getenv("DYNAMODB_ENDPOINT"),
		AWSRegion:           getEnvOrDefault("AWS_REGION", "us-east-1"),
		HistoryTable:        getEnvOrDefault("HISTORY_TABLE", "ChatHistory"),
		AgentTimeoutSeconds: getEnvAsIntOrDefault("AGENT_TIMEOUT_SECONDS", 30),
		StaticDir:           getEnvOrDefault("STATIC_DIR", "./frontend/dist"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

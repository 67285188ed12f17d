package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/k3053/GeoInsight.AI/agent"
	"github.com/k3053/GeoInsight.AI/config"
	"github.com/k3053/GeoInsight.AI/controllers"
	"github.com/k3053/GeoInsight.AI/llm"
	"github.com/k3053/GeoInsight.AI/routes"
	"github.com/k3053/GeoInsight.AI/services"
)

func main() {
	cfg := config.Load()
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	model, err := buildModel(ctx, cfg)
	if err != nil {
		log.Fatalf("model setup failed: %v", err)
	}
	log.Printf("using model %s via %s", model.Name(), cfg.LLMProvider)

	runner := agent.NewRunner(model, agent.NewCheckpointer())

	// History is optional: the chat flow works without persistence, so a
	// store that cannot be reached only costs the transcript.
	var history services.ChatHistory
	if store, err := services.NewHistoryStore(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint, cfg.HistoryTable); err != nil {
		log.Printf("chat history unavailable, continuing without persistence: %v", err)
	} else {
		history = store
	}

	agentService := services.NewAgentService(
		runner,
		history,
		cfg.ToolServerCommand,
		time.Duration(cfg.AgentTimeoutSeconds)*time.Second,
	)

	router := routes.SetupRouter(
		controllers.NewChatController(agentService),
		controllers.NewDataController(services.NewBuildingsService()),
		cfg.StaticDir,
	)

	addr := ":" + cfg.Port
	log.Printf("Server starting on port %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func buildModel(ctx context.Context, cfg *config.Config) (llm.Model, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		return llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

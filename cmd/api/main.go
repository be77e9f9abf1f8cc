package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/brahimakil/rasedweb/db"
	"github.com/brahimakil/rasedweb/internal/cache"
	"github.com/brahimakil/rasedweb/internal/dates"
	"github.com/brahimakil/rasedweb/internal/handler"
	"github.com/brahimakil/rasedweb/internal/news"
	"github.com/brahimakil/rasedweb/internal/repository"
	"github.com/brahimakil/rasedweb/internal/social"
	"github.com/brahimakil/rasedweb/pkg/llm"
	"github.com/brahimakil/rasedweb/pkg/scraper"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	scraperURL := os.Getenv("SCRAPER_API_URL")
	if scraperURL == "" {
		scraperURL = "http://localhost:3000/api"
	}
	scraperClient := scraper.NewClient(scraperURL)

	kv := cache.NewStore(db.Redis)
	freshness := cache.NewFreshness(kv)
	breaker := repository.NewBreaker(0)

	articleRepo := repository.NewArticleRepository(db.DB)
	savedRepo := repository.NewSavedRepository(db.DB)
	profileRepo := repository.NewProfileRepository(db.DB)

	reconciler := news.NewReconciler(scraperClient, articleRepo, savedRepo, kv, freshness, breaker)

	clientFactory := func(apiKey string) llm.CompletionClient {
		return llm.NewGeminiClient(apiKey)
	}
	serverClient := serverCompletionClient()

	socialService := social.NewService(scraperClient, kv, serverClient)
	dateParser := dates.NewParser(serverClient)

	newsHandler := handler.NewNewsHandler(reconciler, profileRepo, clientFactory, dateParser)
	analysisHandler := handler.NewAnalysisHandler(reconciler, profileRepo, clientFactory)
	savedHandler := handler.NewSavedHandler(articleRepo, savedRepo)
	instagramHandler := handler.NewInstagramHandler(socialService)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-User-ID"},
	}))

	r.GET("/news", newsHandler.GetNews)
	r.GET("/news/sources", newsHandler.GetSources)
	r.GET("/news/categories", newsHandler.GetCategories)
	r.POST("/news/filter", newsHandler.FilterNews)
	r.POST("/analysis/insights", analysisHandler.GetInsights)
	r.POST("/favorites/:id/toggle", savedHandler.ToggleFavorite)
	r.GET("/favorites", savedHandler.GetFavorites)
	r.POST("/saved", savedHandler.SaveItems)
	r.DELETE("/saved", savedHandler.UnsaveItems)
	r.GET("/instagram/:username", instagramHandler.GetProfile)
	r.GET("/instagram-profiles", instagramHandler.GetProfiles)
	r.DELETE("/instagram-profiles/:username", instagramHandler.RemoveProfile)
	r.POST("/instagram/caption", instagramHandler.GenerateCaption)
	r.GET("/health", newsHandler.GetHealth)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

// serverCompletionClient builds the server-level completion client used
// for captions and date normalization. User-facing analysis endpoints
// run on each user's own key instead.
func serverCompletionClient() llm.CompletionClient {
	switch os.Getenv("LLM_PROVIDER") {
	case "openai":
		return llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"))
	case "anthropic":
		return llm.NewAnthropicClient(os.Getenv("ANTHROPIC_API_KEY"))
	default:
		return llm.NewGeminiClient(os.Getenv("GEMINI_API_KEY"))
	}
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jejomarc/askjejo/internal/ai"
	"github.com/jejomarc/askjejo/internal/ai/gemini"
	"github.com/jejomarc/askjejo/internal/ai/groq"
	"github.com/jejomarc/askjejo/internal/api/handler"
	custommw "github.com/jejomarc/askjejo/internal/api/middleware"
	"github.com/jejomarc/askjejo/internal/config"
	"github.com/jejomarc/askjejo/internal/repository/postgres"
	"github.com/jejomarc/askjejo/internal/repository/redis"
	"github.com/jejomarc/askjejo/internal/security"
	"github.com/jejomarc/askjejo/internal/service"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommw.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	store := postgres.NewStore(db)

	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)

	aiRouter := ai.NewRouter(cfg.AI.DefaultProvider)
	log.Info().Str("default", cfg.AI.DefaultProvider).Msg("initializing completion providers")

	if cfg.AI.Groq.APIKey != "" {
		aiRouter.RegisterProvider(groq.NewProvider(cfg.AI.Groq.APIKey, cfg.AI.Groq.Model, cfg.AI.Groq.BaseURL))
	}
	if cfg.AI.Gemini.APIKey != "" {
		aiRouter.RegisterProvider(gemini.NewProvider(cfg.AI.Gemini))
	}
	if len(aiRouter.ListProviders()) == 0 {
		log.Warn().Msg("no completion provider configured, every ask will get the fallback reply")
	}

	authService := service.NewAuthService(store, jwtManager)
	askService := service.NewAskService(store, aiRouter)
	chatService := service.NewChatService(store)

	authHandler := handler.NewAuthHandler(authService)
	askHandler := handler.NewAskHandler(askService, cfg.Debug)
	chatHandler := handler.NewChatHandler(chatService)

	authMiddleware := custommw.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := custommw.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Post("/logout", authHandler.Logout)
			r.Get("/authorized", authHandler.Authorized)
			r.Put("/profile/update", authHandler.UpdateProfile)

			r.Post("/ask", askHandler.Ask)

			r.Route("/chat", func(r chi.Router) {
				r.Get("/history", chatHandler.History)
				r.Post("/messages/all", chatHandler.Messages)
				r.Post("/messages/paginated", chatHandler.Paginated)
				r.Post("/update/{id}", chatHandler.Update)
				r.Delete("/delete/{id}", chatHandler.Destroy)
			})
		})
	})

	return r
}

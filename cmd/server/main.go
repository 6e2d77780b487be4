package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/jesterfour4/higher-ground-care/internal/config"
	"github.com/jesterfour4/higher-ground-care/internal/database"
	"github.com/jesterfour4/higher-ground-care/internal/devicelocal"
	"github.com/jesterfour4/higher-ground-care/internal/handlers"
	"github.com/jesterfour4/higher-ground-care/internal/middleware"
	"github.com/jesterfour4/higher-ground-care/internal/portal"
	"github.com/jesterfour4/higher-ground-care/internal/routes"
	"github.com/jesterfour4/higher-ground-care/internal/services"
	"github.com/jesterfour4/higher-ground-care/internal/store"
)

func main() {
	// Load env
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	api := handlers.NewAPI(cfg)
	api.Submissions = store.NewPostgresSubmissions(database.PostgresDB)
	api.Users = store.NewPostgresUsers(database.PostgresDB)
	api.Profiles = store.NewPostgresProfiles(database.PostgresDB)
	api.Identities = &devicelocal.RedisIdentityStore{}
	api.OAuth = services.NewOAuthService(cfg)

	// Portal content: MongoDB when configured, seeded memory content
	// otherwise. Either way reads go through the Redis cache.
	if cfg.MongoURI != "" {
		maskedURI := cfg.MongoURI
		if strings.Contains(maskedURI, "@") && strings.Contains(maskedURI, "://") {
			head := maskedURI[:strings.Index(maskedURI, "://")+3]
			tail := maskedURI[strings.Index(maskedURI, "@"):]
			maskedURI = head + "***" + tail
		}
		log.Printf("Connecting to MongoDB: %s", maskedURI)
		if err := database.ConnectMongo(cfg.MongoURI); err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer database.DisconnectMongo()
		api.Portal = portal.NewCachedRepository(portal.NewMongoRepository(database.MongoDB))
	} else {
		log.Println("MONGODB_URI not set; serving seeded portal content")
		api.Portal = portal.NewCachedRepository(portal.NewMemoryRepository())
	}

	// Email (magic links + referral notifications) is optional
	api.Mailer = services.NewMailer(cfg.ResendAPIKey, cfg.EmailFrom, cfg.ReferralNotifyTo)
	if api.Mailer != nil {
		log.Println("✅ Email service initialized")
	} else {
		log.Println("Warning: RESEND_API_KEY not set. Magic links will be logged, not sent")
	}

	// Initialize Cloudinary service
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Avatar uploads will not be available")
		} else {
			api.Cloudinary = cld
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Avatar uploads will not be available")
	}

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → HostCheck → GlobalRateLimit → LoginRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, host check, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Health check (no rate limit)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r, api)

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /api/contact")
	log.Println("  POST /api/referrals")
	log.Println("  POST /api/program-interest")
	log.Println("  POST /api/feedback")
	log.Println("  POST /api/auth/signup")
	log.Println("  POST /api/auth/signin")
	log.Println("  POST /api/auth/signout")
	log.Println("  GET  /api/auth/me")
	log.Println("  POST /api/auth/magic-link")
	log.Println("  GET  /api/auth/magic-link/verify")
	log.Println("  GET  /api/auth/callback")
	log.Println("  GET  /api/portal/picture-sets")
	log.Println("  POST /api/portal/picture-login")
	log.Println("  GET  /api/portal/lessons")
	log.Println("  GET  /api/portal/videos")
	log.Println("  GET  /api/portal/children")
	log.Println("  GET  /api/profile")
	log.Println("  PUT  /api/profile")
	log.Println("  POST /api/profile/avatar")
	log.Println("  GET  /api/ui/modals")
	log.Println("  POST /api/ui/modals")

	log.Printf("🚀 Higher Ground Care backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

package main

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/alenjoby/studioaljo-core/internal/admin"
	"github.com/alenjoby/studioaljo-core/internal/auth"
	"github.com/alenjoby/studioaljo-core/internal/database"
	"github.com/alenjoby/studioaljo-core/internal/gallery"
	"github.com/alenjoby/studioaljo-core/internal/genai"
	"github.com/alenjoby/studioaljo-core/internal/images"
	"github.com/alenjoby/studioaljo-core/internal/quota"
	"github.com/alenjoby/studioaljo-core/internal/storage"
	"github.com/alenjoby/studioaljo-core/internal/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, continuing with environment variables")
	}

	if m := os.Getenv("GIN_MODE"); m != "" {
		gin.SetMode(m)
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(&users.User{}, &gallery.Item{}); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	aiClient := genai.NewClient(genai.NewConfig())
	storageClient := storage.NewClient(storage.NewConfig())

	imageHandler := images.NewHandler(aiClient, gallery.NewSink(storageClient))
	galleryHandler := gallery.NewHandler(storageClient)
	adminHandler := admin.NewHandler(admin.NewMemorySessionStore())

	quotaStore := newQuotaStore()
	dailyLimit := envInt("DAILY_QUOTA", quota.DefaultDailyLimit)

	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Auth routes
	r.POST("/login", auth.LoginHandler)
	r.POST("/auth/google", auth.GoogleLoginHandler)
	r.GET("/me", auth.RequireAuth(), auth.MeHandler)

	// User CRUD
	r.POST("/users", users.CreateUserHandler)
	r.GET("/users", users.ListUsersHandler)
	r.GET("/users/:id", users.GetUserHandler)
	r.PUT("/users/:id", users.UpdateUserHandler)
	r.DELETE("/users/:id", users.DeleteUserHandler)

	// Generation pipelines, gated by burst limiter and daily quota
	gen := r.Group("/api/images")
	gen.Use(quota.BurstLimiter(1, 3))
	gen.Use(quota.Middleware(quotaStore, dailyLimit))
	gen.POST("/outfit-tryon", imageHandler.OutfitTryOnHandler)
	gen.POST("/edit", imageHandler.EditHandler)

	r.GET("/api/quota", quota.StatusHandler(quotaStore, dailyLimit))

	// Gallery
	r.GET("/api/gallery", galleryHandler.ListHandler)
	r.GET("/api/gallery/:id", galleryHandler.GetHandler)
	r.POST("/api/gallery", galleryHandler.CreateHandler)
	r.PUT("/api/gallery/:id", galleryHandler.UpdateHandler)
	r.DELETE("/api/gallery/:id", galleryHandler.DeleteHandler)
	r.DELETE("/api/gallery/user/:userId", galleryHandler.DeleteByUserHandler)

	// Admin panel
	r.POST("/admin/login", adminHandler.LoginHandler)
	r.POST("/admin/logout", adminHandler.LogoutHandler)
	panel := r.Group("/admin", adminHandler.RequireAdmin())
	panel.GET("/users", adminHandler.ListUsersHandler)
	panel.DELETE("/users/:id", adminHandler.DeleteUserHandler)
	panel.GET("/stats", adminHandler.StatsHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r.Run(":" + port)
}

// newQuotaStore picks Redis when an address is configured, otherwise the
// in-process store.
func newQuotaStore() quota.Store {
	limit := envInt("DAILY_QUOTA", quota.DefaultDailyLimit)
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		log.Printf("quota store: redis at %s", addr)
		return quota.NewRedisStore(client, limit)
	}
	log.Println("quota store: in-memory")
	return quota.NewMemoryStore(limit)
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

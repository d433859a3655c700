package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/SevenSinz/warbler/internal/auth"
	"github.com/SevenSinz/warbler/internal/config"
	"github.com/SevenSinz/warbler/internal/database"
	"github.com/SevenSinz/warbler/internal/feed"
	"github.com/SevenSinz/warbler/internal/message"
	"github.com/SevenSinz/warbler/internal/user"
	mw "github.com/SevenSinz/warbler/pkg/middleware"
)

// @title        Warbler API
// @version      1.0
// @description  Micro-blogging service: users, messages, follows and likes
// @BasePath     /
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.ApplySchema(db); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	log.Println("Connected to database successfully")

	// Credential store and session manager
	hasher := auth.NewHasher(cfg.BcryptCost)
	sessions := auth.NewSessionManager(cfg.SessionCookie)

	// Message feature
	messageRepo := message.NewRepository(db)
	messageService := message.NewService(messageRepo)
	messageHandler := message.NewHandler(messageService)

	// User feature (profile pages embed the user's messages)
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, hasher)
	userHandler := user.NewHandler(userService, messageService, sessions)

	// Feed feature
	feedRepo := feed.NewRepository(db)
	feedService := feed.NewService(feedRepo)
	feedHandler := feed.NewHandler(feedService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.NoCache)
	r.Use(mw.Sessions(sessions))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Session routes
	r.Get("/signup", userHandler.SignupForm)
	r.Post("/signup", userHandler.Signup)
	r.Get("/login", userHandler.LoginForm)
	r.Post("/login", userHandler.Login)
	r.With(mw.RequireAuth).Get("/logout", userHandler.Logout)

	// Homepage feed
	r.Get("/", feedHandler.Home)

	// Feature routers
	r.Mount("/users", userHandler.Routes())
	r.Mount("/messages", messageHandler.Routes())

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homehub/internal/config"
	"homehub/internal/database"
	"homehub/internal/handlers"
	"homehub/internal/realtime"
	"homehub/internal/repository"
	"homehub/internal/security"
	"homehub/internal/service"
)

func main() {
	cfg := config.Load()

	// Database (sqlite, postgres or mysql, per config)
	dsn := cfg.DatabaseURL
	if cfg.DatabaseType == "sqlite" {
		dsn = cfg.DatabasePath
	}
	db, err := database.Open(cfg.DatabaseType, dsn)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	listRepo := repository.NewListRepository(db)
	eventRepo := repository.NewEventRepository(db)
	choreRepo := repository.NewChoreRepository(db)
	mealRepo := repository.NewMealRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	vaultRepo := repository.NewVaultRepository(db)

	// Services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	authService := service.NewAuthService(userRepo, cfg.SessionDuration)
	familyService := service.NewFamilyService(familyRepo, userRepo, emailService)
	listService := service.NewListService(listRepo)
	calendarService := service.NewCalendarService(eventRepo)
	choreService := service.NewChoreService(choreRepo, familyRepo)
	mealService := service.NewMealService(mealRepo, familyRepo)
	noteService := service.NewNoteService(noteRepo)
	vaultService := service.NewVaultService(vaultRepo)

	// Realtime hub, optionally fanned out across processes through Redis
	hub := realtime.NewHub(familyRepo, listRepo)
	if cfg.RedisURL != "" {
		backplane, err := realtime.NewBackplane(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect realtime backplane: %v", err)
		}
		defer backplane.Close()
		hub.SetBackplane(backplane)
		backplane.Start(hub)
		log.Println("Realtime backplane connected")
	}
	go hub.Run()
	defer hub.Stop()

	// Handlers
	middleware := handlers.NewMiddleware(authService, familyService)
	loginLimiter := security.NewRateLimiter(10, time.Minute)

	authHandler := handlers.NewAuthHandler(authService)
	familyHandler := handlers.NewFamilyHandler(familyService)
	dashboardHandler := handlers.NewDashboardHandler(listService, calendarService, choreService, mealService, noteService)
	listHandler := handlers.NewListHandler(listService, hub)
	calendarHandler := handlers.NewCalendarHandler(calendarService, hub)
	choreHandler := handlers.NewChoreHandler(choreService, hub)
	mealHandler := handlers.NewMealHandler(mealService, hub)
	noteHandler := handlers.NewNoteHandler(noteService, hub)
	vaultHandler := handlers.NewVaultHandler(vaultService)
	wsHandler := handlers.NewWSHandler(hub, cfg.SessionSecret)

	mux := http.NewServeMux()

	// Static frontend
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))

	// Health and auth
	mux.HandleFunc("GET /healthz", handlers.Healthz)
	mux.HandleFunc("POST /register", handlers.RateLimit(loginLimiter, authHandler.Register))
	mux.HandleFunc("POST /login", handlers.RateLimit(loginLimiter, authHandler.Login))
	mux.HandleFunc("POST /logout", authHandler.Logout)
	mux.HandleFunc("GET /api/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("POST /api/me/password", middleware.RequireAuth(handlers.RequireAJAX(authHandler.ChangePassword)))

	// Family selection (auth only; no active family required yet)
	mux.HandleFunc("GET /api/families", middleware.RequireAuth(familyHandler.ListFamilies))
	mux.HandleFunc("POST /api/families", middleware.RequireAuth(handlers.RequireAJAX(familyHandler.CreateFamily)))
	mux.HandleFunc("POST /api/families/{id}/select", middleware.RequireAuth(handlers.RequireAJAX(familyHandler.SelectFamily)))

	// Everything below needs auth plus verified membership in the active family
	family := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireAuth(middleware.RequireFamily(h))
	}
	mutate := func(h http.HandlerFunc) http.HandlerFunc {
		return family(handlers.RequireAJAX(h))
	}
	ownerMutate := func(h http.HandlerFunc) http.HandlerFunc {
		return mutate(middleware.RequireOwner(h))
	}

	mux.HandleFunc("GET /api/dashboard", family(dashboardHandler.GetDashboard))

	mux.HandleFunc("GET /api/family/members", family(familyHandler.ListMembers))
	mux.HandleFunc("GET /api/family/inviteable", family(familyHandler.ListInviteable))
	mux.HandleFunc("POST /api/family/invite", mutate(familyHandler.InviteMember))
	mux.HandleFunc("POST /api/family/members/{id}/remove", mutate(familyHandler.RemoveMember))
	mux.HandleFunc("POST /api/family/delete", mutate(familyHandler.DeleteFamily))

	mux.HandleFunc("GET /api/lists", family(listHandler.ListLists))
	mux.HandleFunc("POST /api/lists", mutate(listHandler.CreateList))
	mux.HandleFunc("GET /api/lists/{id}", family(listHandler.GetList))
	mux.HandleFunc("DELETE /api/lists/{id}", ownerMutate(listHandler.DeleteList))
	mux.HandleFunc("POST /api/lists/{id}/items", mutate(listHandler.AddItem))
	mux.HandleFunc("PUT /api/items/{id}", mutate(listHandler.EditItem))
	mux.HandleFunc("POST /api/items/{id}/toggle", mutate(listHandler.ToggleItem))
	mux.HandleFunc("DELETE /api/items/{id}", mutate(listHandler.DeleteItem))

	mux.HandleFunc("GET /api/events", family(calendarHandler.GetWindow))
	mux.HandleFunc("POST /api/events", mutate(calendarHandler.CreateEvent))
	mux.HandleFunc("PUT /api/events/{id}", mutate(calendarHandler.UpdateEvent))
	mux.HandleFunc("DELETE /api/events/{id}", mutate(calendarHandler.DeleteEvent))

	mux.HandleFunc("GET /api/chores", family(choreHandler.ListChores))
	mux.HandleFunc("POST /api/chores", ownerMutate(choreHandler.CreateChore))
	mux.HandleFunc("DELETE /api/chores/{id}", ownerMutate(choreHandler.DeleteChore))
	mux.HandleFunc("GET /api/chores/week", family(choreHandler.GetWeek))
	mux.HandleFunc("GET /api/chores/history", family(middleware.RequireOwner(choreHandler.GetHistory)))
	mux.HandleFunc("POST /api/chores/generate", ownerMutate(choreHandler.Generate))
	mux.HandleFunc("POST /api/assignments/{id}/toggle", mutate(choreHandler.ToggleAssignment))

	mux.HandleFunc("GET /api/meals/week", family(mealHandler.GetWeek))
	mux.HandleFunc("POST /api/meals", mutate(mealHandler.SetMeal))
	mux.HandleFunc("DELETE /api/meals/{id}", mutate(mealHandler.ClearMeal))

	mux.HandleFunc("GET /api/notes", family(noteHandler.GetBoard))
	mux.HandleFunc("POST /api/notes", mutate(noteHandler.AddNote))
	mux.HandleFunc("POST /api/notes/{id}/pin", mutate(noteHandler.TogglePin))
	mux.HandleFunc("DELETE /api/notes/{id}", mutate(noteHandler.DeleteNote))

	mux.HandleFunc("GET /api/vault", family(vaultHandler.ListEntries))
	mux.HandleFunc("POST /api/vault", ownerMutate(vaultHandler.AddEntry))
	mux.HandleFunc("PUT /api/vault/{id}", mutate(vaultHandler.UpdateEntry))
	mux.HandleFunc("DELETE /api/vault/{id}", ownerMutate(vaultHandler.DeleteEntry))

	// Realtime
	mux.HandleFunc("GET /ws/ticket", middleware.RequireAuth(wsHandler.Ticket))
	mux.HandleFunc("GET /ws", wsHandler.Connect)

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go cleanupExpiredSessions(authService)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		}
	}
}

package routes

import (
	"log"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/saeid-a/CoachLogBack/internal/config"
	"github.com/saeid-a/CoachLogBack/internal/handlers"
	"github.com/saeid-a/CoachLogBack/internal/middleware"
	"github.com/saeid-a/CoachLogBack/internal/repository"
	"github.com/saeid-a/CoachLogBack/internal/services"
	notifyws "github.com/saeid-a/CoachLogBack/internal/websocket"
)

func RegisterRoutes(
	app *fiber.App,
	cfg *config.Config,
	db *pgxpool.Pool,
	redisClient *redis.Client,
	hub *notifyws.Hub,
) error {
	logger := log.Default()

	accountRepo := repository.NewAccountRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	dailyLogRepo := repository.NewDailyLogRepository(db)
	coachStudentRepo := repository.NewCoachStudentRepository(db)
	rosterRepo := repository.NewRosterRepository(db)
	var storageService services.StorageService
	if cfg.StorageConfigured() {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	authService := services.NewAuthService(
		repository.NewRegistrar(db),
		accountRepo,
		profileRepo,
		services.NewRedisSessionStore(redisClient, logger),
		hub,
		cfg.JWTSecret,
		cfg.JWTTTL,
		logger,
	)
	logService := services.NewLogService(dailyLogRepo, coachStudentRepo, hub, cfg.LogTimezone, logger)
	rosterService := services.NewRosterService(profileRepo, coachStudentRepo, rosterRepo, hub, logger)
	profileService := services.NewProfileService(profileRepo, storageService)

	authHandler := handlers.NewAuthHandler(authService, cfg.AppEnv == "production")
	profileHandler := handlers.NewProfileHandler(profileService)
	logHandler := handlers.NewLogHandler(logService)
	rosterHandler := handlers.NewRosterHandler(rosterService)
	notificationHandler := handlers.NewNotificationHandler(hub, authService)

	authRequired := middleware.AuthRequired(authService)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authRequired, authHandler.Logout)
	auth.Get("/session", authRequired, authHandler.Session)

	api.Use("/v1/ws", notificationHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(notificationHandler.HandleWebSocket))

	authProtected := api.Group("/v1", authRequired)

	profile := authProtected.Group("/profile")
	profile.Get("", profileHandler.GetProfile)
	profile.Put("", profileHandler.UpdateProfile)
	profile.Post("/avatar", profileHandler.UploadAvatar)

	logs := authProtected.Group("/logs")
	logs.Get("", logHandler.ListLogs)
	logs.Put("", logHandler.SaveLog)

	coach := authProtected.Group("/coach")
	coach.Get("/students", rosterHandler.ListStudents)
	coach.Post("/students", rosterHandler.AddStudent)
	coach.Get("/students/:id/logs", logHandler.StudentLogs)

	if err := registerDocsRoutes(app, cfg); err != nil {
		return err
	}

	registerPageRoutes(app, authService)
	return nil
}

// registerPageRoutes guards the app's page paths. Registered last so API and
// docs routes never pass through the guard.
func registerPageRoutes(app fiber.Router, auth middleware.Authenticator) {
	guard := middleware.RouteGuard(auth)
	for _, path := range []string{"/", "/login", "/register", "/settings"} {
		app.Get(path, guard, handlers.Page)
	}
	for _, prefix := range []string{"/coach", "/student"} {
		app.Get(prefix, guard, handlers.Page)
		app.Get(prefix+"/*", guard, handlers.Page)
	}
}

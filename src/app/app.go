package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/handler"
	"github.com/ctfpad/backend/src/repository"
	"github.com/ctfpad/backend/src/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rs/zerolog"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Application struct {
	config   AppConfig
	database *gorm.DB
	redis    *redis.Client

	TeamService          *service.TeamService
	MemberService        *service.MemberService
	CtfService           *service.CtfService
	ChallengeService     *service.ChallengeService
	ChallengeFileService *service.ChallengeFileService
	CategoryService      *service.CategoryService
	WriteupService       *service.WriteupService
	NotificationService  *service.NotificationService
	CtftimeService       *service.CtftimeService
	HedgedocService      *service.HedgedocService
}

func NewApplication(ctx context.Context, config AppConfig) *Application {
	logger := zerolog.Ctx(ctx).With().Str("function", "NewApplication").Logger()

	// Connect to Redis when configured. Without it the CTFTime event cache
	// is disabled and the app still works.
	var rdb *redis.Client
	if *config.RedisAddr != "" {
		redisOpts, err := redis.ParseURL(*config.RedisAddr)
		if err != nil {
			logger.Error().Err(err).Msg("failed to parse redis URL")
			return nil
		}

		rdb = redis.NewClient(redisOpts)

		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Error().Err(err).Msg("connection to redis failed")
			return nil
		}
		logger.Info().Msg("Redis connection established")
	} else {
		logger.Warn().Msg("REDIS_URL not set, event cache disabled")
	}

	// Connect to database. TranslateError turns driver errors into
	// gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated, which the services
	// rely on.
	database, err := gorm.Open(postgresDriver.Open(*config.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error().Err(err).Msg("connection to database failed")
		return nil
	}

	// Test database connection
	db, err := database.DB()
	if err != nil {
		logger.Error().Err(err).Msg("failed to get underlying database connection")
		return nil
	}

	if err := db.Ping(); err != nil {
		logger.Error().Err(err).Msg("connection to database failed")
		return nil
	}

	logger.Info().Msg("Database connection established")

	// run migration files
	if err := MigrationUp(*config.DSN, *config.MigrationPath); err != nil {
		logger.Error().Err(err).Msg("database migration failed")
		return nil
	}

	teamRepo := repository.NewTeamRepository(database)
	memberRepo := repository.NewMemberRepository(database)
	ctfRepo := repository.NewCtfRepository(database)
	challengeRepo := repository.NewChallengeRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	fileRepo := repository.NewChallengeFileRepository(database)
	writeupRepo := repository.NewWriteupRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)

	var eventCache *repository.EventCacheRepository
	if rdb != nil {
		eventCache = repository.NewEventCacheRepository(rdb, "ctftime:upcoming", *config.EventCacheTTL)
	}

	hedgedocService := service.NewHedgedocService(*config.HedgedocURL)

	return &Application{
		config:               config,
		database:             database,
		redis:                rdb,
		TeamService:          service.NewTeamService(teamRepo),
		MemberService:        service.NewMemberService(memberRepo, writeupRepo, hedgedocService),
		CtfService:           service.NewCtfService(ctfRepo, writeupRepo),
		ChallengeService:     service.NewChallengeService(challengeRepo, ctfRepo, hedgedocService),
		ChallengeFileService: service.NewChallengeFileService(fileRepo, challengeRepo, *config.ChallengeFileRoot),
		CategoryService:      service.NewCategoryService(categoryRepo),
		WriteupService:       service.NewWriteupService(writeupRepo),
		NotificationService:  service.NewNotificationService(notificationRepo),
		CtftimeService:       service.NewCtftimeService(*config.CtftimeAPIURL, eventCache),
		HedgedocService:      hedgedocService,
	}
}

func (app *Application) Shutdown(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("function", "Shutdown").Logger()

	// Close database connection
	if app.database != nil {
		db, err := app.database.DB()
		if err != nil {
			logger.Error().Err(err).Msg("Failed to get underlying database connection")
		} else {
			if err := db.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close database connection")
			} else {
				logger.Info().Msg("Database connection closed")
			}
		}
	}

	// Close Redis connection
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close redis connection")
		} else {
			logger.Info().Msg("Redis connection closed")
		}
	}
}

func (app *Application) RunHTTPServer(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := zerolog.Ctx(ctx).With().Str("function", "RunHTTPServer").Logger()

	// Set to release mode to disable Gin logger
	gin.SetMode(gin.ReleaseMode)

	ginRouter := gin.Default()

	// Register routes
	app.registerRoutes(ctx, ginRouter)

	// Build HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", *app.config.Port),
		Handler: ginRouter,
	}

	// Start server in goroutine
	go func() {
		zerolog.Ctx(ctx).Info().Msgf("HTTP server is on http://localhost:%s/api/v1/health", *app.config.Port)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			zerolog.Ctx(ctx).Panic().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	logger.Info().Msg("Gracefully shutting down HTTP server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to shutdown HTTP server gracefully")
	} else {
		logger.Info().Msg("HTTP server shutdown complete")
	}
}

func (app *Application) registerRoutes(ctx context.Context, router *gin.Engine) {

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
			return domain.IsValidCountry(fl.Field().String())
		})
		_ = v.RegisterValidation("timezone", func(fl validator.FieldLevel) bool {
			return domain.IsValidTimezone(fl.Field().String())
		})
	}

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = *app.config.AllowOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-API-Key", "X-Member-ID", "X-Requested-With"}
	config.AllowCredentials = true

	router.Use(cors.New(config))

	handler.SetMiddlewares(ctx, router)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	teamHandler := handler.NewTeamHandler(app.TeamService)
	memberHandler := handler.NewMemberHandler(app.MemberService, app.NotificationService)
	ctfHandler := handler.NewCtfHandler(app.CtfService, app.ChallengeService, *app.config.HedgedocURL)
	challengeHandler := handler.NewChallengeHandler(app.ChallengeService, *app.config.HedgedocURL)
	fileHandler := handler.NewChallengeFileHandler(app.ChallengeFileService)
	categoryHandler := handler.NewCategoryHandler(app.CategoryService)
	writeupHandler := handler.NewWriteupHandler(app.WriteupService)
	notificationHandler := handler.NewNotificationHandler(app.NotificationService)
	eventHandler := handler.NewEventHandler(app.CtftimeService)

	apiKeyAuth := handler.APIKeyMiddleware(app.TeamService)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handler.HandleHealthCheck)

		// Team registration stays open, everything else needs the API key.
		v1.POST("/teams", teamHandler.CreateTeam)

		authed := v1.Group("")
		authed.Use(apiKeyAuth)
		{
			authed.GET("/teams", teamHandler.ListTeams)
			authed.GET("/teams/:id", teamHandler.GetTeam)
			authed.PUT("/teams/:id", teamHandler.UpdateTeam)
			authed.DELETE("/teams/:id", teamHandler.DeleteTeam)

			authed.POST("/members", memberHandler.CreateMember)
			authed.GET("/members", memberHandler.ListMembers)
			authed.GET("/members/:id", memberHandler.GetMember)
			authed.PUT("/members/:id", memberHandler.UpdateMember)
			authed.DELETE("/members/:id", memberHandler.DeleteMember)
			authed.GET("/members/:id/notifications", memberHandler.ListNotifications)

			authed.POST("/ctfs", ctfHandler.CreateCtf)
			authed.GET("/ctfs", ctfHandler.ListCtfs)
			authed.GET("/ctfs/:id", ctfHandler.GetCtf)
			authed.PUT("/ctfs/:id", ctfHandler.UpdateCtf)
			authed.DELETE("/ctfs/:id", ctfHandler.DeleteCtf)
			authed.GET("/ctfs/:id/challenges", ctfHandler.ListChallenges)

			authed.POST("/challenges", challengeHandler.CreateChallenge)
			authed.GET("/challenges/:id", challengeHandler.GetChallenge)
			authed.PUT("/challenges/:id", challengeHandler.UpdateChallenge)
			authed.PATCH("/challenges/:id/flag", challengeHandler.SetFlag)
			authed.DELETE("/challenges/:id", challengeHandler.DeleteChallenge)

			authed.POST("/challenges/:id/files", fileHandler.UploadFile)
			authed.GET("/challenges/:id/files", fileHandler.ListFiles)
			authed.POST("/files/:id/refresh", fileHandler.RefreshFileInfo)
			authed.DELETE("/files/:id", fileHandler.DeleteFile)

			authed.POST("/challenges/:id/writeups", writeupHandler.AddWriteup)
			authed.GET("/challenges/:id/writeups", writeupHandler.ListWriteups)
			authed.DELETE("/writeups/:id", writeupHandler.DeleteWriteup)

			authed.POST("/categories", categoryHandler.CreateCategory)
			authed.GET("/categories", categoryHandler.ListCategories)
			authed.GET("/categories/:id", categoryHandler.GetCategory)
			authed.DELETE("/categories/:id", categoryHandler.DeleteCategory)

			authed.POST("/notifications", notificationHandler.CreateNotification)
			authed.DELETE("/notifications/:id", notificationHandler.DeleteNotification)

			authed.GET("/events/upcoming", eventHandler.ListUpcomingEvents)
		}
	}
}

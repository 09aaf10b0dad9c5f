package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pawshome/internal/cache"
	"pawshome/internal/config"
	"pawshome/internal/jobs"
	"pawshome/internal/middleware"
	"pawshome/internal/repository"
	"pawshome/internal/service"
	"pawshome/internal/storage"
	"pawshome/internal/translate"
)

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	db        *pgxpool.Pool
	cache     *redis.Client
	kv        *cache.Store
	gate      *service.AdminGate
	sessions  *service.SessionService
	cats      *service.CatService
	lifecycle *service.LifecycleService
	uploads   *service.UploadService
	media     *repository.MediaRepository
	logs      *service.LogService
	translate *service.TranslateService
	contact   *service.ContactService
	settings  *repository.SettingsRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, redisClient *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	catRepo := repository.NewCatRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	logRepo := repository.NewLogRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	contactRepo := repository.NewContactRepository(db)

	jobStore := jobs.NewStore(redisClient)
	logService := service.NewLogService(logRepo, jobStore, redisClient, cfg, log)
	kv := cache.NewStore(redisClient)

	return HandlerSet{
		log:       log,
		cfg:       cfg,
		db:        db,
		cache:     redisClient,
		kv:        kv,
		gate:      service.NewAdminGate(adminRepo, userRepo, log),
		sessions:  service.NewSessionService(userRepo, sessionRepo, adminRepo, logService, cfg, log),
		cats:      service.NewCatService(catRepo, logService, log),
		lifecycle: service.NewLifecycleService(catRepo, mediaRepo, store, logService, log),
		uploads:   service.NewUploadService(mediaRepo, store, logService, cfg, log),
		media:     mediaRepo,
		logs:      logService,
		translate: service.NewTranslateService(translate.NewClient(cfg.Translation), settingsRepo, kv, cfg, log),
		contact:   service.NewContactService(contactRepo, redisClient, cfg, log),
		settings:  settingsRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	router.Use(middleware.Session(h.cfg))

	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.POST("/create-session", h.CreateSession)
		auth.GET("/me", middleware.RequireUser(), h.Me)
		auth.POST("/set-admin", middleware.RequireAdmin(h.gate), h.SetAdmin)
	}

	cats := router.Group("/cats")
	{
		cats.GET("", h.ListCats)
		cats.GET("/:id", h.GetCat)

		catsAdmin := cats.Group("", middleware.RequireAdmin(h.gate))
		catsAdmin.POST("", h.CreateCat)
		catsAdmin.PUT("/:id", h.UpdateCat)
		catsAdmin.DELETE("/:id", h.PurgeCat)
		catsAdmin.POST("/trash/move", h.TrashCat)
		catsAdmin.POST("/trash/restore", h.RestoreCat)
		catsAdmin.POST("/lock", h.LockCat)
		catsAdmin.POST("/unlock", h.UnlockCat)
	}

	media := router.Group("/media", middleware.RequireAdmin(h.gate))
	{
		media.GET("", h.ListMedia)
		media.GET("/stats", h.MediaStats)
		media.POST("/upload", h.UploadMedia)
		media.POST("/validate", h.ValidateMedia)
		media.DELETE("/:id", h.PurgeMedia)
		media.POST("/trash/move", h.TrashMedia)
		media.POST("/trash/restore", h.RestoreMedia)
		media.POST("/lock", h.LockMedia)
		media.POST("/unlock", h.UnlockMedia)
	}

	logs := router.Group("/logs", middleware.RequireAdmin(h.gate))
	{
		logs.GET("", h.ListLogs)
		logs.POST("/archive", h.ArchiveLogs)
		logs.POST("/archived/delete", h.DeleteArchivedLogs)
		logs.GET("/operations/:operationId", h.LogOperation)
	}

	tr := router.Group("/translate")
	{
		tr.POST("", h.Translate)
		tr.POST("/bulk", h.TranslateBulk)
		tr.GET("/usage", middleware.RequireAdmin(h.gate), h.TranslateUsage)
	}

	admin := router.Group("/admin", middleware.RequireAdmin(h.gate))
	{
		admin.GET("/users", h.ListUsers)
		admin.POST("/users", h.CreateUser)
		admin.POST("/users/status", h.SetUserStatus)
		admin.GET("/settings", h.GetSettings)
		admin.POST("/settings", h.UpdateSettings)
	}

	router.POST("/contact",
		middleware.RateLimit(h.kv, h.log, "contact", h.cfg.Contact.RateLimit, h.cfg.Contact.RateWindow),
		h.Contact,
	)
}

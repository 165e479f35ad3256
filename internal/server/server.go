package server

import (
	"log"
	"net/http"
	"time"

	"anoa.com/threadboard/internal/config"
	"anoa.com/threadboard/internal/jobs"
	"anoa.com/threadboard/internal/middleware"
	"anoa.com/threadboard/internal/observability"
	"anoa.com/threadboard/pkg/session"
	"anoa.com/threadboard/pkg/storage"
	"anoa.com/threadboard/pkg/validator"

	memberHttp "anoa.com/threadboard/internal/modules/member/delivery/http"
	memberRepo "anoa.com/threadboard/internal/modules/member/repository"
	memberService "anoa.com/threadboard/internal/modules/member/service"

	postHttp "anoa.com/threadboard/internal/modules/post/delivery/http"
	postRepo "anoa.com/threadboard/internal/modules/post/repository"
	postService "anoa.com/threadboard/internal/modules/post/service"

	refreshHttp "anoa.com/threadboard/internal/modules/refresh/delivery/http"
	refreshService "anoa.com/threadboard/internal/modules/refresh/service"

	searchHttp "anoa.com/threadboard/internal/modules/search/delivery/http"
	searchService "anoa.com/threadboard/internal/modules/search/service"

	threadHttp "anoa.com/threadboard/internal/modules/thread/delivery/http"
	threadRepo "anoa.com/threadboard/internal/modules/thread/repository"
	threadService "anoa.com/threadboard/internal/modules/thread/service"

	userHttp "anoa.com/threadboard/internal/modules/user/delivery/http"
	userRepo "anoa.com/threadboard/internal/modules/user/repository"
	userService "anoa.com/threadboard/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	scheduler   *jobs.Scheduler
}

// NewServer wires every module. redisClient may be nil: cooldowns, sign-out
// revocation and refresh events are then disabled.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	validator.RegisterCustomRules()

	userRepo := userRepo.NewUserRepository(db)
	threadRepo := threadRepo.NewRepository(db)
	postRepo := postRepo.NewPostRepository(db)
	memberRepo := memberRepo.NewMemberRepository(db)

	fileStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("cloudinary is not configured, attachments are disabled: %v", err)
	}

	var meiliSvc searchService.SearchService
	if cfg.MeiliSearchHost != "" {
		meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		meiliSvc = searchService.NewMeiliSearchService(meiliClient)
	} else {
		log.Println("MEILISEARCH_HOST is empty, search is disabled")
	}

	notifier := refreshService.NewNotifier(redisClient)
	sessions := session.NewManager(cfg.JWTSecret, cfg.JWTTTL, redisClient)

	authSvc := userService.NewAuthService(userRepo, sessions)
	authHandler := userHttp.NewAuthHandler(authSvc, cfg.LoginURL, sessions.TTL(), cfg.IsProduction())

	threadSvc := threadService.NewService(threadRepo, postRepo, userRepo, fileStorage, meiliSvc, notifier, redisClient, cfg.SubmitCooldown)
	threadHandler := threadHttp.NewThreadHandler(threadSvc)

	memberSvc := memberService.NewMemberService(memberRepo, threadRepo, userRepo, notifier, redisClient, cfg.SubmitCooldown)
	memberHandler := memberHttp.NewMemberHandler(memberSvc)

	postSvc := postService.NewPostService(postRepo, threadRepo, userRepo, fileStorage, meiliSvc, notifier, redisClient, cfg.CloudinaryUploadFolder, cfg.SubmitCooldown)
	postHandler := postHttp.NewPostHandler(postSvc)

	scheduler := jobs.NewScheduler()
	if meiliSvc != nil && cfg.SearchReindexSchedule != "" {
		reindex := jobs.NewSearchReindexJob(threadRepo, postRepo, meiliSvc, cfg.SearchReindexSchedule)
		if err := scheduler.Register(reindex); err != nil {
			log.Printf("search reindex is disabled: %v", err)
		}
	}

	searchHandler := searchHttp.NewSearchHandler(meiliSvc)
	refreshHandler := refreshHttp.NewRefreshHandler(notifier, checkOrigin(cfg.AllowedOrigins))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/metrics"},
	}))
	router.Use(observability.GinMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.NewAuthMiddleware(sessions)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/auth/me", authHandler.Me)

		// Thread routes
		protected.GET("/threads", threadHandler.ListPublicThreads)
		protected.GET("/threads/private", threadHandler.ListPrivateThreads)
		protected.POST("/threads", threadHandler.CreateThread)
		protected.GET("/threads/:thread_id", threadHandler.GetThread)
		protected.DELETE("/threads/:thread_id", threadHandler.DeleteThread)

		// Membership routes
		protected.GET("/threads/:thread_id/members", memberHandler.ListMembers)
		protected.POST("/threads/:thread_id/members", memberHandler.AddMember)

		// Post routes
		protected.GET("/threads/:thread_id/posts", postHandler.ListPosts)
		protected.POST("/threads/:thread_id/posts", postHandler.CreatePost)

		protected.GET("/search", searchHandler.Search)
		protected.GET("/refresh/ws", refreshHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		scheduler:   scheduler,
	}
}

func (s *Server) Run(addr string) error {
	s.scheduler.Start()
	defer s.scheduler.Stop()

	return s.engine.Run(addr)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

// checkOrigin limits websocket upgrades to the same origins CORS allows.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

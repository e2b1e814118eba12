package server

import (
	"net/http"
	"regexp"
	"time"

	"finance-server/cache"
	"finance-server/confs"
	"finance-server/db"
	"finance-server/handlers"
	httpHandler "finance-server/handlers/http"
	"finance-server/middleware"
	"finance-server/repositories"
	"finance-server/services"
	"finance-server/usecases"
	"finance-server/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const summaryCacheTTL = 5 * time.Minute

var localOrigin = regexp.MustCompile(`^https?://(localhost|127\.0\.0\.1)(:\d+)?$`)

type Server struct {
	app     *gin.Engine
	db      db.Database
	cfg     *confs.Config
	mailer  usecases.Mailer
	extra   services.Publisher
	manager *ws.Manager
	sweeper *services.ResetSweeper
}

// Option customises a Server before its routes are built.
type Option func(*Server)

// WithMailer replaces the SMTP mailer built from configuration.
func WithMailer(m usecases.Mailer) Option {
	return func(s *Server) { s.mailer = m }
}

// WithPublisher adds a sink that receives every ledger event next to the
// websocket manager.
func WithPublisher(p services.Publisher) Option {
	return func(s *Server) { s.extra = p }
}

func NewServer(database db.Database, cfg *confs.Config, opts ...Option) *Server {
	if cfg.Server.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	app := gin.New()
	app.Use(middleware.RedactedLogger(gin.DefaultWriter), gin.Recovery())
	s := &Server{
		app:     app,
		db:      database,
		cfg:     cfg,
		manager: ws.NewManager(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.mailer == nil {
		s.mailer = services.NewSMTPMailer(cfg.Mail)
	}
	s.routes()
	return s
}

// Router exposes the configured engine, mainly for httptest.
func (s *Server) Router() http.Handler {
	return s.app
}

func (s *Server) corsConfig() cors.Config {
	config := cors.DefaultConfig()
	if len(s.cfg.Server.AllowedOrigins) > 0 {
		config.AllowOrigins = s.cfg.Server.AllowedOrigins
	} else {
		config.AllowOriginFunc = func(origin string) bool { return localOrigin.MatchString(origin) }
	}
	config.AllowCredentials = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	return config
}

func (s *Server) routes() {
	s.app.Use(cors.New(s.corsConfig()))

	// Initialize repositories
	userRepo := repositories.NewUserPgRepository(s.db)
	txRepo := repositories.NewTransactionPgRepository(s.db)

	// Event fan-out and summary cache
	summaryCache := cache.NewSummaryCache(summaryCacheTTL)
	publisher := services.Fanout{s.manager}
	if s.extra != nil {
		publisher = append(publisher, s.extra)
	}

	// Initialize use cases
	tokens := usecases.NewTokenIssuer(s.cfg.Auth.JWTSecret, s.cfg.Auth.TokenTTL)
	authUseCase := usecases.NewAuthUseCase(userRepo, tokens, summaryCache)
	resetUseCase := usecases.NewPasswordResetUseCase(userRepo, s.mailer, s.cfg.FrontendURL, s.cfg.Auth.ResetTTL)
	ledgerUseCase := usecases.NewLedgerUseCase(txRepo, publisher, summaryCache)

	s.sweeper = services.NewResetSweeper(resetUseCase, s.cfg.ResetSweepInterval)

	// Initialize handlers
	authHandler := httpHandler.NewAuthHandler(authUseCase, resetUseCase)
	financeHandler := httpHandler.NewFinanceHandler(ledgerUseCase)
	wsHandler := handlers.NewWSHandler(s.manager, authUseCase)
	statusHandler := handlers.NewStatusHandler(s.db, summaryCache, s.manager)

	s.app.GET("/health", statusHandler.Health)

	api := s.app.Group("/api")
	{
		// only the unauthenticated credential endpoints are throttled
		limited := middleware.NewIPRateLimiter(s.cfg.AuthRatePerMinute).Handler()
		auth := api.Group("/auth")
		{
			auth.POST("/register", limited, authHandler.Register)
			auth.POST("/login", limited, authHandler.Login)
			auth.POST("/reset-password", limited, authHandler.RequestReset)
			auth.POST("/reset-password/:token", limited, authHandler.ExchangeReset)
			auth.GET("/me", authHandler.RequireAuth, authHandler.Me)
			auth.DELETE("/delete-account", authHandler.RequireAuth, authHandler.DeleteAccount)
		}

		finance := api.Group("/finance")
		finance.Use(authHandler.RequireAuth)
		{
			finance.POST("/add", financeHandler.AddTransaction)
			finance.GET("/history", financeHandler.History)
			finance.GET("/summary", financeHandler.Summary)
			finance.PUT("/:id", financeHandler.UpdateTransaction)
			finance.DELETE("/:id", financeHandler.DeleteTransaction)
		}
	}

	s.app.GET("/ws", wsHandler.HandleLedgerWS)
}

// Start launches background workers and serves until the listener fails.
func (s *Server) Start() error {
	s.sweeper.Start()
	defer s.sweeper.Stop()

	return s.app.Run("0.0.0.0:" + s.cfg.Server.Port)
}

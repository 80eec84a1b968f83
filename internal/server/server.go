package server

import (
	"context"
	"net/http"
	"time"

	"github.com/ViniDB27/ignite-call/internal/auth"
	"github.com/ViniDB27/ignite-call/internal/config"
	"github.com/ViniDB27/ignite-call/internal/schedule"
	"github.com/ViniDB27/ignite-call/internal/scheduling"
	"github.com/ViniDB27/ignite-call/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(
	db *sqlx.DB,
	cfg *config.Config,
	loc *time.Location,
	calendarSync scheduling.CalendarSync,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	userRepo := user.NewRepository(db)
	scheduleRepo := schedule.NewRepository(db)
	bookingRepo := scheduling.NewRepository(db)

	userService := user.NewService(userRepo, cfg.JWTSecret)
	scheduleService := schedule.NewService(scheduleRepo)
	schedulingService := scheduling.NewService(bookingRepo, scheduleRepo, userRepo, calendarSync, loc)

	userHandler := user.NewHandler(userService)
	scheduleHandler := schedule.NewHandler(scheduleService)
	schedulingHandler := scheduling.NewHandler(schedulingService, loc)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
	}

	router.GET("/users/:username/availability", schedulingHandler.Availability)
	router.POST("/users/:username/schedule", schedulingHandler.CreateBooking)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.PUT("/profile", userHandler.UpdateProfile)
		protected.PUT("/time-intervals", scheduleHandler.ReplaceTimeIntervals)
		protected.GET("/time-intervals", scheduleHandler.GetTimeIntervals)
		protected.GET("/bookings", schedulingHandler.ListDayBookings)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

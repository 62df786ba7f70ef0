package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/fitness-backend-go/internal/config"
	"github.com/jengzang/fitness-backend-go/internal/database"
	"github.com/jengzang/fitness-backend-go/internal/decoder"
	"github.com/jengzang/fitness-backend-go/internal/geocode"
	"github.com/jengzang/fitness-backend-go/internal/handler"
	"github.com/jengzang/fitness-backend-go/internal/middleware"
	"github.com/jengzang/fitness-backend-go/internal/repository"
	"github.com/jengzang/fitness-backend-go/internal/service"
)

// SetupRouter wires repositories, services and handlers onto a gin engine
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Fitness Backend API is running",
		})
	})

	db := database.GetDB()
	activityRepo := repository.NewActivityRepository(db)
	streamRepo := repository.NewStreamRepository(db)
	segmentRepo := repository.NewSegmentRepository(db)
	gearRepo := repository.NewGearRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	var geocoder decoder.Geocoder
	if cfg.GeocoderBaseURL != "" {
		geocoder = geocode.NewClient(cfg.GeocoderBaseURL, cfg.GeocoderInterval)
	}
	dec := decoder.New(geocoder)

	activityService := service.NewActivityService(dec, activityRepo, streamRepo, segmentRepo, gearRepo, cfg.DefaultTimezone)
	segmentService := service.NewSegmentService(segmentRepo, activityRepo, streamRepo)
	statsService := service.NewStatsService(statsRepo)

	activityHandler := handler.NewActivityHandler(activityService, cfg.MaxUploadBytes)
	segmentHandler := handler.NewSegmentHandler(segmentService)
	statsHandler := handler.NewStatsHandler(statsService)
	gearHandler := handler.NewGearHandler(gearRepo)
	authHandler := handler.NewAuthHandler(cfg.APIKey, cfg.JWTSecret)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		auth.Use(middleware.RateLimit(10, time.Minute))
		{
			auth.POST("/token", authHandler.IssueToken)
		}

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			activities := protected.Group("/activities")
			{
				activities.POST("/upload", middleware.RateLimit(30, time.Minute), activityHandler.Upload)
				activities.GET("", activityHandler.GetActivities)
				activities.GET("/:id", activityHandler.GetActivityByID)
				activities.GET("/:id/streams", activityHandler.GetStreams)
				activities.GET("/:id/hr-zones", activityHandler.GetHeartRateZones)
				activities.DELETE("/:id", activityHandler.DeleteActivity)
			}

			segments := protected.Group("/segments")
			{
				segments.POST("", segmentHandler.CreateSegment)
				segments.GET("", segmentHandler.GetSegments)
				segments.GET("/:id", segmentHandler.GetSegmentByID)
				segments.GET("/:id/matches", segmentHandler.GetMatches)
				segments.POST("/:id/refresh", segmentHandler.RefreshMatches)
			}

			stats := protected.Group("/stats")
			{
				stats.GET("/summary", statsHandler.GetSummary)
				stats.GET("/records", statsHandler.GetRecords)
			}

			gear := protected.Group("/gear")
			{
				gear.POST("", gearHandler.CreateGear)
				gear.GET("", gearHandler.GetGear)
			}
		}
	}

	return r
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"folio/cache"
	"folio/config"
	"folio/controllers"
	"folio/database"
	"folio/middleware"
	"folio/monitoring"
	"folio/routes"
	"folio/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "folio/docs"
)

// @title Folio API
// @version 1.0
// @description Personal blog/portfolio API with a staff dashboard for posts, comments and CV management.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("No .env file loaded")
	}

	cfg := config.Load()

	db := database.Connect(cfg)
	database.Migrate(db)

	var redisClient *cache.RedisClient
	if cfg.RedisAddr != "" {
		var err error
		redisClient, err = cache.NewRedisClient(cfg)
		if err != nil {
			logrus.WithError(err).Warn("Redis unavailable, continuing without cache")
			redisClient = nil
		}
	}

	monitoring.Register()

	storage := services.NewLocalStorage(cfg.MediaRoot, cfg.MediaURL)
	mediaService := services.NewMediaService()
	userService := services.NewUserService(db, mediaService, storage)
	postService := services.NewPostService(db, mediaService, storage, redisClient)
	commentService := services.NewCommentService(db, redisClient)
	siteService := services.NewSiteService(db, storage)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler())

	authController := controllers.NewAuthController(userService)
	postController := controllers.NewPostController(postService)
	commentController := controllers.NewCommentController(commentService)
	profileController := controllers.NewProfileController(userService)
	siteController := controllers.NewSiteController(siteService, postService, cfg.SiteURL)
	dashboardController := controllers.NewDashboardController(postService, commentService)

	routes.SetupRoutes(r, db, cfg, authController, postController, commentController, profileController, siteController, dashboardController)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server shutdown error")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	logrus.Info("Server stopped")
}

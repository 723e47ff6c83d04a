package routes

import (
	"net/http"

	"folio/config"
	"folio/controllers"
	"folio/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func SetupRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	authController *controllers.AuthController,
	postController *controllers.PostController,
	commentController *controllers.CommentController,
	profileController *controllers.ProfileController,
	siteController *controllers.SiteController,
	dashboardController *controllers.DashboardController,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/", postController.Home)
	r.GET("/sitemap.xml", siteController.Sitemap)
	r.GET("/robots.txt", siteController.Robots)
	r.GET("/cv/download", siteController.DownloadCV)

	r.Static(cfg.MediaURL, cfg.MediaRoot)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
			auth.GET("/me", middleware.AuthRequired(), authController.Me)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", postController.List)
			posts.GET("/:id", postController.Detail)
			posts.POST("/:id/comments", middleware.AuthRequired(), commentController.Create)
		}

		profile := api.Group("/profile")
		profile.Use(middleware.AuthRequired())
		{
			profile.GET("", profileController.Get)
			profile.PUT("", profileController.Update)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.StaffRequired(db))
		{
			admin.GET("/dashboard", dashboardController.Stats)

			admin.GET("/posts", postController.AdminList)
			admin.POST("/posts", postController.Create)
			admin.GET("/posts/:id", postController.AdminDetail)
			admin.PUT("/posts/:id", postController.Update)
			admin.DELETE("/posts/:id", postController.Delete)

			admin.GET("/comments", commentController.AdminList)
			admin.PUT("/comments/:id/toggle", commentController.Toggle)
			admin.DELETE("/comments/:id", commentController.Delete)

			admin.GET("/cv", siteController.GetCV)
			admin.POST("/cv", siteController.UploadCV)
		}
	}
}

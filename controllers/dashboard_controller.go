package controllers

import (
	"net/http"

	"folio/services"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	postService    *services.PostService
	commentService *services.CommentService
}

func NewDashboardController(postService *services.PostService, commentService *services.CommentService) *DashboardController {
	return &DashboardController{postService: postService, commentService: commentService}
}

// Stats godoc
// @Summary Dashboard counters and recent activity (staff only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /admin/dashboard [get]
func (dc *DashboardController) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	totalPosts, err := dc.postService.CountAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	publishedPosts, err := dc.postService.CountPublished(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	totalComments, err := dc.commentService.CountAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	pendingComments, err := dc.commentService.CountPending(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	recentPosts, err := dc.postService.Recent(ctx, 5, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent posts"})
		return
	}
	recentComments, err := dc.commentService.Recent(ctx, 5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"total_posts":      totalPosts,
			"published_posts":  publishedPosts,
			"total_comments":   totalComments,
			"pending_comments": pendingComments,
		},
		"recent_posts":    recentPosts,
		"recent_comments": recentComments,
	})
}

package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"folio/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostController struct {
	postService *services.PostService
}

func NewPostController(postService *services.PostService) *PostController {
	return &PostController{postService: postService}
}

type postForm struct {
	Title       string `form:"title" binding:"required,max=200"`
	Content     string `form:"content" binding:"required"`
	VideoURL    string `form:"video_url" binding:"omitempty,url"`
	IsPublished *bool  `form:"is_published"`
	RemoveMedia bool   `form:"remove_media"`
}

// Home godoc
// @Summary Most recent published posts
// @Tags posts
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (pc *PostController) Home(c *gin.Context) {
	posts, err := pc.postService.Recent(c.Request.Context(), 3, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": posts})
}

// List godoc
// @Summary Published posts with optional substring search
// @Tags posts
// @Produce json
// @Param page query int false "Page number"
// @Param search query string false "Substring matched against title and content"
// @Success 200 {object} map[string]interface{}
// @Router /posts [get]
func (pc *PostController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	search := c.Query("search")

	posts, total, err := pc.postService.List(c.Request.Context(), page, search, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  posts,
		"page":  page,
		"total": total,
	})
}

// Detail godoc
// @Summary A published post with its approved comments
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /posts/{id} [get]
func (pc *PostController) Detail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	post, err := pc.postService.Get(c.Request.Context(), uint(id), false)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post})
}

// AdminList returns every post regardless of publication state.
func (pc *PostController) AdminList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	posts, total, err := pc.postService.List(c.Request.Context(), page, c.Query("search"), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  posts,
		"page":  page,
		"total": total,
	})
}

func (pc *PostController) AdminDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	post, err := pc.postService.Get(c.Request.Context(), uint(id), true)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post})
}

// Create godoc
// @Summary Create a post (staff only)
// @Tags admin
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /admin/posts [post]
func (pc *PostController) Create(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	media, err := readUpload(c, "media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read media file"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	post, err := pc.postService.Create(c.Request.Context(), userID.(uint), services.PostInput{
		Title:       form.Title,
		Content:     form.Content,
		Media:       media,
		VideoURL:    form.VideoURL,
		IsPublished: form.IsPublished,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if isValidationError(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Post created successfully", "data": post})
}

func (pc *PostController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	media, err := readUpload(c, "media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read media file"})
		return
	}

	post, err := pc.postService.Update(c.Request.Context(), uint(id), services.PostInput{
		Title:       form.Title,
		Content:     form.Content,
		Media:       media,
		VideoURL:    form.VideoURL,
		IsPublished: form.IsPublished,
		RemoveMedia: form.RemoveMedia,
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case isValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated successfully", "data": post})
}

func (pc *PostController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	if err := pc.postService.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func isValidationError(err error) bool {
	return errors.Is(err, services.ErrNoMedia) ||
		errors.Is(err, services.ErrBothMedia) ||
		errors.Is(err, services.ErrUnsupportedMedia)
}

// readUpload pulls an optional file out of the multipart form. A missing
// file is not an error; the XOR validation in the service decides whether
// the submission is acceptable.
func readUpload(c *gin.Context, field string) (*services.MediaUpload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return openUpload(fileHeader)
}

func openUpload(fileHeader *multipart.FileHeader) (*services.MediaUpload, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &services.MediaUpload{Filename: fileHeader.Filename, Data: data}, nil
}

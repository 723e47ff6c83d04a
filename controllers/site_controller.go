package controllers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"folio/services"

	"github.com/gin-gonic/gin"
)

type SiteController struct {
	siteService *services.SiteService
	postService *services.PostService
	siteURL     string
}

func NewSiteController(siteService *services.SiteService, postService *services.PostService, siteURL string) *SiteController {
	return &SiteController{siteService: siteService, postService: postService, siteURL: siteURL}
}

// DownloadCV godoc
// @Summary Redirect to the stored CV file
// @Tags site
// @Success 302
// @Failure 404 {object} map[string]interface{}
// @Router /cv/download [get]
func (sc *SiteController) DownloadCV(c *gin.Context) {
	cfg, err := sc.siteService.GetConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load site configuration"})
		return
	}

	if cfg.CVURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "CV is not available yet"})
		return
	}

	c.Redirect(http.StatusFound, cfg.CVURL)
}

func (sc *SiteController) GetCV(c *gin.Context) {
	cfg, err := sc.siteService.GetConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load site configuration"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cfg})
}

// UploadCV replaces the CV file referenced by the solo configuration row.
func (sc *SiteController) UploadCV(c *gin.Context) {
	upload, err := readUpload(c, "cv")
	if err != nil || upload == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A CV file is required"})
		return
	}

	cfg, err := sc.siteService.UpdateCV(upload.Filename, upload.Data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store CV"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "CV updated successfully", "data": cfg})
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

func (sc *SiteController) Sitemap(c *gin.Context) {
	posts, err := sc.postService.Published(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build sitemap"})
		return
	}

	urlSet := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []sitemapURL{{Loc: sc.siteURL + "/"}},
	}
	for _, post := range posts {
		urlSet.URLs = append(urlSet.URLs, sitemapURL{
			Loc:     fmt.Sprintf("%s/posts/%d", sc.siteURL, post.ID),
			LastMod: post.UpdatedAt.Format(time.RFC3339),
		})
	}

	c.XML(http.StatusOK, urlSet)
}

func (sc *SiteController) Robots(c *gin.Context) {
	c.String(http.StatusOK, "User-agent: *\nAllow: /\nSitemap: %s/sitemap.xml\n", sc.siteURL)
}

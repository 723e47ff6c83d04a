package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"folio/cache"
	"folio/models"
	"folio/utils"

	"gorm.io/gorm"
)

const (
	PublicPageSize    = 6
	AdminPostPageSize = 10
)

var (
	ErrNoMedia          = errors.New("either a media file or a video URL is required")
	ErrBothMedia        = errors.New("provide a media file or a video URL, not both")
	ErrUnsupportedMedia = errors.New("media file must be a jpg, jpeg, png or gif image")
)

// MediaUpload is an uploaded file captured from a multipart form.
type MediaUpload struct {
	Filename string
	Data     []byte
}

type PostInput struct {
	Title       string
	Content     string
	Media       *MediaUpload
	VideoURL    string
	IsPublished *bool
	RemoveMedia bool
}

type PostService struct {
	db      *gorm.DB
	media   *MediaService
	storage Storage
	cache   *cache.RedisClient
}

func NewPostService(db *gorm.DB, media *MediaService, storage Storage, cache *cache.RedisClient) *PostService {
	return &PostService{db: db, media: media, storage: storage, cache: cache}
}

func (s *PostService) Create(ctx context.Context, authorID uint, in PostInput) (*models.Post, error) {
	if err := validateMediaChoice(in.Media != nil, in.VideoURL != ""); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       in.Title,
		Content:     in.Content,
		AuthorID:    authorID,
		IsPublished: true,
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}

	if in.Media != nil {
		if err := s.attachMedia(post, in.Media); err != nil {
			return nil, err
		}
	} else {
		post.VideoURL = in.VideoURL
		post.MediaType = models.MediaTypeVideo
	}

	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, id uint, in PostInput) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}

	keptMedia := post.MediaURL != "" && !in.RemoveMedia
	if err := validateMediaChoice(in.Media != nil || keptMedia, in.VideoURL != ""); err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Content = in.Content
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}

	switch {
	case in.Media != nil:
		if err := s.attachMedia(&post, in.Media); err != nil {
			return nil, err
		}
		post.VideoURL = ""
	case in.VideoURL != "":
		post.VideoURL = in.VideoURL
		post.MediaType = models.MediaTypeVideo
		post.MediaURL = ""
	}

	if err := s.db.WithContext(ctx).Save(&post).Error; err != nil {
		return nil, err
	}
	s.invalidate(ctx, post.ID)
	return &post, nil
}

// attachMedia runs an upload through the normalizer and stores the result.
// The normalized bytes are what gets persisted, never the original upload,
// except when the normalizer falls back to passthrough.
func (s *PostService) attachMedia(post *models.Post, upload *MediaUpload) error {
	if !IsImageFile(upload.Filename) {
		return ErrUnsupportedMedia
	}

	name, data := s.media.Normalize(upload.Filename, upload.Data)
	url, err := s.storage.Save(UploadDirPosts, name, data)
	if err != nil {
		return err
	}

	post.MediaURL = url
	post.MediaType = models.MediaTypeImage
	return nil
}

func (s *PostService) Get(ctx context.Context, id uint, staff bool) (*models.Post, error) {
	if !staff && s.cache != nil {
		var cached models.Post
		if found, err := s.cache.GetJSON(ctx, postCacheKey(id), &cached); err == nil && found {
			return &cached, nil
		}
	}

	var post models.Post
	err := s.db.WithContext(ctx).
		Scopes(models.VisiblePosts(staff)).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Scopes(models.VisibleComments(staff)).Order("created_at ASC")
		}).
		Preload("Comments.Author").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}

	post.VideoEmbedURL = utils.EmbedURL(post.VideoURL)

	if !staff && s.cache != nil {
		_ = s.cache.SetJSON(ctx, postCacheKey(id), &post)
	}
	return &post, nil
}

func (s *PostService) List(ctx context.Context, page int, search string, staff bool) ([]models.Post, int64, error) {
	if page < 1 {
		page = 1
	}
	size := PublicPageSize
	if staff {
		size = AdminPostPageSize
	}

	query := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Post{}).Scopes(models.VisiblePosts(staff))
		if search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := query().
		Preload("Author").
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	for i := range posts {
		posts[i].VideoEmbedURL = utils.EmbedURL(posts[i].VideoURL)
	}
	return posts, total, nil
}

func (s *PostService) Recent(ctx context.Context, limit int, staff bool) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Scopes(models.VisiblePosts(staff)).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	for i := range posts {
		posts[i].VideoEmbedURL = utils.EmbedURL(posts[i].VideoURL)
	}
	return posts, nil
}

// Published returns every published post, newest first. Used by the
// sitemap, which is not paginated.
func (s *PostService) Published(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Scopes(models.VisiblePosts(false)).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

// Delete removes a post and all of its comments in one transaction.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *PostService) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).Count(&n).Error
	return n, err
}

func (s *PostService) CountPublished(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).Where("is_published = ?", true).Count(&n).Error
	return n, err
}

func (s *PostService) invalidate(ctx context.Context, id uint) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, postCacheKey(id))
	}
}

func validateMediaChoice(hasMedia, hasVideo bool) error {
	if hasMedia && hasVideo {
		return ErrBothMedia
	}
	if !hasMedia && !hasVideo {
		return ErrNoMedia
	}
	return nil
}

func postCacheKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

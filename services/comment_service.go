package services

import (
	"context"

	"folio/cache"
	"folio/models"

	"gorm.io/gorm"
)

const AdminCommentPageSize = 20

type CommentService struct {
	db    *gorm.DB
	cache *cache.RedisClient
}

func NewCommentService(db *gorm.DB, cache *cache.RedisClient) *CommentService {
	return &CommentService{db: db, cache: cache}
}

// Create adds a comment to a published post. Unpublished posts are not
// commentable and report not found, same as the public detail page.
func (s *CommentService) Create(ctx context.Context, postID, authorID uint, content string) (*models.Comment, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Scopes(models.VisiblePosts(false)).First(&post, postID).Error; err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:     postID,
		AuthorID:   authorID,
		Content:    content,
		IsApproved: true,
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}

	s.invalidate(ctx, postID)
	return comment, nil
}

func (s *CommentService) ListAll(ctx context.Context, page int) ([]models.Comment, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Post").
		Order("created_at DESC").
		Limit(AdminCommentPageSize).
		Offset((page - 1) * AdminCommentPageSize).
		Find(&comments).Error
	return comments, total, err
}

func (s *CommentService) Recent(ctx context.Context, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// Toggle inverts the approval flag and nothing else. Applying it twice
// returns the comment to its original state.
func (s *CommentService) Toggle(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}

	comment.IsApproved = !comment.IsApproved
	if err := s.db.WithContext(ctx).Model(&comment).Update("is_approved", comment.IsApproved).Error; err != nil {
		return nil, err
	}

	s.invalidate(ctx, comment.PostID)
	return &comment, nil
}

func (s *CommentService) Delete(ctx context.Context, id uint) error {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&comment).Error; err != nil {
		return err
	}

	s.invalidate(ctx, comment.PostID)
	return nil
}

func (s *CommentService) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Comment{}).Count(&n).Error
	return n, err
}

func (s *CommentService) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Comment{}).Where("is_approved = ?", false).Count(&n).Error
	return n, err
}

func (s *CommentService) invalidate(ctx context.Context, postID uint) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, postCacheKey(postID))
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"folio/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubStorage struct {
	saves []string
}

func (s *stubStorage) Save(dir, filename string, data []byte) (string, error) {
	s.saves = append(s.saves, dir+"/"+filename)
	return "/media/" + dir + "/" + filename, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.User{}, &models.Profile{}, &models.Post{}, &models.Comment{}, &models.SiteConfig{})
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string, staff bool) *models.User {
	t.Helper()

	user := &models.User{
		Email:    name + "@example.com",
		Username: name,
		Password: "irrelevant",
		IsStaff:  staff,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func newTestPostService(db *gorm.DB) *PostService {
	return NewPostService(db, NewMediaService(), &stubStorage{}, nil)
}

func boolPtr(b bool) *bool { return &b }

func TestCreateRequiresExactlyOneMedia(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPostService(db)
	author := createTestUser(t, db, "author", true)
	ctx := context.Background()

	_, err := svc.Create(ctx, author.ID, PostInput{Title: "No media", Content: "body"})
	if !errors.Is(err, ErrNoMedia) {
		t.Errorf("neither media nor video: got %v, want ErrNoMedia", err)
	}

	_, err = svc.Create(ctx, author.ID, PostInput{
		Title:    "Both",
		Content:  "body",
		Media:    &MediaUpload{Filename: "pic.png", Data: makePNG(t, 50, 50, 255)},
		VideoURL: "https://youtu.be/abc123",
	})
	if !errors.Is(err, ErrBothMedia) {
		t.Errorf("both media and video: got %v, want ErrBothMedia", err)
	}
}

func TestCreateVideoPost(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPostService(db)
	author := createTestUser(t, db, "author", true)

	post, err := svc.Create(context.Background(), author.ID, PostInput{
		Title:    "Video post",
		Content:  "body",
		VideoURL: "https://youtu.be/abc123",
	})
	if err != nil {
		t.Fatalf("create video post: %v", err)
	}

	if post.MediaType != models.MediaTypeVideo {
		t.Errorf("media_type = %q, want %q", post.MediaType, models.MediaTypeVideo)
	}
	if !post.IsPublished {
		t.Error("new post should default to published")
	}
}

func TestCreateImagePost(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPostService(db)
	author := createTestUser(t, db, "author", true)

	post, err := svc.Create(context.Background(), author.ID, PostInput{
		Title:   "Image post",
		Content: "body",
		Media:   &MediaUpload{Filename: "pic.png", Data: makePNG(t, 50, 50, 255)},
	})
	if err != nil {
		t.Fatalf("create image post: %v", err)
	}

	if post.MediaType != models.MediaTypeImage {
		t.Errorf("media_type = %q, want %q", post.MediaType, models.MediaTypeImage)
	}
	if post.MediaURL == "" {
		t.Error("media_url should point at the stored file")
	}
}

func TestCreateRejectsUnknownMediaExtension(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPostService(db)
	author := createTestUser(t, db, "author", true)

	_, err := svc.Create(context.Background(), author.ID, PostInput{
		Title:   "Bitmap",
		Content: "body",
		Media:   &MediaUpload{Filename: "pic.bmp", Data: []byte{0x42, 0x4d}},
	})
	if !errors.Is(err, ErrUnsupportedMedia) {
		t.Errorf("got %v, want ErrUnsupportedMedia", err)
	}
}

func TestUnpublishedPostHiddenFromPublic(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPostService(db)
	author := createTestUser(t, db, "author", true)
	ctx := context.Background()

	published, err := svc.Create(ctx, author.ID, PostInput{
		Title: "Visible", Content: "body", VideoURL: "https://youtu.be/aaa",
	})
	if err != nil {
		t.Fatalf("create published: %v", err)
	}
	draft, err := svc.Create(ctx, author.ID, PostInput{
		Title: "Hidden", Content: "body", VideoURL: "https://youtu.be/bbb",
		IsPublished: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	publicPosts, total, err := svc.List(ctx, 1, "", false)
	if err != nil {
		t.Fatalf("public list: %v", err)
	}
	if total != 1 || len(publicPosts) != 1 || publicPosts[0].ID != published.ID {
		t.Errorf("public list should contain only the published post, got %d posts", len(publicPosts))
	}

	_, staffTotal, err := svc.List(ctx, 1, "", true)
	if err != nil {
		t.Fatalf("staff list: %v", err)
	}
	if staffTotal != 2 {
		t.Errorf("staff list total = %d, want 2", staffTotal)
	}

	if _, err := svc.Get(ctx, draft.ID, false); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("public get of draft: got %v, want ErrRecordNotFound", err)
	}
	if _, err := svc.Get(ctx, draft.ID, true); err != nil {
		t.Errorf("staff get of draft: %v", err)
	}
}

func TestListSearchMatchesTitleAndContent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPostService(db)
	author := createTestUser(t, db, "author", true)
	ctx := context.Background()

	seed := []struct{ title, content string }{
		{"Traveling in Norway", "fjords and mountains"},
		{"Cooking notes", "the best gophers eat carrots"},
		{"Unrelated", "nothing to see"},
	}
	for i, p := range seed {
		_, err := svc.Create(ctx, author.ID, PostInput{
			Title: p.title, Content: p.content,
			VideoURL: fmt.Sprintf("https://youtu.be/vid%d", i),
		})
		if err != nil {
			t.Fatalf("seed post: %v", err)
		}
	}

	posts, _, err := svc.List(ctx, 1, "NORWAY", false)
	if err != nil {
		t.Fatalf("search by title: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "Traveling in Norway" {
		t.Errorf("title search returned %d posts", len(posts))
	}

	posts, _, err = svc.List(ctx, 1, "gophers", false)
	if err != nil {
		t.Fatalf("search by content: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "Cooking notes" {
		t.Errorf("content search returned %d posts", len(posts))
	}
}

func TestPublicListPageSize(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPostService(db)
	author := createTestUser(t, db, "author", true)
	ctx := context.Background()

	for i := 0; i < PublicPageSize+2; i++ {
		_, err := svc.Create(ctx, author.ID, PostInput{
			Title: fmt.Sprintf("Post %d", i), Content: "body",
			VideoURL: fmt.Sprintf("https://youtu.be/v%d", i),
		})
		if err != nil {
			t.Fatalf("seed post: %v", err)
		}
	}

	pageOne, total, err := svc.List(ctx, 1, "", false)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(pageOne) != PublicPageSize {
		t.Errorf("page 1 size = %d, want %d", len(pageOne), PublicPageSize)
	}
	if total != int64(PublicPageSize+2) {
		t.Errorf("total = %d, want %d", total, PublicPageSize+2)
	}

	pageTwo, _, err := svc.List(ctx, 2, "", false)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(pageTwo) != 2 {
		t.Errorf("page 2 size = %d, want 2", len(pageTwo))
	}
}

func TestUpdateSwitchesImageToVideo(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPostService(db)
	author := createTestUser(t, db, "author", true)
	ctx := context.Background()

	post, err := svc.Create(ctx, author.ID, PostInput{
		Title: "Image", Content: "body",
		Media: &MediaUpload{Filename: "pic.png", Data: makePNG(t, 50, 50, 255)},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Keeping the stored image while adding a video must be rejected.
	_, err = svc.Update(ctx, post.ID, PostInput{
		Title: "Image", Content: "body", VideoURL: "https://youtu.be/abc",
	})
	if !errors.Is(err, ErrBothMedia) {
		t.Errorf("got %v, want ErrBothMedia", err)
	}

	updated, err := svc.Update(ctx, post.ID, PostInput{
		Title: "Video now", Content: "body",
		VideoURL:    "https://youtu.be/abc",
		RemoveMedia: true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.MediaType != models.MediaTypeVideo {
		t.Errorf("media_type = %q, want %q", updated.MediaType, models.MediaTypeVideo)
	}
	if updated.MediaURL != "" {
		t.Errorf("media_url = %q, want empty after removal", updated.MediaURL)
	}

	// Dropping the media without providing a video leaves nothing.
	_, err = svc.Update(ctx, post.ID, PostInput{
		Title: "Nothing", Content: "body", RemoveMedia: true,
	})
	if !errors.Is(err, ErrNoMedia) {
		t.Errorf("got %v, want ErrNoMedia", err)
	}
}

func TestUpdateNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPostService(db)

	_, err := svc.Update(context.Background(), 9999, PostInput{
		Title: "Ghost", Content: "body", VideoURL: "https://youtu.be/abc",
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("got %v, want ErrRecordNotFound", err)
	}
}

func TestDeleteCascadesToComments(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPostService(db)
	comments := NewCommentService(db, nil)
	author := createTestUser(t, db, "author", true)
	visitor := createTestUser(t, db, "visitor", false)
	ctx := context.Background()

	post, err := svc.Create(ctx, author.ID, PostInput{
		Title: "Doomed", Content: "body", VideoURL: "https://youtu.be/abc",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := comments.Create(ctx, post.ID, visitor.ID, fmt.Sprintf("comment %d", i)); err != nil {
			t.Fatalf("create comment: %v", err)
		}
	}

	if err := svc.Delete(ctx, post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var orphaned int64
	if err := db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&orphaned).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if orphaned != 0 {
		t.Errorf("found %d orphaned comments after post delete, want 0", orphaned)
	}

	if err := svc.Delete(ctx, post.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("second delete: got %v, want ErrRecordNotFound", err)
	}
}

func TestStatsCounts(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPostService(db)
	author := createTestUser(t, db, "author", true)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		published := i != 0
		_, err := svc.Create(ctx, author.ID, PostInput{
			Title: fmt.Sprintf("Post %d", i), Content: "body",
			VideoURL:    fmt.Sprintf("https://youtu.be/v%d", i),
			IsPublished: boolPtr(published),
		})
		if err != nil {
			t.Fatalf("seed post: %v", err)
		}
	}

	total, err := svc.CountAll(ctx)
	if err != nil {
		t.Fatalf("count all: %v", err)
	}
	if total != 3 {
		t.Errorf("total posts = %d, want 3", total)
	}

	published, err := svc.CountPublished(ctx)
	if err != nil {
		t.Fatalf("count published: %v", err)
	}
	if published != 2 {
		t.Errorf("published posts = %d, want 2", published)
	}
}

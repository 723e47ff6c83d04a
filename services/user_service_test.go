package services

import (
	"testing"

	"folio/models"
)

func TestRegisterCreatesUserWithProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewMediaService(), &stubStorage{})

	user, err := svc.Register(&models.RegisterRequest{
		Email:    "jo@example.com",
		Username: "jo",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if user.Password == "supersecret" {
		t.Error("password should be stored hashed")
	}
	if !user.CheckPassword("supersecret") {
		t.Error("stored hash should verify the original password")
	}
	if user.IsStaff {
		t.Error("new users should not be staff")
	}

	loaded, err := svc.GetByID(user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if loaded.Profile == nil {
		t.Fatal("registration should create an empty profile")
	}
}

func TestRegisterDuplicateEmailFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewMediaService(), &stubStorage{})

	req := &models.RegisterRequest{Email: "jo@example.com", Username: "jo", Password: "supersecret"}
	if _, err := svc.Register(req); err != nil {
		t.Fatalf("first register: %v", err)
	}

	req.Username = "other"
	if _, err := svc.Register(req); err == nil {
		t.Error("second register with the same email should fail")
	}
}

func TestUpdateProfileWithAvatar(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewMediaService(), &stubStorage{})

	user, err := svc.Register(&models.RegisterRequest{
		Email: "jo@example.com", Username: "jo", Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	profile, err := svc.UpdateProfile(user.ID, &models.UpdateProfileRequest{
		Bio:       "hello",
		Location:  "Paris",
		BirthDate: "1990-04-02",
	}, &MediaUpload{Filename: "me.png", Data: makePNG(t, 40, 40, 255)})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}

	if profile.Bio != "hello" || profile.Location != "Paris" {
		t.Errorf("profile fields not applied: %+v", profile)
	}
	if profile.BirthDate == nil || profile.BirthDate.Year() != 1990 {
		t.Error("birth date not parsed")
	}
	if profile.AvatarURL == "" {
		t.Error("avatar_url should point at the stored file")
	}
}

func TestUpdateProfileRejectsNonImageAvatar(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewMediaService(), &stubStorage{})

	user, err := svc.Register(&models.RegisterRequest{
		Email: "jo@example.com", Username: "jo", Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = svc.UpdateProfile(user.ID, &models.UpdateProfileRequest{}, &MediaUpload{
		Filename: "virus.exe", Data: []byte{0x4d, 0x5a},
	})
	if err != ErrUnsupportedMedia {
		t.Errorf("got %v, want ErrUnsupportedMedia", err)
	}
}

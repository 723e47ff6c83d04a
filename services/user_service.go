package services

import (
	"time"

	"folio/models"

	"gorm.io/gorm"
)

type UserService struct {
	db      *gorm.DB
	media   *MediaService
	storage Storage
}

func NewUserService(db *gorm.DB, media *MediaService, storage Storage) *UserService {
	return &UserService{db: db, media: media, storage: storage}
}

// Register creates the user together with an empty profile.
func (s *UserService) Register(req *models.RegisterRequest) (*models.User, error) {
	user := &models.User{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if err := user.HashPassword(); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Profile{UserID: user.ID}).Error
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Profile").First(&user, id).Error
	return &user, err
}

func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	return &user, err
}

// UpdateProfile applies profile edits and an optional avatar upload. The
// avatar goes through the same normalizer as post images.
func (s *UserService) UpdateProfile(userID uint, req *models.UpdateProfileRequest, avatar *MediaUpload) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.FirstOrCreate(&profile, models.Profile{UserID: userID}).Error; err != nil {
		return nil, err
	}

	profile.Bio = req.Bio
	profile.Location = req.Location
	if req.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, err
		}
		profile.BirthDate = &birthDate
	}

	if avatar != nil {
		if !IsImageFile(avatar.Filename) {
			return nil, ErrUnsupportedMedia
		}
		name, data := s.media.Normalize(avatar.Filename, avatar.Data)
		url, err := s.storage.Save(UploadDirAvatars, name, data)
		if err != nil {
			return nil, err
		}
		profile.AvatarURL = url
	}

	if err := s.db.Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

package services

import (
	"folio/models"

	"gorm.io/gorm"
)

type SiteService struct {
	db      *gorm.DB
	storage Storage
}

func NewSiteService(db *gorm.DB, storage Storage) *SiteService {
	return &SiteService{db: db, storage: storage}
}

// GetConfig fetches or lazily creates the solo configuration row. The
// fixed primary key makes concurrent first calls race-safe.
func (s *SiteService) GetConfig() (*models.SiteConfig, error) {
	var cfg models.SiteConfig
	err := s.db.FirstOrCreate(&cfg, models.SiteConfig{ID: models.SiteConfigID}).Error
	return &cfg, err
}

// UpdateCV stores a new CV file and points the configuration at it.
func (s *SiteService) UpdateCV(filename string, data []byte) (*models.SiteConfig, error) {
	cfg, err := s.GetConfig()
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Save(UploadDirCV, filename, data)
	if err != nil {
		return nil, err
	}

	cfg.CVURL = url
	if err := s.db.Save(cfg).Error; err != nil {
		return nil, err
	}
	return cfg, nil
}

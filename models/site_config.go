package models

import "time"

// SiteConfigID is the fixed key of the single site configuration row.
const SiteConfigID uint = 1

// SiteConfig is a solo-row record holding the downloadable CV reference.
// Concurrent first-requests both attempt the insert; the primary-key
// constraint makes the get-or-create race-safe.
type SiteConfig struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CVURL     string    `json:"cv_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

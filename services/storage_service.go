package services

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	UploadDirPosts   = "posts_media"
	UploadDirAvatars = "avatars"
	UploadDirCV      = "cv"
)

// Storage persists named byte buffers and returns a retrievable URL.
type Storage interface {
	Save(dir, filename string, data []byte) (string, error)
}

// LocalStorage writes blobs under a media root on the local disk. The
// files are served back by the router's static file handler.
type LocalStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(root, baseURL string) *LocalStorage {
	return &LocalStorage{root: root, baseURL: baseURL}
}

func (s *LocalStorage) Save(dir, filename string, data []byte) (string, error) {
	name := uuid.NewString()[:8] + "_" + filepath.Base(filename)

	target := filepath.Join(s.root, dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(target, name), data, 0o644); err != nil {
		return "", err
	}

	return s.baseURL + "/" + dir + "/" + name, nil
}

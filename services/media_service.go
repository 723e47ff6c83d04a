package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"

	"folio/monitoring"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

// MaxImageDimension bounds the longest side of stored post images and avatars.
const MaxImageDimension = 1600

const jpegQuality = 75

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// IsImageFile reports whether the filename carries one of the accepted
// image extensions. Submissions with a media file outside this set are
// rejected at validation time, not silently stored untyped.
func IsImageFile(filename string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(filename))]
}

type MediaService struct{}

func NewMediaService() *MediaService {
	return &MediaService{}
}

// Normalize re-encodes an uploaded image so neither dimension exceeds
// MaxImageDimension. GIFs pass through untouched so animation survives.
// Any decode or encode failure falls back to the original bytes; a failed
// normalization must never block the save.
func (s *MediaService) Normalize(filename string, data []byte) (string, []byte) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".gif" {
		monitoring.ImagesNormalized.WithLabelValues("passthrough").Inc()
		return filename, data
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		logrus.WithError(err).WithField("file", filename).Warn("image decode failed, storing original")
		monitoring.ImagesNormalized.WithLabelValues("decode_error").Inc()
		return filename, data
	}

	img = imaging.Fit(img, MaxImageDimension, MaxImageDimension, imaging.Lanczos)

	buf := new(bytes.Buffer)
	switch ext {
	case ".jpg", ".jpeg":
		if err := imaging.Encode(buf, flatten(img), imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
			logrus.WithError(err).WithField("file", filename).Warn("jpeg encode failed, storing original")
			monitoring.ImagesNormalized.WithLabelValues("encode_error").Inc()
			return filename, data
		}
		monitoring.ImagesNormalized.WithLabelValues("normalized").Inc()
		return strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg", buf.Bytes()
	case ".png":
		if err := imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
			logrus.WithError(err).WithField("file", filename).Warn("png encode failed, storing original")
			monitoring.ImagesNormalized.WithLabelValues("encode_error").Inc()
			return filename, data
		}
		monitoring.ImagesNormalized.WithLabelValues("normalized").Inc()
		return filename, buf.Bytes()
	default:
		monitoring.ImagesNormalized.WithLabelValues("passthrough").Inc()
		return filename, data
	}
}

// flatten composites the image over white, dropping any alpha channel
// before JPEG encoding.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Paste(bg, img, image.Point{})
}

package service

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	SizeThumb  = "thumb"
	SizeMedium = "medium"

	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800

	maxSourceImageBytes = 20 << 20
)

// ErrNoImage is returned when a product has no image to thumbnail.
var ErrNoImage = errors.New("product has no image")

// ImageServiceInterface defines the contract for serving resized product images
type ImageServiceInterface interface {
	Thumbnail(ctx context.Context, key, size string) ([]byte, error)
}

// ImageService resizes a product's first image and keeps the result on disk
type ImageService struct {
	products ProductServiceInterface
	client   *http.Client
	cacheDir string
}

// NewImageService creates a new ImageService. An empty cacheDir disables caching.
func NewImageService(products ProductServiceInterface, client *http.Client, cacheDir string) *ImageService {
	if client == nil {
		client = http.DefaultClient
	}
	return &ImageService{
		products: products,
		client:   client,
		cacheDir: cacheDir,
	}
}

// Ensure ImageService implements ImageServiceInterface
var _ ImageServiceInterface = (*ImageService)(nil)

// NormalizeSize maps unknown sizes to medium
func NormalizeSize(size string) string {
	if size == SizeThumb {
		return SizeThumb
	}
	return SizeMedium
}

func (s *ImageService) Thumbnail(ctx context.Context, key, size string) ([]byte, error) {
	size = NormalizeSize(size)
	cachePath := s.cachePath(key, size)
	if cachePath != "" {
		if data, err := os.ReadFile(cachePath); err == nil {
			return data, nil
		}
	}

	product, err := s.products.GetProduct(ctx, key)
	if err != nil {
		return nil, err
	}
	imageURL := product.FirstImage()
	if imageURL == "" {
		return nil, ErrNoImage
	}

	raw, err := s.fetch(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	optimized, err := OptimizeImage(raw, size)
	if err != nil {
		return nil, err
	}

	if cachePath != "" {
		if err := saveToCache(cachePath, optimized); err != nil {
			logrus.WithError(err).Warn("⚠️  Thumbnail: cache write failed")
		}
	}
	return optimized, nil
}

func (s *ImageService) fetch(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build image request")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrUpstream, "fetch image %s: %v", imageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceImageBytes))
	if err != nil {
		return nil, errors.Wrapf(ErrUpstream, "read image %s: %v", imageURL, err)
	}
	return data, nil
}

// cachePath hashes the key so arbitrary product keys are safe file names
func (s *ImageService) cachePath(key, size string) string {
	if s.cacheDir == "" {
		return ""
	}
	sum := sha1.Sum([]byte(key))
	return filepath.Join(s.cacheDir, "product_"+hex.EncodeToString(sum[:])+"_"+size+".jpg")
}

func saveToCache(cachePath string, imageData []byte) error {
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return errors.Wrap(err, "create cache directory")
	}
	if err := os.WriteFile(cachePath, imageData, 0o644); err != nil {
		return errors.Wrap(err, "write to cache")
	}
	logrus.WithField("path", cachePath).Debug("✓ Image cached")
	return nil
}

// OptimizeImage decodes PNG/JPEG bytes, fits them inside the size's bounding box and re-encodes as JPEG
func OptimizeImage(imageData []byte, size string) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}

	maxDim, quality := maxSizeMedium, qualityMedium
	if NormalizeSize(size) == SizeThumb {
		maxDim, quality = maxSizeThumb, qualityThumb
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}
	logrus.WithFields(logrus.Fields{
		"format": format,
		"from":   bounds.Size(),
		"to":     img.Bounds().Size(),
	}).Debug("🔄 OptimizeImage")

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, errors.Wrap(err, "encode JPEG")
	}
	return buf.Bytes(), nil
}

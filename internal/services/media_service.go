package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxUploadBytes = 10 << 20
	thumbWidth     = 320

	// originals at or below this size are served as their own thumbnail
	thumbThresholdBytes = 64 << 10
)

// MediaKind decides which bucket an upload lands in.
type MediaKind string

const (
	MediaAdImage      MediaKind = "ad"
	MediaChatImage    MediaKind = "chat"
	MediaProfileImage MediaKind = "profile"
)

// ObjectStore is the blob backend for uploaded images.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key, contentType string, data []byte) (string, error)
	PresignURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

type MediaBuckets struct {
	AdImages      string
	ChatImages    string
	ProfileImages string
}

type MediaService struct {
	store      ObjectStore
	buckets    MediaBuckets
	presignTTL time.Duration
	log        *zap.SugaredLogger
}

func NewMediaService(store ObjectStore, buckets MediaBuckets, presignTTL time.Duration, log *zap.SugaredLogger) *MediaService {
	return &MediaService{store: store, buckets: buckets, presignTTL: presignTTL, log: log}
}

type UploadResult struct {
	Key          string `json:"key"`
	URL          string `json:"url"`
	ThumbnailKey string `json:"thumbnail_key,omitempty"`
}

func (s *MediaService) bucketFor(kind MediaKind) (string, error) {
	switch kind {
	case MediaAdImage:
		return s.buckets.AdImages, nil
	case MediaChatImage:
		return s.buckets.ChatImages, nil
	case MediaProfileImage:
		return s.buckets.ProfileImages, nil
	}
	return "", fmt.Errorf("%w: unknown media kind %q", ErrInvalidInput, kind)
}

// UploadImage stores the original and, for ad images, a jpeg thumbnail
// for listing pages. Thumbnail failures are logged and ignored, the
// original upload already succeeded.
func (s *MediaService) UploadImage(ctx context.Context, userID string, kind MediaKind, filename, contentType string, data []byte) (*UploadResult, error) {
	bucket, err := s.bucketFor(kind)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if len(data) > maxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, maxUploadBytes)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: only images are accepted", ErrInvalidInput)
	}

	key := userID + "/" + uuid.NewString() + "_" + path.Base(filename)
	url, err := s.store.Upload(ctx, bucket, key, contentType, data)
	if err != nil {
		return nil, err
	}

	res := &UploadResult{Key: key, URL: url}
	if kind == MediaAdImage && len(data) > thumbThresholdBytes {
		if thumb, err := makeThumbnail(data); err == nil {
			thumbKey := key + "_thumb.jpg"
			if _, err := s.store.Upload(ctx, bucket, thumbKey, "image/jpeg", thumb); err == nil {
				res.ThumbnailKey = thumbKey
			} else {
				s.log.Warnw("thumbnail upload failed", "key", thumbKey, "err", err)
			}
		} else {
			s.log.Warnw("thumbnail encode failed", "key", key, "err", err)
		}
	}
	return res, nil
}

// DownloadURL signs a short lived link for a stored object.
func (s *MediaService) DownloadURL(ctx context.Context, kind MediaKind, key string) (string, error) {
	bucket, err := s.bucketFor(kind)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", fmt.Errorf("%w: key is required", ErrInvalidInput)
	}
	return s.store.PresignURL(ctx, bucket, key, s.presignTTL)
}

func makeThumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

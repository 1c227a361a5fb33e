package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gorm.io/gorm"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/events"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/imagehost"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/logging"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/models"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/qr"
)

const maxTagsPerPhoto = 5

type PhotoStore interface {
	CreatePhoto(ctx context.Context, p *models.Photo) error
	GetPhoto(ctx context.Context, id uint) (*models.Photo, error)
	ListPhotosByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.Photo, error)
	UpdatePhotoDescription(ctx context.Context, id uint, description string) error
	DeletePhoto(ctx context.Context, p *models.Photo) error
	UpsertTags(ctx context.Context, names []string) ([]models.Tag, error)
}

// ImageHost is the external image hosting contract. The real client
// lives in internal/imagehost, tests substitute a fake.
type ImageHost interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*imagehost.Asset, error)
	Transform(ctx context.Context, publicID string, t imagehost.Transformation) (string, error)
	Destroy(ctx context.Context, publicID string) error
}

// PhotoIndex mirrors photo documents into the search index. Indexing is
// best-effort, a failure is logged and never fails the request.
type PhotoIndex interface {
	IndexPhoto(ctx context.Context, p models.Photo) error
	RemovePhoto(ctx context.Context, id uint) error
}

type PhotoService struct {
	Store  PhotoStore
	Host   ImageHost
	Index  PhotoIndex
	Events Publisher
}

// Create uploads the image to the external host, stores the returned URL
// with a QR code for it, and attaches up to maxTagsPerPhoto tags.
func (s *PhotoService) Create(ctx context.Context, owner *models.User, filename string, file io.Reader, description string, tagNames []string) (*models.Photo, error) {
	l := logging.FromContext(ctx).With("svc", "photos.create", "owner_id", owner.ID)

	if len(tagNames) > maxTagsPerPhoto {
		return nil, ErrTooManyTags
	}

	asset, err := s.Host.Upload(ctx, filename, file)
	if err != nil {
		l.Error("create_failed", "reason", "upload_error", "error", err)
		return nil, fmt.Errorf("upload image: %w", err)
	}

	qrCode, err := qr.DataURL(asset.URL)
	if err != nil {
		l.Warn("qr_generation_failed", "error", err)
		qrCode = ""
	}

	tags, err := s.Store.UpsertTags(ctx, tagNames)
	if err != nil {
		l.Error("create_failed", "reason", "store_error", "error", err)
		return nil, err
	}

	photo := &models.Photo{
		URL:         asset.URL,
		PublicID:    asset.PublicID,
		QRCode:      qrCode,
		Description: description,
		OwnerID:     owner.ID,
		Tags:        tags,
	}
	if err := s.Store.CreatePhoto(ctx, photo); err != nil {
		l.Error("create_failed", "reason", "store_error", "error", err)
		return nil, err
	}

	s.index(ctx, *photo)
	publish(ctx, s.Events, events.TopicPhotoEvents, strconv.Itoa(int(photo.ID)), map[string]interface{}{
		"type":     "photo_created",
		"photo_id": photo.ID,
		"owner_id": owner.ID,
	})

	l.Info("create_success", "photo_id", photo.ID)
	return photo, nil
}

func (s *PhotoService) Get(ctx context.Context, id uint) (*models.Photo, error) {
	photo, err := s.Store.GetPhoto(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return photo, nil
}

func (s *PhotoService) ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.Photo, error) {
	return s.Store.ListPhotosByOwner(ctx, ownerID, limit, offset)
}

// UpdateDescription changes the caption of the caller's own photo. A
// missing photo and someone else's photo look the same to the caller.
func (s *PhotoService) UpdateDescription(ctx context.Context, actor *models.User, photoID uint, description string) (*models.Photo, error) {
	photo, err := s.Get(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if photo.OwnerID != actor.ID {
		return nil, ErrNotFound
	}

	if err := s.Store.UpdatePhotoDescription(ctx, photoID, description); err != nil {
		return nil, err
	}
	photo.Description = description

	s.index(ctx, *photo)
	return photo, nil
}

// Delete removes the caller's own photo. The remote asset is destroyed
// best-effort, the row goes away regardless.
func (s *PhotoService) Delete(ctx context.Context, actor *models.User, photoID uint) error {
	l := logging.FromContext(ctx).With("svc", "photos.delete", "photo_id", photoID)

	photo, err := s.Get(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.OwnerID != actor.ID {
		return ErrNotFound
	}

	if err := s.Host.Destroy(ctx, photo.PublicID); err != nil {
		l.Warn("remote_destroy_failed", "public_id", photo.PublicID, "error", err)
	}

	if err := s.Store.DeletePhoto(ctx, photo); err != nil {
		l.Error("delete_failed", "reason", "store_error", "error", err)
		return err
	}

	if s.Index != nil {
		if err := s.Index.RemovePhoto(ctx, photoID); err != nil {
			l.Warn("index_remove_failed", "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicPhotoEvents, strconv.Itoa(int(photoID)), map[string]interface{}{
		"type":     "photo_deleted",
		"photo_id": photoID,
		"owner_id": actor.ID,
	})

	l.Info("delete_success")
	return nil
}

// Transform returns a derived URL for an existing photo. The actual
// resize/crop work happens on the image host.
func (s *PhotoService) Transform(ctx context.Context, photoID uint, t imagehost.Transformation) (string, error) {
	photo, err := s.Get(ctx, photoID)
	if err != nil {
		return "", err
	}
	url, err := s.Host.Transform(ctx, photo.PublicID, t)
	if err != nil {
		return "", fmt.Errorf("transform image: %w", err)
	}
	return url, nil
}

func (s *PhotoService) index(ctx context.Context, p models.Photo) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexPhoto(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("index_failed", "photo_id", p.ID, "error", err)
	}
}

package repo

import (
	"context"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/models"
)

func (r *GormRepo) CreatePhoto(ctx context.Context, p *models.Photo) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) GetPhoto(ctx context.Context, id uint) (*models.Photo, error) {
	var photo models.Photo
	if err := r.DB.WithContext(ctx).Preload("Tags").First(&photo, id).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *GormRepo) ListPhotosByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.Photo, error) {
	var photos []models.Photo
	if err := r.DB.WithContext(ctx).Preload("Tags").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *GormRepo) UpdatePhotoDescription(ctx context.Context, id uint, description string) error {
	return r.DB.WithContext(ctx).Model(&models.Photo{}).
		Where("id = ?", id).
		Update("description", description).Error
}

func (r *GormRepo) DeletePhoto(ctx context.Context, p *models.Photo) error {
	if err := r.DB.WithContext(ctx).Model(p).Association("Tags").Clear(); err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Where("photo_id = ?", p.ID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Delete(p).Error
}

// UpsertTags resolves tag names to rows, creating missing ones.
func (r *GormRepo) UpsertTags(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		if err := r.DB.WithContext(ctx).
			Where("name = ?", name).
			FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

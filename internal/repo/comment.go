package repo

import (
	"context"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/models"
)

func (r *GormRepo) CreateComment(ctx context.Context, c *models.Comment) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.DB.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *GormRepo) UpdateCommentText(ctx context.Context, id uint, text string) error {
	return r.DB.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		Update("text", text).Error
}

func (r *GormRepo) DeleteComment(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Comment{}, id).Error
}

func (r *GormRepo) ListCommentsByPhoto(ctx context.Context, photoID uint, limit, offset int) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.DB.WithContext(ctx).
		Where("photo_id = ?", photoID).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *GormRepo) ListCommentsByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

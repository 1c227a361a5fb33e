package repo

import (
	"context"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/models"
)

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

// SetRefreshToken overwrites the stored refresh token. A nil token clears
// it, which invalidates every outstanding refresh token for the user.
func (r *GormRepo) SetRefreshToken(ctx context.Context, userID uint, token *string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("refresh_token", token).Error
}

func (r *GormRepo) SetRole(ctx context.Context, userID uint, role models.Role) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", role).Error
}

func (r *GormRepo) SetBlocked(ctx context.Context, userID uint, blocked bool) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_blocked", blocked).Error
}

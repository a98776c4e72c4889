package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

type UserRepo struct {
	DB *gorm.DB
}

func (r *UserRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *UserRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Role feeds the auth middleware.
func (r *UserRepo) Role(ctx context.Context, id uuid.UUID) (string, error) {
	var roles []string
	err := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Limit(1).Pluck("role", &roles).Error
	if err != nil {
		return "", err
	}
	if len(roles) == 0 {
		return "", gorm.ErrRecordNotFound
	}
	return roles[0], nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, name, tel, address string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]any{
		"name":    name,
		"tel":     tel,
		"address": address,
	})
	return res.RowsAffected, res.Error
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	return res.RowsAffected, res.Error
}

func (r *UserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	return res.RowsAffected, res.Error
}

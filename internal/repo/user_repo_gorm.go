package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go-blog-api/internal/apperr"
	"go-blog-api/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDupKey(err) {
			// 并发注册兜底：唯一索引冲突归一为业务重复错误
			return apperr.Duplicate("username or email already taken")
		}
		return err
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		First(&u, "username = ? OR email = ?", username, strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, q string, offset, limit int, withDeleted bool) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if withDeleted {
		tx = tx.Unscoped()
	}
	if s := strings.TrimSpace(q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("username LIKE ? OR email LIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := tx.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

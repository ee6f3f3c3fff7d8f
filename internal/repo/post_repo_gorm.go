package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-blog-api/internal/domain"
)

type PostRepo struct{ db *gorm.DB }

func NewPostRepo(db *gorm.DB) *PostRepo { return &PostRepo{db: db} }

func (r *PostRepo) withAggregate(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Comments.Author").
		Preload("Likes")
}

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	// Author 已经预加载在聚合上，不重复写 users 表
	return r.db.WithContext(ctx).Omit("Author").Create(p).Error
}

func (r *PostRepo) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	var p domain.Post
	err := r.withAggregate(r.db.WithContext(ctx)).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepo) ListAll(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	err := r.withAggregate(r.db.WithContext(ctx)).
		Order("created_at desc").Find(&posts).Error
	return posts, err
}

func (r *PostRepo) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	var posts []domain.Post
	err := r.withAggregate(r.db.WithContext(ctx)).
		Where("author_id = ?", authorID).
		Order("created_at desc").Find(&posts).Error
	return posts, err
}

func (r *PostRepo) Update(ctx context.Context, p *domain.Post) error {
	return r.db.WithContext(ctx).Model(&domain.Post{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"title":      p.Title,
			"content":    p.Content,
			"updated_at": p.UpdatedAt,
		}).Error
}

func (r *PostRepo) Delete(ctx context.Context, p *domain.Post) error {
	// 聚合是原子单元：帖子、评论、点赞同生共死
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", p.ID).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", p.ID).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Post{}, "id = ?", p.ID).Error
	})
}

func (r *PostRepo) SetLiked(ctx context.Context, p *domain.Post, userID string, liked bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if liked {
			like := domain.Like{PostID: p.ID, UserID: userID, CreatedAt: p.UpdatedAt}
			if err := tx.Create(&like).Error; err != nil && !isDupKey(err) {
				return err
			}
		} else {
			if err := tx.Where("post_id = ? AND user_id = ?", p.ID, userID).
				Delete(&domain.Like{}).Error; err != nil {
				return err
			}
		}
		return touchPost(tx, p)
	})
}

func (r *PostRepo) AddComment(ctx context.Context, p *domain.Post, c *domain.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author").Create(c).Error; err != nil {
			return err
		}
		return touchPost(tx, p)
	})
}

func (r *PostRepo) RemoveComment(ctx context.Context, p *domain.Post, commentID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND post_id = ?", commentID, p.ID).Delete(&domain.Comment{})
		if res.Error != nil {
			return res.Error
		}
		return touchPost(tx, p)
	})
}

func touchPost(tx *gorm.DB, p *domain.Post) error {
	return tx.Model(&domain.Post{}).
		Where("id = ?", p.ID).
		Update("updated_at", p.UpdatedAt).Error
}

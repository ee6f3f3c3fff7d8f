package domain

import "context"

// 仓储端口；gorm 实现见 internal/repo，内存实现见 internal/repo/memory。
// 约定：查询未命中返回 (nil, nil)，错误只代表存储故障。

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)
	List(ctx context.Context, q string, offset, limit int, withDeleted bool) ([]User, int64, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
}

type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	// FindByID 装载整个聚合：作者、评论（含作者）、点赞
	FindByID(ctx context.Context, id string) (*Post, error)
	ListAll(ctx context.Context) ([]Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]Post, error)
	// Update 持久化 title/content/updated_at
	Update(ctx context.Context, p *Post) error
	// Delete 同一事务内级联删除评论与点赞
	Delete(ctx context.Context, p *Post) error
	// SetLiked 点赞集合的原子增删，同时推进 updated_at
	SetLiked(ctx context.Context, p *Post, userID string, liked bool) error
	AddComment(ctx context.Context, p *Post, c *Comment) error
	RemoveComment(ctx context.Context, p *Post, commentID string) error
}

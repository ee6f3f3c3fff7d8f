// Package memory 提供端口的内存实现，供测试和无数据库的本地开发使用。
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go-blog-api/internal/apperr"
	"go-blog-api/internal/domain"
)

type UserRepo struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	deleted map[string]time.Time
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		users:   make(map[string]*domain.User),
		deleted: make(map[string]time.Time),
	}
}

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	return &cp
}

func (r *UserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.users {
		if ex.Username == u.Username || ex.Email == u.Email {
			return apperr.Duplicate("username or email already taken")
		}
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	if _, banned := r.deleted[id]; banned {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, u := range r.users {
		if _, banned := r.deleted[id]; banned {
			continue
		}
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(email)
	for id, u := range r.users {
		if _, banned := r.deleted[id]; banned {
			continue
		}
		if u.Username == username || u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(_ context.Context, q string, offset, limit int, withDeleted bool) ([]domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.User
	q = strings.ToLower(strings.TrimSpace(q))
	for id, u := range r.users {
		if _, banned := r.deleted[id]; banned && !withDeleted {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(u.Username), q) &&
			!strings.Contains(strings.ToLower(u.Email), q) {
			continue
		}
		out = append(out, *cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *UserRepo) SoftDelete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	if _, banned := r.deleted[id]; banned {
		return false, nil
	}
	r.deleted[id] = time.Now()
	return true, nil
}

type PostRepo struct {
	mu    sync.RWMutex
	posts map[string]*domain.Post
	users *UserRepo // 装载作者快照
}

func NewPostRepo(users *UserRepo) *PostRepo {
	return &PostRepo{posts: make(map[string]*domain.Post), users: users}
}

func clonePost(p *domain.Post) *domain.Post {
	cp := *p
	cp.Comments = append([]domain.Comment(nil), p.Comments...)
	cp.Likes = append([]domain.Like(nil), p.Likes...)
	return &cp
}

func (r *PostRepo) hydrate(p *domain.Post) *domain.Post {
	out := clonePost(p)
	if r.users != nil {
		if a, _ := r.users.FindByID(context.Background(), out.AuthorID); a != nil {
			out.Author = *a
		}
		for i := range out.Comments {
			if a, _ := r.users.FindByID(context.Background(), out.Comments[i].AuthorID); a != nil {
				out.Comments[i].Author = *a
			}
		}
	}
	return out
}

func (r *PostRepo) Create(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[p.ID] = clonePost(p)
	return nil
}

func (r *PostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	return r.hydrate(p), nil
}

func (r *PostRepo) list(filter func(*domain.Post) bool) []domain.Post {
	var out []domain.Post
	for _, p := range r.posts {
		if filter == nil || filter(p) {
			out = append(out, *r.hydrate(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *PostRepo) ListAll(_ context.Context) ([]domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list(nil), nil
}

func (r *PostRepo) ListByAuthor(_ context.Context, authorID string) ([]domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list(func(p *domain.Post) bool { return p.AuthorID == authorID }), nil
}

func (r *PostRepo) Update(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[p.ID]
	if !ok {
		return apperr.NotFound("post not found")
	}
	stored.Title = p.Title
	stored.Content = p.Content
	stored.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *PostRepo) Delete(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, p.ID)
	return nil
}

func (r *PostRepo) SetLiked(_ context.Context, p *domain.Post, userID string, liked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[p.ID]
	if !ok {
		return apperr.NotFound("post not found")
	}
	for i, l := range stored.Likes {
		if l.UserID == userID {
			if !liked {
				stored.Likes = append(stored.Likes[:i], stored.Likes[i+1:]...)
			}
			stored.UpdatedAt = p.UpdatedAt
			return nil
		}
	}
	if liked {
		stored.Likes = append(stored.Likes, domain.Like{PostID: p.ID, UserID: userID, CreatedAt: time.Now()})
	}
	stored.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *PostRepo) AddComment(_ context.Context, p *domain.Post, c *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[p.ID]
	if !ok {
		return apperr.NotFound("post not found")
	}
	stored.Comments = append(stored.Comments, *c)
	stored.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *PostRepo) RemoveComment(_ context.Context, p *domain.Post, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[p.ID]
	if !ok {
		return apperr.NotFound("post not found")
	}
	for i := range stored.Comments {
		if stored.Comments[i].ID == commentID {
			stored.Comments = append(stored.Comments[:i], stored.Comments[i+1:]...)
			break
		}
	}
	stored.UpdatedAt = p.UpdatedAt
	return nil
}

package service

import (
	"context"
	"time"

	"go-blog-api/internal/apperr"
	"go-blog-api/internal/core/cache"
	"go-blog-api/internal/domain"
)

type PostService struct {
	posts   domain.PostRepository
	cache   *cache.Cache
	postTTL time.Duration
}

func NewPostService(posts domain.PostRepository, c *cache.Cache, postTTL time.Duration) *PostService {
	if postTTL <= 0 {
		postTTL = 30 * time.Second
	}
	return &PostService{posts: posts, cache: c, postTTL: postTTL}
}

func postCacheKey(id string) string { return "post:" + id }

// load 统一的存在性检查：404 优先于鉴权与入参校验
func (s *PostService) load(ctx context.Context, id string) (*domain.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Store("fetch post failed", err)
	}
	if p == nil {
		return nil, apperr.NotFound("post not found")
	}
	return p, nil
}

func (s *PostService) List(ctx context.Context, viewer *domain.User) ([]*PostDTO, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, apperr.Store("list posts failed", err)
	}
	out := make([]*PostDTO, 0, len(posts))
	for i := range posts {
		out = append(out, toPostDTO(&posts[i], viewer))
	}
	return out, nil
}

func (s *PostService) Get(ctx context.Context, id string, viewer *domain.User) (*PostDTO, error) {
	// isLiked 因人而异，只有匿名视图可以走缓存
	if viewer == nil && s.cache.Enabled() {
		dto, err := cache.GetOrLoadJSON[PostDTO](s.cache, ctx, postCacheKey(id), s.postTTL,
			func(ctx context.Context) (*PostDTO, error) {
				p, err := s.load(ctx, id)
				if err != nil {
					return nil, err
				}
				return toPostDTO(p, nil), nil
			})
		if err != nil {
			return nil, err
		}
		return dto, nil
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPostDTO(p, viewer), nil
}

func (s *PostService) ListMine(ctx context.Context, viewer *domain.User) ([]*PostDTO, error) {
	posts, err := s.posts.ListByAuthor(ctx, viewer.ID)
	if err != nil {
		return nil, apperr.Store("list posts failed", err)
	}
	out := make([]*PostDTO, 0, len(posts))
	for i := range posts {
		out = append(out, toPostDTO(&posts[i], viewer))
	}
	return out, nil
}

func (s *PostService) Create(ctx context.Context, author *domain.User, title, content string) (*PostDTO, error) {
	p, err := domain.NewPost(author, title, content)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, apperr.Store("create post failed", err)
	}
	return toPostDTO(p, author), nil
}

func (s *PostService) Update(ctx context.Context, actor *domain.User, id string, title, content *string) (*PostDTO, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanEditPost(actor, p) {
		return nil, apperr.Forbidden("not authorized to edit this post")
	}
	if err := p.ApplyUpdate(title, content); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, p); err != nil {
		return nil, apperr.Store("update post failed", err)
	}
	s.cache.Invalidate(ctx, postCacheKey(id))
	return toPostDTO(p, actor), nil
}

func (s *PostService) Delete(ctx context.Context, actor *domain.User, id string) error {
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanDeletePost(actor, p) {
		return apperr.Forbidden("not authorized to delete this post")
	}
	if err := s.posts.Delete(ctx, p); err != nil {
		return apperr.Store("delete post failed", err)
	}
	s.cache.Invalidate(ctx, postCacheKey(id))
	return nil
}

func (s *PostService) ToggleLike(ctx context.Context, actor *domain.User, id string) (*LikeResult, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	liked := p.ToggleLike(actor.ID)
	if err := s.posts.SetLiked(ctx, p, actor.ID, liked); err != nil {
		return nil, apperr.Store("toggle like failed", err)
	}
	s.cache.Invalidate(ctx, postCacheKey(id))
	msg := "Post unliked"
	if liked {
		msg = "Post liked"
	}
	return &LikeResult{Message: msg, IsLiked: liked, LikeCount: p.LikeCount()}, nil
}

func (s *PostService) AddComment(ctx context.Context, actor *domain.User, id, content string) (*CommentDTO, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := p.AddComment(actor.ID, content)
	if err != nil {
		return nil, err
	}
	c.Author = *actor
	if err := s.posts.AddComment(ctx, p, c); err != nil {
		return nil, apperr.Store("add comment failed", err)
	}
	s.cache.Invalidate(ctx, postCacheKey(id))
	dto := toCommentDTO(c)
	return &dto, nil
}

func (s *PostService) RemoveComment(ctx context.Context, actor *domain.User, postID, commentID string) error {
	p, err := s.load(ctx, postID)
	if err != nil {
		return err
	}
	c := p.FindComment(commentID)
	if c == nil {
		return apperr.NotFound("comment not found")
	}
	if !domain.CanDeleteComment(actor, c) {
		return apperr.Forbidden("not authorized to delete this comment")
	}
	p.RemoveComment(commentID)
	if err := s.posts.RemoveComment(ctx, p, commentID); err != nil {
		return apperr.Store("remove comment failed", err)
	}
	s.cache.Invalidate(ctx, postCacheKey(postID))
	return nil
}

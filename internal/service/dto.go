package service

import (
	"time"

	"go-blog-api/internal/domain"
)

// 出参 DTO：对外只暴露 id 字符串与身份快照，密码散列永远不出服务层。

type UserDTO struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName,omitempty"`
	Avatar      string      `json:"avatar,omitempty"`
	Bio         string      `json:"bio,omitempty"`
	Role        domain.Role `json:"role"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type CommentDTO struct {
	ID        string              `json:"id"`
	Author    domain.UserSnapshot `json:"author"`
	Content   string              `json:"content"`
	CreatedAt time.Time           `json:"createdAt"`
}

type PostDTO struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Content      string              `json:"content"`
	Author       domain.UserSnapshot `json:"author"`
	Likes        []string            `json:"likes"`
	Comments     []CommentDTO        `json:"comments"`
	LikeCount    int                 `json:"likeCount"`
	CommentCount int                 `json:"commentCount"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	IsLiked      *bool               `json:"isLiked,omitempty"`
}

type LikeResult struct {
	Message   string `json:"message"`
	IsLiked   bool   `json:"isLiked"`
	LikeCount int    `json:"likeCount"`
}

func toUserDTO(u *domain.User) *UserDTO {
	return &UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
		Bio:         u.Bio,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
	}
}

func toCommentDTO(c *domain.Comment) CommentDTO {
	return CommentDTO{
		ID:        c.ID,
		Author:    c.Author.Snapshot(),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

// toPostDTO viewer 为 nil 时不带 isLiked 字段
func toPostDTO(p *domain.Post, viewer *domain.User) *PostDTO {
	dto := &PostDTO{
		ID:           p.ID,
		Title:        p.Title,
		Content:      p.Content,
		Author:       p.Author.Snapshot(),
		Likes:        make([]string, 0, len(p.Likes)),
		Comments:     make([]CommentDTO, 0, len(p.Comments)),
		LikeCount:    p.LikeCount(),
		CommentCount: p.CommentCount(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	for _, l := range p.Likes {
		dto.Likes = append(dto.Likes, l.UserID)
	}
	for i := range p.Comments {
		dto.Comments = append(dto.Comments, toCommentDTO(&p.Comments[i]))
	}
	if viewer != nil {
		liked := p.IsLikedBy(viewer.ID)
		dto.IsLiked = &liked
	}
	return dto
}

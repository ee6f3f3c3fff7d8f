package domain

import (
	"strings"
	"time"

	"go-blog-api/internal/apperr"
	"go-blog-api/pkg/utils"
)

const (
	MaxTitleLen   = 200
	MaxContentLen = 10000
	MaxCommentLen = 1000
)

// Post 聚合根：评论与点赞只能通过它的方法变更
type Post struct {
	ID       string `gorm:"primaryKey;size:36"`
	Title    string `gorm:"size:200;not null"`
	Content  string `gorm:"size:10000;not null"`
	AuthorID string `gorm:"size:36;not null;index"`
	Author   User   `gorm:"foreignKey:AuthorID"`

	Comments []Comment `gorm:"foreignKey:PostID"`
	Likes    []Like    `gorm:"foreignKey:PostID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Post) TableName() string { return "posts" }

type Comment struct {
	ID       string `gorm:"primaryKey;size:36"`
	PostID   string `gorm:"size:36;not null;index"`
	AuthorID string `gorm:"size:36;not null"`
	Author   User   `gorm:"foreignKey:AuthorID"`
	Content  string `gorm:"size:1000;not null"`

	CreatedAt time.Time
}

func (Comment) TableName() string { return "comments" }

// Like (post_id, user_id) 复合主键，集合语义由存储层保证
type Like struct {
	PostID    string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
}

func (Like) TableName() string { return "likes" }

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperr.Validation("title is required")
	}
	if len(title) > MaxTitleLen {
		return "", apperr.Validation("title too long")
	}
	return title, nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperr.Validation("content is required")
	}
	if len(content) > MaxContentLen {
		return "", apperr.Validation("content too long")
	}
	return content, nil
}

func NewPost(author *User, title, content string) (*Post, error) {
	t, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	c, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Post{
		ID:        utils.NewID(),
		Title:     t,
		Content:   c,
		AuthorID:  author.ID,
		Author:    *author,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyUpdate 只更新显式给出的字段；给了空串视为非法输入而不是“清空”
func (p *Post) ApplyUpdate(title, content *string) error {
	newTitle, newContent := p.Title, p.Content
	if title != nil {
		t, err := validateTitle(*title)
		if err != nil {
			return err
		}
		newTitle = t
	}
	if content != nil {
		c, err := validateContent(*content)
		if err != nil {
			return err
		}
		newContent = c
	}
	p.Title, p.Content = newTitle, newContent
	p.Touch(time.Now())
	return nil
}

func (p *Post) IsLikedBy(userID string) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

func (p *Post) LikeCount() int    { return len(p.Likes) }
func (p *Post) CommentCount() int { return len(p.Comments) }

// ToggleLike 已点赞则取消，否则点赞；返回操作后的状态
func (p *Post) ToggleLike(userID string) bool {
	for i, l := range p.Likes {
		if l.UserID == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			p.Touch(time.Now())
			return false
		}
	}
	p.Likes = append(p.Likes, Like{PostID: p.ID, UserID: userID, CreatedAt: time.Now()})
	p.Touch(time.Now())
	return true
}

func (p *Post) AddComment(authorID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("comment content is required")
	}
	if len(content) > MaxCommentLen {
		return nil, apperr.Validation("comment too long")
	}
	now := time.Now()
	p.Comments = append(p.Comments, Comment{
		ID:        utils.NewID(),
		PostID:    p.ID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
	})
	p.Touch(now)
	return &p.Comments[len(p.Comments)-1], nil
}

func (p *Post) FindComment(commentID string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}

func (p *Post) RemoveComment(commentID string) bool {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			p.Touch(time.Now())
			return true
		}
	}
	return false
}

// Touch updatedAt 只前进不回退
func (p *Post) Touch(now time.Time) {
	if now.After(p.UpdatedAt) {
		p.UpdatedAt = now
	}
}

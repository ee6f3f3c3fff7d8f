package domain

// 授权判定为纯函数：存在性检查在外层先行，这里只回答“能不能”。

func CanEditPost(u *User, p *Post) bool {
	return u != nil && u.ID == p.AuthorID
}

func CanDeletePost(u *User, p *Post) bool {
	return u != nil && (u.ID == p.AuthorID || u.IsAdmin())
}

// CanDeleteComment 只有评论作者本人可删，管理员也不例外
func CanDeleteComment(u *User, c *Comment) bool {
	return u != nil && u.ID == c.AuthorID
}

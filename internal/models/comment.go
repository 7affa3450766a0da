package models

import "time"

// Comment represents a comment on a post or project. An actor may leave any
// number of comments on the same content.
type Comment struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	UserID      uint        `json:"user_id" gorm:"index"`
	ContentKind ContentKind `json:"content_kind" gorm:"size:10;index:idx_comment_content"`
	ContentID   uint        `json:"content_id" gorm:"index:idx_comment_content"`
	Body        string      `json:"content"`
	LikeCount   int         `json:"like_count" gorm:"default:0"`
	CreatedAt   time.Time   `json:"created_at"`
}

// CommentReply belongs to exactly one comment and is removed with it.
type CommentReply struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CommentID uint      `json:"comment_id" gorm:"index"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Body      string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentLike represents a like on a comment, unique per (comment, user)
type CommentLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CommentID uint      `json:"comment_id" gorm:"index;uniqueIndex:idx_comment_user_like"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_comment_user_like"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest defines the request body for commenting on content
type CreateCommentRequest struct {
	Type    string `json:"type" validate:"required,oneof=post project"`
	ID      uint   `json:"id" validate:"required"`
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// CreateReplyRequest defines the request body for replying to a comment
type CreateReplyRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// CommentLikeRequest defines the request body for toggling a comment like
type CommentLikeRequest struct {
	CommentID uint `json:"comment_id" validate:"required"`
}

// CommentView is one listed comment with its replies and the requesting
// actor's like flag.
type CommentView struct {
	ID        uint        `json:"id"`
	Content   string      `json:"content"`
	LikeCount int         `json:"like_count"`
	IsLiked   bool        `json:"is_liked"`
	CreatedAt time.Time   `json:"created_at"`
	User      UserCompact `json:"user"`
	Replies   []ReplyView `json:"replies"`
}

type ReplyView struct {
	ID        uint        `json:"id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	User      UserCompact `json:"user"`
}

type UserCompact struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Pagination mirrors the list envelope the frontend consumes.
type Pagination struct {
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

package models

import (
	"fmt"
	"time"
)

// ContentKind discriminates the two likeable content types.
type ContentKind string

const (
	KindPost    ContentKind = "post"
	KindProject ContentKind = "project"
)

func ParseContentKind(s string) (ContentKind, error) {
	switch ContentKind(s) {
	case KindPost, KindProject:
		return ContentKind(s), nil
	default:
		return "", fmt.Errorf("unknown content kind %q", s)
	}
}

// ContentRef identifies one post or project. It is resolved once at the
// request boundary and threaded through services as a typed value.
type ContentRef struct {
	Kind ContentKind
	ID   uint
}

func (r ContentRef) URL() string {
	if r.Kind == KindProject {
		return fmt.Sprintf("/projects/%d", r.ID)
	}
	return fmt.Sprintf("/blog/post/%d", r.ID)
}

// ContentInfo is the read model handed to services. The four counters are
// written only through the aggregate maintainer.
type ContentInfo struct {
	Ref           ContentRef `json:"-"`
	AuthorID      uint       `json:"author_id"`
	Title         string     `json:"title"`
	LikeCount     int        `json:"like_count"`
	FavoriteCount int        `json:"favorite_count"`
	CommentCount  int        `json:"comment_count"`
	AverageRating float64    `json:"average_rating"`
}

// Post represents a blog post
type Post struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	AuthorID      uint      `json:"author_id" gorm:"index"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	LikeCount     int       `json:"like_count" gorm:"default:0"`
	FavoriteCount int       `json:"favorite_count" gorm:"default:0"`
	CommentCount  int       `json:"comment_count" gorm:"default:0"`
	AverageRating float64   `json:"average_rating" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Project represents a portfolio project
type Project struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	AuthorID      uint      `json:"author_id" gorm:"index"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	RepoURL       string    `json:"repo_url"`
	LikeCount     int       `json:"like_count" gorm:"default:0"`
	FavoriteCount int       `json:"favorite_count" gorm:"default:0"`
	CommentCount  int       `json:"comment_count" gorm:"default:0"`
	AverageRating float64   `json:"average_rating" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

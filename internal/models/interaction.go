package models

import "time"

// UserInteraction holds one actor's like/favorite/rating state for one piece
// of content. At most one row per (user_id, content_kind, content_id); rows
// are created on the first action and mutated in place, never deleted.
type UserInteraction struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	UserID      uint        `json:"user_id" gorm:"index;uniqueIndex:idx_user_content"`
	ContentKind ContentKind `json:"content_kind" gorm:"size:10;uniqueIndex:idx_user_content"`
	ContentID   uint        `json:"content_id" gorm:"index;uniqueIndex:idx_user_content"`
	Liked       bool        `json:"liked" gorm:"default:false"`
	Favorited   bool        `json:"favorited" gorm:"default:false"`
	Rating      int         `json:"rating" gorm:"default:0"` // 1..5, 0 means no rating
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ToggleRequest defines the request body for like/favorite toggles
type ToggleRequest struct {
	Type string `json:"type" validate:"required,oneof=post project"`
	ID   uint   `json:"id" validate:"required"`
}

// RatingRequest defines the request body for saving a star rating
type RatingRequest struct {
	Type   string `json:"type" validate:"required,oneof=post project"`
	ID     uint   `json:"id" validate:"required"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
}

// InteractionStatus is the per-actor read model for one piece of content.
type InteractionStatus struct {
	IsLiked     bool `json:"is_liked"`
	IsFavorited bool `json:"is_favorited"`
	UserRating  *int `json:"user_rating"`
}

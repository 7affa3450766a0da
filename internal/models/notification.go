package models

import "time"

// Notification types produced by the dispatcher.
const (
	NotificationComment      = "comment"
	NotificationReply        = "reply"
	NotificationLike         = "like"
	NotificationFavorite     = "favorite"
	NotificationRating       = "rating"
	NotificationMessageReply = "message_reply"
)

// Notification is derived from interaction events; it is only ever created as
// a side effect of another mutation and shares that mutation's transaction.
type Notification struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	RecipientID uint       `json:"-" gorm:"index"`
	Type        string     `json:"type" gorm:"size:30;index"`
	Title       string     `json:"title" gorm:"size:200"`
	Body        string     `json:"content"`
	RelatedKind string     `json:"related_type" gorm:"size:20"`
	RelatedID   uint       `json:"related_id"`
	RelatedURL  string     `json:"related_url" gorm:"size:500"`
	SenderID    uint       `json:"-" gorm:"index"`
	SenderName  string     `json:"sender_name" gorm:"size:100"`
	IsRead      bool       `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	ReadAt      *time.Time `json:"read_at"`
}

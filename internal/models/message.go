package models

import "time"

// Message states. A message starts unread; viewing moves it to read; the
// first reply moves it to replied and any further reply to in_conversation;
// deleting replies regresses it (never back to unread). Archived is terminal.
const (
	MessageUnread         = "unread"
	MessageRead           = "read"
	MessageReplied        = "replied"
	MessageInConversation = "in_conversation"
	MessageArchived       = "archived"
)

// Message is a contact-form submission.
type Message struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Reference string     `json:"reference" gorm:"size:36;uniqueIndex"`
	UserID    *uint      `json:"user_id" gorm:"index"` // set when the sender was signed in
	Name      string     `json:"name" gorm:"size:100"`
	Email     string     `json:"email" gorm:"size:120"`
	Subject   string     `json:"subject" gorm:"size:200"`
	Body      string     `json:"message"`
	Status    string     `json:"status" gorm:"size:20;default:'unread';index"`
	IPAddress string     `json:"-" gorm:"size:45"`
	UserAgent string     `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at"`
	RepliedAt *time.Time `json:"replied_at"`
}

// MessageReply is one reply in a contact-message conversation.
type MessageReply struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	MessageID   uint      `json:"message_id" gorm:"index"`
	Body        string    `json:"content"`
	SenderName  string    `json:"sender_name" gorm:"size:100"`
	SenderEmail string    `json:"sender_email" gorm:"size:120"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateMessageRequest defines the contact form payload
type CreateMessageRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=1,max=200"`
	Message string `json:"message" validate:"required,min=1"`
}

// CreateMessageReplyRequest defines the admin reply payload
type CreateMessageReplyRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

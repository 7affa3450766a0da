package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/liuwei-h/personal-site/backend/internal/apperr"
	"github.com/liuwei-h/personal-site/backend/internal/models"
	"github.com/liuwei-h/personal-site/backend/internal/repositories"
	"github.com/liuwei-h/personal-site/backend/pkg/logger"
	"gorm.io/gorm"
)

// MessageService owns contact messages and their state machine:
// unread -> read -> replied -> in_conversation, with archived reachable from
// anywhere and terminal. Deleting replies regresses the state but never back
// to unread.
type MessageService struct {
	db            *gorm.DB
	messages      repositories.MessageRepository
	notifications *NotificationService
	log           *logger.Logger
}

func NewMessageService(db *gorm.DB, messages repositories.MessageRepository, notifications *NotificationService, log *logger.Logger) *MessageService {
	return &MessageService{db: db, messages: messages, notifications: notifications, log: log}
}

// Receive stores a contact-form submission in the unread state.
func (s *MessageService) Receive(ctx context.Context, req models.CreateMessageRequest, userID *uint, ip, userAgent string) (*models.Message, error) {
	message := &models.Message{
		Reference: uuid.NewString(),
		UserID:    userID,
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Body:      req.Message,
		Status:    models.MessageUnread,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := s.messages.WithTx(s.db.WithContext(ctx)).Create(message); err != nil {
		return nil, err
	}
	s.log.Info("received contact message", "message_id", message.ID, "subject", message.Subject)
	return message, nil
}

type MessageDetail struct {
	Message *models.Message
	Replies []models.MessageReply
}

// View returns the message with its conversation and moves unread to read.
func (s *MessageService) View(ctx context.Context, id uint) (*MessageDetail, error) {
	var detail MessageDetail
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.messages.WithTx(tx)
		message, err := s.getForUpdate(repo, id)
		if err != nil {
			return err
		}

		if message.Status == models.MessageUnread {
			now := time.Now()
			message.Status = models.MessageRead
			if message.ReadAt == nil {
				message.ReadAt = &now
			}
			if err := repo.Save(message); err != nil {
				return err
			}
		}

		replies, err := repo.RepliesFor(message.ID)
		if err != nil {
			return err
		}
		detail = MessageDetail{Message: message, Replies: replies}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// AddReply appends a reply to the conversation. The first reply moves the
// message to replied; any further reply to in_conversation. An archived
// message stores the reply but keeps its state.
func (s *MessageService) AddReply(ctx context.Context, actor models.Actor, messageID uint, body string) (*models.MessageReply, error) {
	var reply *models.MessageReply
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.messages.WithTx(tx)
		message, err := s.getForUpdate(repo, messageID)
		if err != nil {
			return err
		}

		reply = &models.MessageReply{
			MessageID:  message.ID,
			Body:       body,
			SenderName: actor.Name,
		}
		if err := repo.CreateReply(reply); err != nil {
			return err
		}

		count, err := repo.CountReplies(message.ID)
		if err != nil {
			return err
		}
		if message.Status != models.MessageArchived {
			if count <= 1 {
				message.Status = models.MessageReplied
			} else {
				message.Status = models.MessageInConversation
			}
		}
		if message.RepliedAt == nil {
			now := time.Now()
			message.RepliedAt = &now
		}
		if err := repo.Save(message); err != nil {
			return err
		}

		if message.UserID != nil {
			n := ForMessageReply(actor, *message.UserID, message.ID, message.Subject)
			if err := s.notifications.Dispatch(tx, n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// DeleteReply removes one reply and regresses the message state: no replies
// left means read (never unread), one means replied.
func (s *MessageService) DeleteReply(ctx context.Context, replyID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.messages.WithTx(tx)
		reply, err := repo.GetReplyByID(replyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("reply not found")
			}
			return err
		}

		message, err := s.getForUpdate(repo, reply.MessageID)
		if err != nil {
			return err
		}
		if err := repo.DeleteReply(reply.ID); err != nil {
			return err
		}

		count, err := repo.CountReplies(message.ID)
		if err != nil {
			return err
		}
		if message.Status != models.MessageArchived {
			switch {
			case count == 0:
				message.Status = models.MessageRead
			case count == 1:
				message.Status = models.MessageReplied
			}
		}
		if count == 0 {
			message.RepliedAt = nil
		}
		return repo.Save(message)
	})
}

// Archive moves the message to the terminal archived state.
func (s *MessageService) Archive(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.messages.WithTx(tx)
		message, err := s.getForUpdate(repo, id)
		if err != nil {
			return err
		}
		message.Status = models.MessageArchived
		return repo.Save(message)
	})
}

// Delete removes the message and its conversation.
func (s *MessageService) Delete(ctx context.Context, id uint) error {
	repo := s.messages.WithTx(s.db.WithContext(ctx))
	if _, err := repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("message not found")
		}
		return err
	}
	return repo.Delete(id)
}

// List returns one page of messages, newest first, optionally by status.
func (s *MessageService) List(ctx context.Context, statusFilter string, page, limit int) ([]models.Message, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	messages, total, err := s.messages.WithTx(s.db.WithContext(ctx)).List(statusFilter, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return messages, paginate(page, limit, total), nil
}

func (s *MessageService) getForUpdate(repo repositories.MessageRepository, id uint) (*models.Message, error) {
	message, err := repo.GetForUpdate(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("message not found")
		}
		return nil, err
	}
	return message, nil
}

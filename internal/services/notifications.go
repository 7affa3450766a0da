package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/liuwei-h/personal-site/backend/internal/apperr"
	"github.com/liuwei-h/personal-site/backend/internal/models"
	"github.com/liuwei-h/personal-site/backend/internal/repositories"
	"github.com/liuwei-h/personal-site/backend/pkg/logger"
	"gorm.io/gorm"
)

const notificationExcerptLen = 100

// NotificationService derives notification rows from interaction events and
// owns the recipient-scoped read operations.
type NotificationService struct {
	db            *gorm.DB
	notifications repositories.NotificationRepository
	log           *logger.Logger
}

func NewNotificationService(db *gorm.DB, notifications repositories.NotificationRepository, log *logger.Logger) *NotificationService {
	return &NotificationService{db: db, notifications: notifications, log: log}
}

// Dispatch persists the notification inside the caller's transaction. Actions
// on one's own content never notify; the skip is silent because it is the
// expected path for authors interacting with their own pages.
func (s *NotificationService) Dispatch(tx *gorm.DB, n *models.Notification) error {
	if n == nil {
		return nil
	}
	if n.SenderID == n.RecipientID {
		return nil
	}
	return s.notifications.WithTx(tx).Create(n)
}

// ForComment builds the notification for a new comment on content.
func ForComment(actor models.Actor, content *models.ContentInfo, body string) *models.Notification {
	return &models.Notification{
		RecipientID: content.AuthorID,
		Type:        models.NotificationComment,
		Title:       fmt.Sprintf("%s commented on your %s", actor.Name, content.Ref.Kind),
		Body:        excerpt(body),
		RelatedKind: string(content.Ref.Kind),
		RelatedID:   content.Ref.ID,
		RelatedURL:  content.Ref.URL(),
		SenderID:    actor.ID,
		SenderName:  actor.Name,
	}
}

// ForReply builds the notification for a reply to a comment.
func ForReply(actor models.Actor, commentOwnerID, commentID uint, ref models.ContentRef, body string) *models.Notification {
	return &models.Notification{
		RecipientID: commentOwnerID,
		Type:        models.NotificationReply,
		Title:       fmt.Sprintf("%s replied to your comment", actor.Name),
		Body:        excerpt(body),
		RelatedKind: "comment",
		RelatedID:   commentID,
		RelatedURL:  fmt.Sprintf("%s#comment-%d", ref.URL(), commentID),
		SenderID:    actor.ID,
		SenderName:  actor.Name,
	}
}

// ForLike builds the notification for a content like.
func ForLike(actor models.Actor, content *models.ContentInfo) *models.Notification {
	return &models.Notification{
		RecipientID: content.AuthorID,
		Type:        models.NotificationLike,
		Title:       fmt.Sprintf("%s liked your %s", actor.Name, content.Ref.Kind),
		Body:        fmt.Sprintf("%q", content.Title),
		RelatedKind: string(content.Ref.Kind),
		RelatedID:   content.Ref.ID,
		RelatedURL:  content.Ref.URL(),
		SenderID:    actor.ID,
		SenderName:  actor.Name,
	}
}

// ForCommentLike builds the notification for a like on a comment.
func ForCommentLike(actor models.Actor, commentOwnerID, commentID uint, ref models.ContentRef) *models.Notification {
	return &models.Notification{
		RecipientID: commentOwnerID,
		Type:        models.NotificationLike,
		Title:       fmt.Sprintf("%s liked your comment", actor.Name),
		RelatedKind: "comment",
		RelatedID:   commentID,
		RelatedURL:  fmt.Sprintf("%s#comment-%d", ref.URL(), commentID),
		SenderID:    actor.ID,
		SenderName:  actor.Name,
	}
}

// ForFavorite builds the notification for a content favorite.
func ForFavorite(actor models.Actor, content *models.ContentInfo) *models.Notification {
	return &models.Notification{
		RecipientID: content.AuthorID,
		Type:        models.NotificationFavorite,
		Title:       fmt.Sprintf("%s favorited your %s", actor.Name, content.Ref.Kind),
		Body:        fmt.Sprintf("%q", content.Title),
		RelatedKind: string(content.Ref.Kind),
		RelatedID:   content.Ref.ID,
		RelatedURL:  content.Ref.URL(),
		SenderID:    actor.ID,
		SenderName:  actor.Name,
	}
}

// ForRating builds the notification for a star rating.
func ForRating(actor models.Actor, content *models.ContentInfo, rating int) *models.Notification {
	return &models.Notification{
		RecipientID: content.AuthorID,
		Type:        models.NotificationRating,
		Title:       fmt.Sprintf("%s rated your %s %d stars", actor.Name, content.Ref.Kind, rating),
		Body:        fmt.Sprintf("%q", content.Title),
		RelatedKind: string(content.Ref.Kind),
		RelatedID:   content.Ref.ID,
		RelatedURL:  content.Ref.URL(),
		SenderID:    actor.ID,
		SenderName:  actor.Name,
	}
}

// ForMessageReply builds the notification for a reply to a contact message
// whose sender was a signed-in user.
func ForMessageReply(actor models.Actor, recipientID, messageID uint, subject string) *models.Notification {
	return &models.Notification{
		RecipientID: recipientID,
		Type:        models.NotificationMessageReply,
		Title:       fmt.Sprintf("%s replied to your message", actor.Name),
		Body:        fmt.Sprintf("%q", subject),
		RelatedKind: "message",
		RelatedID:   messageID,
		RelatedURL:  "/contact",
		SenderID:    actor.ID,
		SenderName:  actor.Name,
	}
}

// List returns one page of the recipient's notifications, newest first,
// optionally filtered by type.
func (s *NotificationService) List(ctx context.Context, actor models.Actor, typeFilter string, page, limit int) ([]models.Notification, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	notifications, total, err := s.notifications.WithTx(s.db.WithContext(ctx)).
		GetByRecipientID(actor.ID, typeFilter, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return notifications, paginate(page, limit, total), nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor models.Actor) (int64, error) {
	return s.notifications.WithTx(s.db.WithContext(ctx)).GetUnreadCount(actor.ID)
}

// MarkRead marks one notification as read; only its recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, actor models.Actor, id uint) error {
	repo := s.notifications.WithTx(s.db.WithContext(ctx))
	n, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("notification not found")
		}
		return err
	}
	if n.RecipientID != actor.ID {
		return apperr.Forbidden("not your notification")
	}
	if n.IsRead {
		return nil
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	return repo.Save(n)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor models.Actor) error {
	return s.notifications.WithTx(s.db.WithContext(ctx)).MarkAllAsRead(actor.ID)
}

// View marks the notification read and returns the URL to jump to.
func (s *NotificationService) View(ctx context.Context, actor models.Actor, id uint) (string, error) {
	repo := s.notifications.WithTx(s.db.WithContext(ctx))
	n, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.NotFound("notification not found")
		}
		return "", err
	}
	if n.RecipientID != actor.ID {
		return "", apperr.Forbidden("not your notification")
	}
	if !n.IsRead {
		now := time.Now()
		n.IsRead = true
		n.ReadAt = &now
		if err := repo.Save(n); err != nil {
			return "", err
		}
	}
	return n.RelatedURL, nil
}

// Delete removes a notification; only its recipient may do so.
func (s *NotificationService) Delete(ctx context.Context, actor models.Actor, id uint) error {
	repo := s.notifications.WithTx(s.db.WithContext(ctx))
	n, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("notification not found")
		}
		return err
	}
	if n.RecipientID != actor.ID {
		return apperr.Forbidden("not your notification")
	}
	return repo.Delete(id)
}

func excerpt(s string) string {
	runes := []rune(s)
	if len(runes) <= notificationExcerptLen {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%q", string(runes[:notificationExcerptLen])+"...")
}

func paginate(page, perPage int, total int64) *models.Pagination {
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return &models.Pagination{
		Page:    page,
		Pages:   pages,
		PerPage: perPage,
		Total:   total,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}

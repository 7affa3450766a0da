package services

import (
	"context"
	"errors"
	"strings"

	"github.com/liuwei-h/personal-site/backend/internal/apperr"
	"github.com/liuwei-h/personal-site/backend/internal/models"
	"github.com/liuwei-h/personal-site/backend/internal/repositories"
	"github.com/liuwei-h/personal-site/backend/pkg/logger"
	"gorm.io/gorm"
)

const maxCommentLen = 1000

// CommentService owns comments, replies and comment likes.
type CommentService struct {
	db            *gorm.DB
	contents      repositories.ContentRepository
	comments      repositories.CommentRepository
	commentLikes  repositories.CommentLikeRepository
	users         repositories.UserRepository
	aggregates    *AggregateMaintainer
	notifications *NotificationService
	log           *logger.Logger
}

func NewCommentService(
	db *gorm.DB,
	contents repositories.ContentRepository,
	comments repositories.CommentRepository,
	commentLikes repositories.CommentLikeRepository,
	users repositories.UserRepository,
	aggregates *AggregateMaintainer,
	notifications *NotificationService,
	log *logger.Logger,
) *CommentService {
	return &CommentService{
		db:            db,
		contents:      contents,
		comments:      comments,
		commentLikes:  commentLikes,
		users:         users,
		aggregates:    aggregates,
		notifications: notifications,
		log:           log,
	}
}

type AddCommentResult struct {
	Comment      *models.Comment
	CommentCount int
}

// AddComment inserts a comment and re-derives the content's comment count.
// The count is recomputed rather than incremented because the counting rule
// only admits non-empty bodies.
func (s *CommentService) AddComment(ctx context.Context, actor models.Actor, ref models.ContentRef, body string) (*AddCommentResult, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.Validation("comment cannot be empty")
	}
	if len([]rune(body)) > maxCommentLen {
		return nil, apperr.Validation("comment is too long")
	}

	var result AddCommentResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		content, err := s.resolveForUpdate(tx, ref)
		if err != nil {
			return err
		}

		comment := &models.Comment{
			UserID:      actor.ID,
			ContentKind: ref.Kind,
			ContentID:   ref.ID,
			Body:        body,
		}
		if err := s.comments.WithTx(tx).CreateComment(comment); err != nil {
			return err
		}

		count, err := s.aggregates.WithTx(tx).RecomputeCommentCount(ref)
		if err != nil {
			return err
		}

		if err := s.notifications.Dispatch(tx, ForComment(actor, content, body)); err != nil {
			return err
		}

		result = AddCommentResult{Comment: comment, CommentCount: count}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("added comment", "user_id", actor.ID, "kind", ref.Kind, "content_id", ref.ID, "comment_id", result.Comment.ID)
	return &result, nil
}

// AddReply inserts a reply under a comment and notifies the comment's author.
func (s *CommentService) AddReply(ctx context.Context, actor models.Actor, commentID uint, body string) (*models.CommentReply, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.Validation("reply cannot be empty")
	}
	if len([]rune(body)) > maxCommentLen {
		return nil, apperr.Validation("reply is too long")
	}

	var reply *models.CommentReply
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment, err := s.getComment(tx, commentID)
		if err != nil {
			return err
		}

		reply = &models.CommentReply{CommentID: comment.ID, UserID: actor.ID, Body: body}
		if err := s.comments.WithTx(tx).CreateReply(reply); err != nil {
			return err
		}

		ref := models.ContentRef{Kind: comment.ContentKind, ID: comment.ContentID}
		return s.notifications.Dispatch(tx, ForReply(actor, comment.UserID, comment.ID, ref, body))
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// DeleteComment removes a comment with its replies and likes. Only the author
// or an admin may delete; the content's comment count is re-derived.
func (s *CommentService) DeleteComment(ctx context.Context, actor models.Actor, commentID uint) (int, error) {
	var count int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment, err := s.getComment(tx, commentID)
		if err != nil {
			return err
		}
		if !CanModify(actor, comment.UserID) {
			return apperr.Forbidden("not allowed to delete this comment")
		}

		ref := models.ContentRef{Kind: comment.ContentKind, ID: comment.ContentID}
		if _, err := s.resolveForUpdate(tx, ref); err != nil {
			return err
		}

		if err := s.comments.WithTx(tx).DeleteComment(comment.ID); err != nil {
			return err
		}

		count, err = s.aggregates.WithTx(tx).RecomputeCommentCount(ref)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Debug("deleted comment", "user_id", actor.ID, "comment_id", commentID)
	return count, nil
}

// DeleteReply removes one reply; author or admin only.
func (s *CommentService) DeleteReply(ctx context.Context, actor models.Actor, replyID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reply, err := s.comments.WithTx(tx).GetReplyByID(replyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("reply not found")
			}
			return err
		}
		if !CanModify(actor, reply.UserID) {
			return apperr.Forbidden("not allowed to delete this reply")
		}
		return s.comments.WithTx(tx).DeleteReply(reply.ID)
	})
}

type CommentLikeResult struct {
	Liked     bool
	LikeCount int
}

// ToggleCommentLike creates or removes the actor's like on a comment and
// moves the comment's own like counter ±1, clamped at zero.
func (s *CommentService) ToggleCommentLike(ctx context.Context, actor models.Actor, commentID uint) (*CommentLikeResult, error) {
	var result CommentLikeResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment, err := s.comments.WithTx(tx).GetCommentForUpdate(commentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("comment not found")
			}
			return err
		}

		likes := s.commentLikes.WithTx(tx)
		removed, err := likes.Delete(comment.ID, actor.ID)
		if err != nil {
			return err
		}

		if removed {
			comment.LikeCount = clampCount(comment.LikeCount - 1)
		} else {
			if err := likes.Create(&models.CommentLike{CommentID: comment.ID, UserID: actor.ID}); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperr.Conflict("concurrent comment like")
				}
				return err
			}
			comment.LikeCount++
		}
		if err := s.comments.WithTx(tx).SaveComment(comment); err != nil {
			return err
		}

		if !removed {
			ref := models.ContentRef{Kind: comment.ContentKind, ID: comment.ContentID}
			if err := s.notifications.Dispatch(tx, ForCommentLike(actor, comment.UserID, comment.ID, ref)); err != nil {
				return err
			}
		}

		result = CommentLikeResult{Liked: !removed, LikeCount: comment.LikeCount}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type CommentListing struct {
	Comments   []models.CommentView
	Pagination *models.Pagination
}

// ListComments returns one page of comments (non-empty body, newest first)
// with their replies oldest first. Replies are not paginated; threads on a
// personal site stay short. When a requester is given, each comment carries
// that actor's like flag.
func (s *CommentService) ListComments(ctx context.Context, requester *models.Actor, ref models.ContentRef, page, perPage int) (*CommentListing, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 50 {
		perPage = 10
	}

	db := s.db.WithContext(ctx)
	if _, err := s.contents.WithTx(db).Resolve(ref); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("content not found")
		}
		return nil, err
	}

	comments, total, err := s.comments.WithTx(db).ListPage(ref, page, perPage)
	if err != nil {
		return nil, err
	}

	commentIDs := make([]uint, 0, len(comments))
	userIDs := make([]uint, 0, len(comments))
	for _, c := range comments {
		commentIDs = append(commentIDs, c.ID)
		userIDs = append(userIDs, c.UserID)
	}

	replies, err := s.comments.WithTx(db).RepliesFor(commentIDs)
	if err != nil {
		return nil, err
	}
	repliesByComment := make(map[uint][]models.CommentReply)
	for _, r := range replies {
		repliesByComment[r.CommentID] = append(repliesByComment[r.CommentID], r)
		userIDs = append(userIDs, r.UserID)
	}

	users, err := s.users.GetUsersByIDs(userIDs)
	if err != nil {
		return nil, err
	}

	liked := map[uint]bool{}
	if requester != nil {
		liked, err = s.commentLikes.WithTx(db).LikedCommentIDs(requester.ID, commentIDs)
		if err != nil {
			return nil, err
		}
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		view := models.CommentView{
			ID:        c.ID,
			Content:   c.Body,
			LikeCount: c.LikeCount,
			IsLiked:   liked[c.ID],
			CreatedAt: c.CreatedAt,
			User:      compactUser(users, c.UserID),
			Replies:   make([]models.ReplyView, 0, len(repliesByComment[c.ID])),
		}
		for _, r := range repliesByComment[c.ID] {
			view.Replies = append(view.Replies, models.ReplyView{
				ID:        r.ID,
				Content:   r.Body,
				CreatedAt: r.CreatedAt,
				User:      compactUser(users, r.UserID),
			})
		}
		views = append(views, view)
	}

	return &CommentListing{Comments: views, Pagination: paginate(page, perPage, total)}, nil
}

func (s *CommentService) getComment(tx *gorm.DB, id uint) (*models.Comment, error) {
	comment, err := s.comments.WithTx(tx).GetCommentByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) resolveForUpdate(tx *gorm.DB, ref models.ContentRef) (*models.ContentInfo, error) {
	content, err := s.contents.WithTx(tx).ResolveForUpdate(ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("content not found")
		}
		return nil, err
	}
	return content, nil
}

func compactUser(users map[uint]models.User, id uint) models.UserCompact {
	if u, ok := users[id]; ok {
		return models.UserCompact{ID: u.ID, Name: u.Name}
	}
	return models.UserCompact{ID: id}
}

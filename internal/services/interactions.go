package services

import (
	"context"
	"errors"

	"github.com/liuwei-h/personal-site/backend/internal/apperr"
	"github.com/liuwei-h/personal-site/backend/internal/models"
	"github.com/liuwei-h/personal-site/backend/internal/repositories"
	"github.com/liuwei-h/personal-site/backend/pkg/logger"
	"gorm.io/gorm"
)

// InteractionService owns the per-user like/favorite/rating rows. Every
// mutation runs the row change, the counter update and the notification
// insert inside one transaction; a failure in any step rolls back all three.
type InteractionService struct {
	db            *gorm.DB
	contents      repositories.ContentRepository
	interactions  repositories.InteractionRepository
	aggregates    *AggregateMaintainer
	notifications *NotificationService
	log           *logger.Logger
}

func NewInteractionService(
	db *gorm.DB,
	contents repositories.ContentRepository,
	interactions repositories.InteractionRepository,
	aggregates *AggregateMaintainer,
	notifications *NotificationService,
	log *logger.Logger,
) *InteractionService {
	return &InteractionService{
		db:            db,
		contents:      contents,
		interactions:  interactions,
		aggregates:    aggregates,
		notifications: notifications,
		log:           log,
	}
}

type ToggleResult struct {
	Active bool
	Count  int
}

// ToggleLike flips the actor's like flag on the content. Repeating the call
// flips it back; the counter moves ±1 and never below zero.
func (s *InteractionService) ToggleLike(ctx context.Context, actor models.Actor, ref models.ContentRef) (*ToggleResult, error) {
	var result ToggleResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		content, err := s.resolveForUpdate(tx, ref)
		if err != nil {
			return err
		}
		row, err := s.findOrCreate(tx, actor.ID, ref)
		if err != nil {
			return err
		}

		row.Liked = !row.Liked
		if err := s.interactions.WithTx(tx).Save(row); err != nil {
			return err
		}

		delta := -1
		if row.Liked {
			delta = 1
		}
		count, err := s.aggregates.WithTx(tx).AdjustLikeCount(content, delta)
		if err != nil {
			return err
		}

		if row.Liked {
			if err := s.notifications.Dispatch(tx, ForLike(actor, content)); err != nil {
				return err
			}
		}

		result = ToggleResult{Active: row.Liked, Count: count}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("toggled like", "user_id", actor.ID, "kind", ref.Kind, "content_id", ref.ID, "liked", result.Active)
	return &result, nil
}

// ToggleFavorite is the favorite twin of ToggleLike.
func (s *InteractionService) ToggleFavorite(ctx context.Context, actor models.Actor, ref models.ContentRef) (*ToggleResult, error) {
	var result ToggleResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		content, err := s.resolveForUpdate(tx, ref)
		if err != nil {
			return err
		}
		row, err := s.findOrCreate(tx, actor.ID, ref)
		if err != nil {
			return err
		}

		row.Favorited = !row.Favorited
		if err := s.interactions.WithTx(tx).Save(row); err != nil {
			return err
		}

		delta := -1
		if row.Favorited {
			delta = 1
		}
		count, err := s.aggregates.WithTx(tx).AdjustFavoriteCount(content, delta)
		if err != nil {
			return err
		}

		if row.Favorited {
			if err := s.notifications.Dispatch(tx, ForFavorite(actor, content)); err != nil {
				return err
			}
		}

		result = ToggleResult{Active: row.Favorited, Count: count}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("toggled favorite", "user_id", actor.ID, "kind", ref.Kind, "content_id", ref.ID, "favorited", result.Active)
	return &result, nil
}

// SetRating stores the actor's 1..5 rating and re-derives the content's
// average. A re-rate overwrites the existing row; the average is recomputed
// by scan because one changed rating shifts the mean of all of them.
func (s *InteractionService) SetRating(ctx context.Context, actor models.Actor, ref models.ContentRef, rating int) (float64, error) {
	if rating < 1 || rating > 5 {
		return 0, apperr.Validation("rating must be between 1 and 5")
	}

	var average float64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		content, err := s.resolveForUpdate(tx, ref)
		if err != nil {
			return err
		}
		row, err := s.findOrCreate(tx, actor.ID, ref)
		if err != nil {
			return err
		}

		row.Rating = rating
		if err := s.interactions.WithTx(tx).Save(row); err != nil {
			return err
		}

		average, err = s.aggregates.WithTx(tx).RecomputeRating(ref)
		if err != nil {
			return err
		}

		return s.notifications.Dispatch(tx, ForRating(actor, content, rating))
	})
	if err != nil {
		return 0, err
	}
	s.log.Debug("saved rating", "user_id", actor.ID, "kind", ref.Kind, "content_id", ref.ID, "rating", rating)
	return average, nil
}

// GetStatus reports the actor's interaction state without creating a row.
func (s *InteractionService) GetStatus(ctx context.Context, actor models.Actor, ref models.ContentRef) (*models.InteractionStatus, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.contents.WithTx(db).Resolve(ref); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("content not found")
		}
		return nil, err
	}

	row, err := s.interactions.WithTx(db).Get(actor.ID, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.InteractionStatus{}, nil
		}
		return nil, err
	}

	status := &models.InteractionStatus{IsLiked: row.Liked, IsFavorited: row.Favorited}
	if row.Rating > 0 {
		rating := row.Rating
		status.UserRating = &rating
	}
	return status, nil
}

func (s *InteractionService) resolveForUpdate(tx *gorm.DB, ref models.ContentRef) (*models.ContentInfo, error) {
	content, err := s.contents.WithTx(tx).ResolveForUpdate(ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("content not found")
		}
		return nil, err
	}
	return content, nil
}

// findOrCreate loads the actor's interaction row, creating it on first use.
// A lost insert race against the (user, kind, id) unique index is retried
// once as a read of the winning row; a second failure surfaces as a conflict.
func (s *InteractionService) findOrCreate(tx *gorm.DB, userID uint, ref models.ContentRef) (*models.UserInteraction, error) {
	repo := s.interactions.WithTx(tx)

	row, err := repo.GetForUpdate(userID, ref)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row = &models.UserInteraction{UserID: userID, ContentKind: ref.Kind, ContentID: ref.ID}
	if err := repo.Create(row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			row, err = repo.GetForUpdate(userID, ref)
			if err != nil {
				return nil, apperr.Conflict("concurrent interaction update")
			}
			return row, nil
		}
		return nil, err
	}
	return row, nil
}

package services

import (
	"math"

	"github.com/liuwei-h/personal-site/backend/internal/models"
	"github.com/liuwei-h/personal-site/backend/internal/repositories"
	"gorm.io/gorm"
)

// AggregateMaintainer is the only writer of the denormalized counters on
// content rows (like_count, favorite_count, comment_count, average_rating).
// Like and favorite counts are adjusted incrementally at the point of toggle;
// average_rating and comment_count are re-derived by scan because their value
// depends on the whole population of rows, not a single flip.
type AggregateMaintainer struct {
	contents     repositories.ContentRepository
	interactions repositories.InteractionRepository
	comments     repositories.CommentRepository
}

func NewAggregateMaintainer(
	contents repositories.ContentRepository,
	interactions repositories.InteractionRepository,
	comments repositories.CommentRepository,
) *AggregateMaintainer {
	return &AggregateMaintainer{
		contents:     contents,
		interactions: interactions,
		comments:     comments,
	}
}

func (m *AggregateMaintainer) WithTx(tx *gorm.DB) *AggregateMaintainer {
	return &AggregateMaintainer{
		contents:     m.contents.WithTx(tx),
		interactions: m.interactions.WithTx(tx),
		comments:     m.comments.WithTx(tx),
	}
}

// AdjustLikeCount applies a ±1 delta to the already-resolved (and locked)
// content row, clamped at zero, and returns the new value.
func (m *AggregateMaintainer) AdjustLikeCount(content *models.ContentInfo, delta int) (int, error) {
	newCount := clampCount(content.LikeCount + delta)
	if err := m.contents.UpdateCounters(content.Ref, map[string]interface{}{"like_count": newCount}); err != nil {
		return 0, err
	}
	content.LikeCount = newCount
	return newCount, nil
}

// AdjustFavoriteCount is the favorite twin of AdjustLikeCount.
func (m *AggregateMaintainer) AdjustFavoriteCount(content *models.ContentInfo, delta int) (int, error) {
	newCount := clampCount(content.FavoriteCount + delta)
	if err := m.contents.UpdateCounters(content.Ref, map[string]interface{}{"favorite_count": newCount}); err != nil {
		return 0, err
	}
	content.FavoriteCount = newCount
	return newCount, nil
}

// RecomputeRating re-derives average_rating from all nonzero ratings on the
// content, rounded to one decimal, 0.0 when none remain.
func (m *AggregateMaintainer) RecomputeRating(ref models.ContentRef) (float64, error) {
	ratings, err := m.interactions.RatingsFor(ref)
	if err != nil {
		return 0, err
	}
	average := 0.0
	if len(ratings) > 0 {
		total := 0
		for _, r := range ratings {
			total += r
		}
		average = roundHalfEven(float64(total) / float64(len(ratings)))
	}
	if err := m.contents.UpdateCounters(ref, map[string]interface{}{"average_rating": average}); err != nil {
		return 0, err
	}
	return average, nil
}

// RecomputeCommentCount re-derives comment_count from comments with a
// non-empty body.
func (m *AggregateMaintainer) RecomputeCommentCount(ref models.ContentRef) (int, error) {
	count, err := m.comments.CountNonEmpty(ref)
	if err != nil {
		return 0, err
	}
	if err := m.contents.UpdateCounters(ref, map[string]interface{}{"comment_count": int(count)}); err != nil {
		return 0, err
	}
	return int(count), nil
}

// RecomputeAll re-derives every counter from source rows. Like and favorite
// counts are normally maintained incrementally; this is the repair path.
func (m *AggregateMaintainer) RecomputeAll(ref models.ContentRef) error {
	if _, err := m.RecomputeRating(ref); err != nil {
		return err
	}
	if _, err := m.RecomputeCommentCount(ref); err != nil {
		return err
	}
	likes, err := m.interactions.CountFlagged(ref, "liked")
	if err != nil {
		return err
	}
	favorites, err := m.interactions.CountFlagged(ref, "favorited")
	if err != nil {
		return err
	}
	return m.contents.UpdateCounters(ref, map[string]interface{}{
		"like_count":     int(likes),
		"favorite_count": int(favorites),
	})
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// roundHalfEven rounds to one decimal, ties to the even neighbor.
func roundHalfEven(x float64) float64 {
	scaled := x * 10
	floor := math.Floor(scaled)
	switch diff := scaled - floor; {
	case diff > 0.5:
		floor++
	case diff == 0.5 && math.Mod(floor, 2) != 0:
		floor++
	}
	return floor / 10
}

package repositories

import (
	"github.com/liuwei-h/personal-site/backend/internal/models"
	"gorm.io/gorm"
)

// CommentLikeRepository defines the interface for comment like operations
type CommentLikeRepository interface {
	WithTx(tx *gorm.DB) CommentLikeRepository
	Create(like *models.CommentLike) error
	Delete(commentID, userID uint) (bool, error)
	HasUserLiked(commentID, userID uint) (bool, error)
	LikedCommentIDs(userID uint, commentIDs []uint) (map[uint]bool, error)
}

type postgresCommentLikeRepository struct {
	db *gorm.DB
}

func NewPostgresCommentLikeRepository(db *gorm.DB) CommentLikeRepository {
	return &postgresCommentLikeRepository{db: db}
}

func (r *postgresCommentLikeRepository) WithTx(tx *gorm.DB) CommentLikeRepository {
	return &postgresCommentLikeRepository{db: tx}
}

func (r *postgresCommentLikeRepository) Create(like *models.CommentLike) error {
	return r.db.Create(like).Error
}

// Delete reports whether a row was actually removed.
func (r *postgresCommentLikeRepository) Delete(commentID, userID uint) (bool, error) {
	res := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *postgresCommentLikeRepository) HasUserLiked(commentID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CommentLike{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	return count > 0, err
}

// LikedCommentIDs returns which of the given comments the user has liked.
func (r *postgresCommentLikeRepository) LikedCommentIDs(userID uint, commentIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(commentIDs) == 0 {
		return result, nil
	}
	var likes []models.CommentLike
	err := r.db.Where("user_id = ? AND comment_id IN ?", userID, commentIDs).Find(&likes).Error
	if err != nil {
		return nil, err
	}
	for _, l := range likes {
		result[l.CommentID] = true
	}
	return result, nil
}

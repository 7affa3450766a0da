package repositories

import (
	"github.com/liuwei-h/personal-site/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment and reply data operations
type CommentRepository interface {
	WithTx(tx *gorm.DB) CommentRepository
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentForUpdate(id uint) (*models.Comment, error)
	SaveComment(comment *models.Comment) error
	// DeleteComment removes the comment together with its replies and likes.
	DeleteComment(id uint) error
	ListPage(ref models.ContentRef, page, perPage int) ([]models.Comment, int64, error)
	CountNonEmpty(ref models.ContentRef) (int64, error)
	CreateReply(reply *models.CommentReply) error
	GetReplyByID(id uint) (*models.CommentReply, error)
	DeleteReply(id uint) error
	RepliesFor(commentIDs []uint) ([]models.CommentReply, error)
}

// PostgresCommentRepository implements CommentRepository
type PostgresCommentRepository struct {
	db *gorm.DB
}

func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &PostgresCommentRepository{db: tx}
}

func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *PostgresCommentRepository) GetCommentForUpdate(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := forUpdate(r.db).First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *PostgresCommentRepository) SaveComment(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

func (r *PostgresCommentRepository) DeleteComment(id uint) error {
	if err := r.db.Where("comment_id = ?", id).Delete(&models.CommentReply{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("comment_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Comment{}, id).Error
}

// ListPage returns one page of non-empty comments, newest first.
func (r *PostgresCommentRepository) ListPage(ref models.ContentRef, page, perPage int) ([]models.Comment, int64, error) {
	// Session forks the statement so Count and Find run independently
	base := r.db.Model(&models.Comment{}).
		Where("content_kind = ? AND content_id = ? AND body <> ''", ref.Kind, ref.ID).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := base.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&comments).Error
	return comments, total, err
}

func (r *PostgresCommentRepository) CountNonEmpty(ref models.ContentRef) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).
		Where("content_kind = ? AND content_id = ? AND body <> ''", ref.Kind, ref.ID).
		Count(&count).Error
	return count, err
}

func (r *PostgresCommentRepository) CreateReply(reply *models.CommentReply) error {
	return r.db.Create(reply).Error
}

func (r *PostgresCommentRepository) GetReplyByID(id uint) (*models.CommentReply, error) {
	var reply models.CommentReply
	if err := r.db.First(&reply, id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *PostgresCommentRepository) DeleteReply(id uint) error {
	return r.db.Delete(&models.CommentReply{}, id).Error
}

// RepliesFor returns the replies for a set of comments, oldest first.
func (r *PostgresCommentRepository) RepliesFor(commentIDs []uint) ([]models.CommentReply, error) {
	var replies []models.CommentReply
	if len(commentIDs) == 0 {
		return replies, nil
	}
	err := r.db.Where("comment_id IN ?", commentIDs).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

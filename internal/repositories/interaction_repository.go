package repositories

import (
	"github.com/liuwei-h/personal-site/backend/internal/models"
	"gorm.io/gorm"
)

// InteractionRepository defines the interface for per-user interaction rows
type InteractionRepository interface {
	WithTx(tx *gorm.DB) InteractionRepository
	Create(interaction *models.UserInteraction) error
	Get(userID uint, ref models.ContentRef) (*models.UserInteraction, error)
	// GetForUpdate locks the row so concurrent toggles by the same actor
	// serialize inside the surrounding transaction.
	GetForUpdate(userID uint, ref models.ContentRef) (*models.UserInteraction, error)
	Save(interaction *models.UserInteraction) error
	RatingsFor(ref models.ContentRef) ([]int, error)
	CountFlagged(ref models.ContentRef, column string) (int64, error)
}

// PostgresInteractionRepository implements InteractionRepository
type PostgresInteractionRepository struct {
	db *gorm.DB
}

func NewPostgresInteractionRepository(db *gorm.DB) *PostgresInteractionRepository {
	return &PostgresInteractionRepository{db: db}
}

func (r *PostgresInteractionRepository) WithTx(tx *gorm.DB) InteractionRepository {
	return &PostgresInteractionRepository{db: tx}
}

func (r *PostgresInteractionRepository) Create(interaction *models.UserInteraction) error {
	return r.db.Create(interaction).Error
}

func (r *PostgresInteractionRepository) Get(userID uint, ref models.ContentRef) (*models.UserInteraction, error) {
	return r.get(r.db, userID, ref)
}

func (r *PostgresInteractionRepository) GetForUpdate(userID uint, ref models.ContentRef) (*models.UserInteraction, error) {
	return r.get(forUpdate(r.db), userID, ref)
}

func (r *PostgresInteractionRepository) get(db *gorm.DB, userID uint, ref models.ContentRef) (*models.UserInteraction, error) {
	var interaction models.UserInteraction
	err := db.Where("user_id = ? AND content_kind = ? AND content_id = ?", userID, ref.Kind, ref.ID).
		First(&interaction).Error
	if err != nil {
		return nil, err
	}
	return &interaction, nil
}

func (r *PostgresInteractionRepository) Save(interaction *models.UserInteraction) error {
	return r.db.Save(interaction).Error
}

// RatingsFor returns all nonzero ratings for one piece of content.
func (r *PostgresInteractionRepository) RatingsFor(ref models.ContentRef) ([]int, error) {
	var ratings []int
	err := r.db.Model(&models.UserInteraction{}).
		Where("content_kind = ? AND content_id = ? AND rating > 0", ref.Kind, ref.ID).
		Pluck("rating", &ratings).Error
	return ratings, err
}

// CountFlagged counts interaction rows with the given boolean column set.
// Column is one of "liked" or "favorited".
func (r *PostgresInteractionRepository) CountFlagged(ref models.ContentRef, column string) (int64, error) {
	if column != "liked" && column != "favorited" {
		return 0, gorm.ErrInvalidField
	}
	var count int64
	err := r.db.Model(&models.UserInteraction{}).
		Where("content_kind = ? AND content_id = ?", ref.Kind, ref.ID).
		Where(column+" = ?", true).
		Count(&count).Error
	return count, err
}

package repositories

import (
	"errors"

	"github.com/liuwei-h/personal-site/backend/internal/models"
	"gorm.io/gorm"
)

// ContentRepository resolves content references and persists the denormalized
// counters. Counter writes are reserved for the aggregate maintainer.
type ContentRepository interface {
	WithTx(tx *gorm.DB) ContentRepository
	Resolve(ref models.ContentRef) (*models.ContentInfo, error)
	// ResolveForUpdate locks the content row for the current transaction so
	// concurrent counter writes on the same content serialize.
	ResolveForUpdate(ref models.ContentRef) (*models.ContentInfo, error)
	UpdateCounters(ref models.ContentRef, values map[string]interface{}) error
	ListPosts() ([]models.Post, error)
	GetPost(id uint) (*models.Post, error)
	ListProjects() ([]models.Project, error)
	GetProject(id uint) (*models.Project, error)
}

// PostgresContentRepository implements ContentRepository
type PostgresContentRepository struct {
	db *gorm.DB
}

func NewPostgresContentRepository(db *gorm.DB) *PostgresContentRepository {
	return &PostgresContentRepository{db: db}
}

func (r *PostgresContentRepository) WithTx(tx *gorm.DB) ContentRepository {
	return &PostgresContentRepository{db: tx}
}

func (r *PostgresContentRepository) Resolve(ref models.ContentRef) (*models.ContentInfo, error) {
	return r.resolve(r.db, ref)
}

func (r *PostgresContentRepository) ResolveForUpdate(ref models.ContentRef) (*models.ContentInfo, error) {
	return r.resolve(forUpdate(r.db), ref)
}

func (r *PostgresContentRepository) resolve(db *gorm.DB, ref models.ContentRef) (*models.ContentInfo, error) {
	switch ref.Kind {
	case models.KindPost:
		var post models.Post
		if err := db.First(&post, ref.ID).Error; err != nil {
			return nil, err
		}
		return &models.ContentInfo{
			Ref:           ref,
			AuthorID:      post.AuthorID,
			Title:         post.Title,
			LikeCount:     post.LikeCount,
			FavoriteCount: post.FavoriteCount,
			CommentCount:  post.CommentCount,
			AverageRating: post.AverageRating,
		}, nil
	case models.KindProject:
		var project models.Project
		if err := db.First(&project, ref.ID).Error; err != nil {
			return nil, err
		}
		return &models.ContentInfo{
			Ref:           ref,
			AuthorID:      project.AuthorID,
			Title:         project.Title,
			LikeCount:     project.LikeCount,
			FavoriteCount: project.FavoriteCount,
			CommentCount:  project.CommentCount,
			AverageRating: project.AverageRating,
		}, nil
	default:
		return nil, errors.New("unknown content kind")
	}
}

func (r *PostgresContentRepository) UpdateCounters(ref models.ContentRef, values map[string]interface{}) error {
	switch ref.Kind {
	case models.KindPost:
		return r.db.Model(&models.Post{}).Where("id = ?", ref.ID).Updates(values).Error
	case models.KindProject:
		return r.db.Model(&models.Project{}).Where("id = ?", ref.ID).Updates(values).Error
	default:
		return errors.New("unknown content kind")
	}
}

func (r *PostgresContentRepository) ListPosts() ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Order("created_at DESC").Find(&posts).Error
	return posts, err
}

func (r *PostgresContentRepository) GetPost(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostgresContentRepository) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *PostgresContentRepository) GetProject(id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

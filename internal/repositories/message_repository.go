package repositories

import (
	"github.com/liuwei-h/personal-site/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for contact message operations
type MessageRepository interface {
	WithTx(tx *gorm.DB) MessageRepository
	Create(message *models.Message) error
	GetByID(id uint) (*models.Message, error)
	GetForUpdate(id uint) (*models.Message, error)
	Save(message *models.Message) error
	Delete(id uint) error
	List(statusFilter string, page, limit int) ([]models.Message, int64, error)
	CreateReply(reply *models.MessageReply) error
	GetReplyByID(id uint) (*models.MessageReply, error)
	DeleteReply(id uint) error
	RepliesFor(messageID uint) ([]models.MessageReply, error)
	CountReplies(messageID uint) (int64, error)
}

type postgresMessageRepository struct {
	db *gorm.DB
}

func NewPostgresMessageRepository(db *gorm.DB) MessageRepository {
	return &postgresMessageRepository{db: db}
}

func (r *postgresMessageRepository) WithTx(tx *gorm.DB) MessageRepository {
	return &postgresMessageRepository{db: tx}
}

func (r *postgresMessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *postgresMessageRepository) GetByID(id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *postgresMessageRepository) GetForUpdate(id uint) (*models.Message, error) {
	var message models.Message
	err := forUpdate(r.db).First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *postgresMessageRepository) Save(message *models.Message) error {
	return r.db.Save(message).Error
}

func (r *postgresMessageRepository) Delete(id uint) error {
	if err := r.db.Where("message_id = ?", id).Delete(&models.MessageReply{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Message{}, id).Error
}

func (r *postgresMessageRepository) List(statusFilter string, page, limit int) ([]models.Message, int64, error) {
	query := r.db.Model(&models.Message{})
	if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&messages).Error
	return messages, total, err
}

func (r *postgresMessageRepository) CreateReply(reply *models.MessageReply) error {
	return r.db.Create(reply).Error
}

func (r *postgresMessageRepository) GetReplyByID(id uint) (*models.MessageReply, error) {
	var reply models.MessageReply
	if err := r.db.First(&reply, id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *postgresMessageRepository) DeleteReply(id uint) error {
	return r.db.Delete(&models.MessageReply{}, id).Error
}

func (r *postgresMessageRepository) RepliesFor(messageID uint) ([]models.MessageReply, error) {
	var replies []models.MessageReply
	err := r.db.Where("message_id = ?", messageID).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

func (r *postgresMessageRepository) CountReplies(messageID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.MessageReply{}).Where("message_id = ?", messageID).Count(&count).Error
	return count, err
}

package services

import (
	"testing"

	"github.com/liuwei-h/personal-site/backend/internal/models"
	"github.com/liuwei-h/personal-site/backend/internal/repositories"
	"github.com/liuwei-h/personal-site/backend/pkg/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires the full service stack over an in-memory database.
type testEnv struct {
	db            *gorm.DB
	interactions  *InteractionService
	comments      *CommentService
	notifications *NotificationService
	messages      *MessageService
	aggregates    *AggregateMaintainer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Project{},
		&models.UserInteraction{},
		&models.Comment{},
		&models.CommentReply{},
		&models.CommentLike{},
		&models.Notification{},
		&models.Message{},
		&models.MessageReply{},
	))

	log := logger.NewNop()
	contentRepo := repositories.NewPostgresContentRepository(db)
	interactionRepo := repositories.NewPostgresInteractionRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	commentLikeRepo := repositories.NewPostgresCommentLikeRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	messageRepo := repositories.NewPostgresMessageRepository(db)
	userRepo := repositories.NewPostgresUserRepository(db)

	aggregates := NewAggregateMaintainer(contentRepo, interactionRepo, commentRepo)
	notifications := NewNotificationService(db, notificationRepo, log)

	return &testEnv{
		db:            db,
		interactions:  NewInteractionService(db, contentRepo, interactionRepo, aggregates, notifications, log),
		comments:      NewCommentService(db, contentRepo, commentRepo, commentLikeRepo, userRepo, aggregates, notifications, log),
		notifications: notifications,
		messages:      NewMessageService(db, messageRepo, notifications, log),
		aggregates:    aggregates,
	}
}

func (e *testEnv) seedUser(t *testing.T, name string, admin bool) models.Actor {
	t.Helper()
	user := models.User{Name: name, Email: name + "@example.com", Password: "x", IsAdmin: admin}
	require.NoError(t, e.db.Create(&user).Error)
	return user.ToActor()
}

func (e *testEnv) seedPost(t *testing.T, authorID uint, title string) models.ContentRef {
	t.Helper()
	post := models.Post{AuthorID: authorID, Title: title, Body: "body"}
	require.NoError(t, e.db.Create(&post).Error)
	return models.ContentRef{Kind: models.KindPost, ID: post.ID}
}

func (e *testEnv) seedProject(t *testing.T, authorID uint, title string) models.ContentRef {
	t.Helper()
	project := models.Project{AuthorID: authorID, Title: title, Description: "desc"}
	require.NoError(t, e.db.Create(&project).Error)
	return models.ContentRef{Kind: models.KindProject, ID: project.ID}
}

func (e *testEnv) postCounters(t *testing.T, id uint) models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, e.db.First(&post, id).Error)
	return post
}

func (e *testEnv) notificationsFor(t *testing.T, recipientID uint) []models.Notification {
	t.Helper()
	var rows []models.Notification
	require.NoError(t, e.db.Where("recipient_id = ?", recipientID).Order("id").Find(&rows).Error)
	return rows
}

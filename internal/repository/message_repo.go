package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/db"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

func (r *MessageRepository) WithTx(tx *gorm.DB) *MessageRepository {
	return &MessageRepository{db: tx}
}

func (r *MessageRepository) Create(ctx context.Context, m *db.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListForConversation returns the conversation's messages oldest first,
// flagged relative to viewerID.
func (r *MessageRepository) ListForConversation(ctx context.Context, conversationID, viewerID uint64) ([]MessageRow, error) {
	var rows []MessageRow
	err := r.db.WithContext(ctx).
		Table("messages m").
		Select(`m.id, m.body, m.created_at, m.is_read, m.sender_id,
			u.first_name, u.last_name, u.profile_image,
			CASE WHEN m.sender_id = ? THEN 1 ELSE 0 END AS is_from_me`, viewerID).
		Joins("JOIN users u ON u.id = m.sender_id").
		Where("m.conversation_id = ?", conversationID).
		Order("m.created_at ASC, m.id ASC").
		Scan(&rows).Error
	return rows, err
}

// MarkReadFor flags the messages readerID received in the conversation.
func (r *MessageRepository) MarkReadFor(ctx context.Context, conversationID, readerID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
